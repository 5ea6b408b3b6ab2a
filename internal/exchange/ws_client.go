package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig configures WebSocket client behavior.
type WSConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// Message is a single update received on a subscribed channel. Channel is
// the full channel name as the server reports it. Payload is the raw
// update body, decoded downstream by internal/normalize.
type Message struct {
	Channel string
	Payload json.RawMessage
}

// WSClient maintains a WebSocket connection to the exchange stream API
// with automatic reconnect and resubscription.
type WSClient struct {
	endpoint string
	config   WSConfig
	logger   *log.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	// subs maps channel name to delivery channel
	subs   map[string]chan Message
	subsMu sync.RWMutex

	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// NewWSClient creates a client and connects to the stream endpoint.
func NewWSClient(ctx context.Context, endpoint string, config *WSConfig, logger *log.Logger) (*WSClient, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.Default()
	}

	c := &WSClient{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		subs:     make(map[string]chan Message),
		done:     make(chan struct{}),
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// connect establishes the WebSocket connection.
func (c *WSClient) connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// Subscribe registers for updates on a channel, e.g. "account_all/42" or
// "market_stats/all". The returned channel stays valid across reconnects
// and is closed only by Close.
func (c *WSClient) Subscribe(channel string) (<-chan Message, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("client closed")
	}

	c.subsMu.Lock()
	ch, exists := c.subs[channel]
	if !exists {
		// Buffer absorbs update bursts; blocking send avoids loss
		ch = make(chan Message, 1024)
		c.subs[channel] = ch
	}
	c.subsMu.Unlock()

	if exists {
		return ch, nil
	}

	if err := c.sendSubscribe(channel); err != nil {
		c.subsMu.Lock()
		delete(c.subs, channel)
		c.subsMu.Unlock()
		return nil, err
	}
	return ch, nil
}

// Unsubscribe stops delivery for a channel and closes its Go channel.
func (c *WSClient) Unsubscribe(channel string) error {
	c.subsMu.Lock()
	ch, ok := c.subs[channel]
	if ok {
		delete(c.subs, channel)
		close(ch)
	}
	c.subsMu.Unlock()

	if !ok || c.closed.Load() {
		return nil
	}
	return c.writeJSON(wsSubscribeRequest{Type: "unsubscribe", Channel: channel})
}

// sendSubscribe writes a subscribe frame for the channel.
func (c *WSClient) sendSubscribe(channel string) error {
	return c.writeJSON(wsSubscribeRequest{Type: "subscribe", Channel: channel})
}

func (c *WSClient) writeJSON(v interface{}) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close shuts down the connection and closes all subscription channels.
func (c *WSClient) Close() error {
	if c.closed.Swap(true) {
		return nil // Already closed
	}

	close(c.done)

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
	c.connMu.Unlock()

	c.subsMu.Lock()
	for name, ch := range c.subs {
		close(ch)
		delete(c.subs, name)
	}
	c.subsMu.Unlock()

	c.wg.Wait()
	return nil
}

// readLoop reads frames and dispatches them to subscribers.
func (c *WSClient) readLoop() {
	defer c.wg.Done()

	reconnectDelay := c.config.ReconnectDelay

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return
			}

			// Connection error - attempt reconnect with exponential backoff
			if !c.reconnecting.Swap(true) {
				go c.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > c.config.MaxReconnectDelay {
				reconnectDelay = c.config.MaxReconnectDelay
			}

			select {
			case <-c.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = c.config.ReconnectDelay

		c.handleMessage(message)
	}
}

// reconnect dials again and resubscribes to every active channel.
func (c *WSClient) reconnect(delay time.Duration) {
	defer c.reconnecting.Store(false)

	if c.closed.Load() {
		return
	}

	select {
	case <-c.done:
		return
	case <-time.After(delay):
	}

	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.connect(ctx); err != nil {
		c.logger.Printf("[ws] reconnect failed: %v", err)
		// Will retry on next read error
		return
	}

	c.resubscribeAll()
}

// resubscribeAll re-sends subscribe frames after a reconnect. Delivery
// channels survive, so consumers never notice the new connection.
func (c *WSClient) resubscribeAll() {
	c.subsMu.RLock()
	channels := make([]string, 0, len(c.subs))
	for name := range c.subs {
		channels = append(channels, name)
	}
	c.subsMu.RUnlock()

	for _, name := range channels {
		if err := c.sendSubscribe(name); err != nil {
			c.logger.Printf("[ws] resubscribe %s failed: %v", name, err)
		}
	}
}

// handleMessage decodes a frame and routes it by channel name.
func (c *WSClient) handleMessage(message []byte) {
	var frame wsFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.logger.Printf("[ws] malformed frame: %v", err)
		return
	}

	switch frame.Type {
	case "ping":
		// Server-level keepalive, answer in kind
		if err := c.writeJSON(wsSubscribeRequest{Type: "pong"}); err != nil {
			c.logger.Printf("[ws] pong failed: %v", err)
		}
		return
	case "error":
		c.logger.Printf("[ws] server error: %s", frame.Message)
		return
	case "subscribed", "unsubscribed", "connected":
		return
	}

	if frame.Channel == "" {
		return
	}

	c.subsMu.RLock()
	ch, ok := c.subs[frame.Channel]
	c.subsMu.RUnlock()

	if ok {
		// Block until we can send - never drop updates
		select {
		case ch <- Message{Channel: frame.Channel, Payload: payloadOf(frame)}:
		case <-c.done:
			return
		}
	}
}

// payloadOf picks the body field the server used for this frame type.
func payloadOf(frame wsFrame) json.RawMessage {
	if len(frame.Data) > 0 {
		return frame.Data
	}
	return frame.Payload
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (c *WSClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			if c.conn != nil {
				c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
				if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			c.connMu.Unlock()
		}
	}
}

// WebSocket message types

type wsSubscribeRequest struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
}

type wsFrame struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
	Payload json.RawMessage `json:"payload"`
	Message string          `json:"message"`
}
