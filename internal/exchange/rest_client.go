// Package exchange holds the REST and WebSocket clients for the exchange
// API. Raw payload shapes never leave this package: everything returned is
// normalized through internal/normalize first.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lighter-lens/internal/domain"
	"lighter-lens/internal/normalize"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// RESTClient issues HTTP calls against the exchange REST API with retry
// and exponential backoff.
type RESTClient struct {
	baseURL     string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures RESTClient.
type ClientOption func(*RESTClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *RESTClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *RESTClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *RESTClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *RESTClient) {
		c.client = client
	}
}

// NewRESTClient creates a client for the given API base URL.
func NewRESTClient(baseURL string, opts ...ClientOption) *RESTClient {
	c := &RESTClient{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Account is the result of the account-by-address lookup.
type Account struct {
	AccountIndex int64  `json:"account_index"`
	L1Address    string `json:"l1_address"`
}

// Snapshot is the normalized account snapshot.
type Snapshot struct {
	Positions []*domain.Position
	Trades    []*domain.Trade
	Stats     *domain.UserStats
}

// snapshotResponse defers payload decoding to the normalizers: positions
// and trades arrive as arrays or keyed objects depending on the endpoint
// revision.
type snapshotResponse struct {
	Positions json.RawMessage `json:"positions"`
	Trades    json.RawMessage `json:"trades"`
	Stats     json.RawMessage `json:"stats"`
}

type accountResponse struct {
	Accounts []Account `json:"accounts"`
}

type orderBooksResponse struct {
	OrderBooks []json.RawMessage `json:"order_books"`
}

// AccountByAddress resolves an L1 wallet address to its account index.
func (c *RESTClient) AccountByAddress(ctx context.Context, address string) (*Account, error) {
	q := url.Values{"by": {"l1_address"}, "value": {address}}
	var resp accountResponse
	if err := c.get(ctx, "/api/v1/account", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Accounts) == 0 {
		return nil, fmt.Errorf("no account for address %s", address)
	}
	return &resp.Accounts[0], nil
}

// AccountSnapshot fetches and normalizes positions, trades and stats for
// an account.
func (c *RESTClient) AccountSnapshot(ctx context.Context, accountIndex int64) (*Snapshot, error) {
	q := url.Values{"account_index": {fmt.Sprintf("%d", accountIndex)}}
	var resp snapshotResponse
	if err := c.get(ctx, "/api/v1/accountSnapshot", q, &resp); err != nil {
		return nil, err
	}
	return &Snapshot{
		Positions: normalize.Positions(resp.Positions),
		Trades:    normalize.Trades(resp.Trades),
		Stats:     normalize.UserStats(resp.Stats),
	}, nil
}

// OrderBooks lists every market's current stats.
func (c *RESTClient) OrderBooks(ctx context.Context) ([]*domain.MarketStats, error) {
	var resp orderBooksResponse
	if err := c.get(ctx, "/api/v1/orderBooks", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*domain.MarketStats, 0, len(resp.OrderBooks))
	for _, raw := range resp.OrderBooks {
		if ms := normalize.MarketStats(raw); ms != nil {
			out = append(out, ms)
		}
	}
	return out, nil
}

// get performs a GET with retries. Server errors and transport failures
// retry with exponential backoff; client errors fail immediately.
func (c *RESTClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	delay := c.retryDelay
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, body)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}
