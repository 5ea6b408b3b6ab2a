package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Exchange.RESTBaseURL == "" {
		t.Error("expected default REST URL")
	}
	if cfg.Exchange.MaxRetries != 3 {
		t.Errorf("expected default max retries 3, got %d", cfg.Exchange.MaxRetries)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected default cache TTL 5m, got %v", cfg.Cache.TTL)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr :8080, got %s", cfg.Server.ListenAddr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LENS_REST_URL", "http://localhost:9999")
	t.Setenv("LENS_CACHE_TTL", "90s")
	t.Setenv("LENS_HTTP_MAX_RETRIES", "5")
	t.Setenv("LENS_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Exchange.RESTBaseURL != "http://localhost:9999" {
		t.Errorf("REST URL override not applied: %s", cfg.Exchange.RESTBaseURL)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("cache TTL override not applied: %v", cfg.Cache.TTL)
	}
	if cfg.Exchange.MaxRetries != 5 {
		t.Errorf("max retries override not applied: %d", cfg.Exchange.MaxRetries)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("redis addr override not applied: %s", cfg.Cache.RedisAddr)
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("LENS_CACHE_TTL", "not-a-duration")
	t.Setenv("LENS_HTTP_MAX_RETRIES", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("expected fallback TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Exchange.MaxRetries != 3 {
		t.Errorf("expected fallback retries, got %d", cfg.Exchange.MaxRetries)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty REST URL")
	}

	cfg.Exchange.RESTBaseURL = "http://localhost"
	cfg.Exchange.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative retries")
	}
}
