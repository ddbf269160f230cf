package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.APIBaseURL != "https://localhost:7187" {
		t.Errorf("expected default API base URL, got %s", cfg.APIBaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Errorf("expected 30s API timeout, got %s", cfg.APITimeout)
	}
	if !cfg.CookieSecure {
		t.Error("expected secure cookies by default")
	}
	if cfg.RateLimitBurst != 5 {
		t.Errorf("expected default burst 5, got %d", cfg.RateLimitBurst)
	}
	if cfg.BodyLimit != "64K" {
		t.Errorf("expected default body limit 64K, got %s", cfg.BodyLimit)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "http://api.internal:5000")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("TOKEN_SIGNING_KEY", "shared")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.APIBaseURL != "http://api.internal:5000" {
		t.Errorf("unexpected API base URL %s", cfg.APIBaseURL)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Errorf("expected 45m, got %s", cfg.SessionTTL)
	}
	if cfg.CookieSecure {
		t.Error("expected COOKIE_SECURE=false to be honoured")
	}
	if cfg.TokenMode() != "hmac" {
		t.Errorf("expected hmac token mode, got %s", cfg.TokenMode())
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
	if !c.IsProduction() {
		t.Error("expected IsProduction() to return true for production")
	}
}

func TestConfig_TokenMode(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{}, "unverified"},
		{Config{TokenSigningKey: "k"}, "hmac"},
		{Config{TokenJWKSURL: "https://idp/jwks"}, "jwks"},
	}
	for _, tt := range tests {
		if got := tt.cfg.TokenMode(); got != tt.want {
			t.Errorf("TokenMode() = %q, want %q", got, tt.want)
		}
	}
}

func validConfig() *Config {
	return &Config{
		Env:          "development",
		APIBaseURL:   "https://localhost:7187",
		SessionTTL:   30 * time.Minute,
		CookieSecure: true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid development", func(c *Config) {}, ""},
		{"relative base url", func(c *Config) { c.APIBaseURL = "/api" }, "absolute"},
		{"ftp base url", func(c *Config) { c.APIBaseURL = "ftp://host" }, "absolute"},
		{"both verifiers", func(c *Config) {
			c.TokenSigningKey = "k"
			c.TokenJWKSURL = "https://idp/jwks"
		}, "mutually exclusive"},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"production unverified", func(c *Config) { c.Env = "production" }, "required in production"},
		{"production insecure cookies", func(c *Config) {
			c.Env = "production"
			c.TokenSigningKey = "k"
			c.CookieSecure = false
		}, "COOKIE_SECURE"},
		{"production verified", func(c *Config) {
			c.Env = "production"
			c.TokenJWKSURL = "https://idp/jwks"
		}, ""},
		{"tls without cert", func(c *Config) {
			c.TLSEnabled = true
			c.TLSKeyFile = "key.pem"
		}, "TLS_CERT_FILE"},
		{"tls without key", func(c *Config) {
			c.TLSEnabled = true
			c.TLSCertFile = "cert.pem"
		}, "TLS_KEY_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
