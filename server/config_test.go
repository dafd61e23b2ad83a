package server

import (
	"testing"
	"time"

	"github.com/nczempin/httpd-go-uring/errors"
	"github.com/nczempin/httpd-go-uring/resource"
)

func TestConfig_DefaultIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad network", func(c *Config) { c.Network = "udp" }},
		{"no addr", func(c *Config) { c.Addr = "" }},
		{"no root", func(c *Config) { c.Root = "" }},
		{"no index", func(c *Config) { c.IndexFile = "" }},
		{"index escapes root", func(c *Config) { c.IndexFile = "../index.html" }},
		{"absolute fallback", func(c *Config) { c.NotFoundFile = "/etc/404.html" }},
		{"dot fallback", func(c *Config) { c.MethodNotAllowedFile = "." }},
		{"zero path length", func(c *Config) { c.MaxPathLength = 0 }},
		{"zero request size", func(c *Config) { c.MaxRequestSize = 0 }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }},
		{"bad loader", func(c *Config) { c.Loader = "mmap" }},
		{"bad transport", func(c *Config) { c.Transport = "epoll" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}

			httpErr, ok := err.(*errors.HttpError)
			if !ok {
				t.Fatalf("Expected *errors.HttpError, got %T", err)
			}
			if httpErr.Type != errors.ErrorInvalidArgument {
				t.Errorf("Expected ErrorInvalidArgument, got %v", httpErr.Type)
			}
		})
	}
}

func TestNew_RejectsMissingRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = t.TempDir() + "/missing"
	cfg.Loader = "unix"

	if _, err := New(cfg, discardLogger()); err == nil {
		t.Error("Expected error for missing resource root")
	}
}

func TestParseTransportKind(t *testing.T) {
	if kind, err := ParseTransportKind("uring"); err != nil || kind != TransportUring {
		t.Errorf("Unexpected result %q, %v", kind, err)
	}
	if _, err := ParseTransportKind("tls"); err == nil {
		t.Error("Expected error for unknown transport")
	}
}

func TestNextBackoff(t *testing.T) {
	d := nextBackoff(0)
	if d != 5*time.Millisecond {
		t.Errorf("Expected 5ms, got %v", d)
	}
	for i := 0; i < 20; i++ {
		d = nextBackoff(d)
	}
	if d != time.Second {
		t.Errorf("Expected backoff capped at 1s, got %v", d)
	}
}

func TestConfig_ValidateNormalizesLoader(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Loader = "FS"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Loader != resource.LoaderFS {
		t.Errorf("Expected loader %q, got %q", resource.LoaderFS, cfg.Loader)
	}

	srv, err := New(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New failed for validated config: %v", err)
	}
	srv.Close()
}
