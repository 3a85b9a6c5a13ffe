package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfiguration() Configuration {
	return Configuration{
		Server: ServerConfig{Address: ":8080", WriteTimeout: 15 * time.Second},
		Site:   SiteConfig{BaseURL: "https://calk.kg", Name: "Calk.KG", ContactEmail: "info@calk.kg"},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             30,
		},
		Cache: CacheConfig{TTL: time.Minute, CleanupInterval: time.Minute},
	}
}

func TestValidateConfigurationValid(t *testing.T) {
	conf := validConfiguration()
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no warnings for valid config, got %d: %v", len(warnings), warnings)
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Configuration)
		want   string
	}{
		{"Plain http", func(c *Configuration) { c.Site.BaseURL = "http://calk.kg" }, "https"},
		{"Relative base URL", func(c *Configuration) { c.Site.BaseURL = "calk.kg" }, "absolute"},
		{"No contact email", func(c *Configuration) { c.Site.ContactEmail = "" }, "contactEmail"},
		{"Rate limit disabled", func(c *Configuration) { c.RateLimit.RequestsPerSecond = 0 }, "disabled"},
		{"Zero burst", func(c *Configuration) { c.RateLimit.Burst = 0 }, "burst"},
		{"No cache", func(c *Configuration) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"Short write timeout", func(c *Configuration) { c.Server.WriteTimeout = 100 * time.Millisecond }, "writeTimeout"},
		{"Missing offers file", func(c *Configuration) { c.Offers.File = filepath.Join(t.TempDir(), "none.yaml") }, "offers.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := validConfiguration()
			tt.modify(&conf)

			warnings := conf.ValidateConfiguration()
			if len(warnings) != 1 {
				t.Fatalf("Expected one warning, got %d: %v", len(warnings), warnings)
			}
			if !strings.Contains(warnings[0], tt.want) {
				t.Errorf("Expected warning mentioning %q, got %q", tt.want, warnings[0])
			}
		})
	}
}
