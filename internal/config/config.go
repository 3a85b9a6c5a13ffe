// Package config defines the service configuration and loads it from a YAML
// file, the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/calk-kg/calk/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for calk.
type Configuration struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Site      SiteConfig      `mapstructure:"site" yaml:"site"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging,omitempty"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit" yaml:"rateLimit"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Offers    OffersConfig    `mapstructure:"offers" yaml:"offers,omitempty"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout" yaml:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout" yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout"`
	MaxBodySize     string        `mapstructure:"maxBodySize" yaml:"maxBodySize"` // e.g. 64K
	TrustProxy      bool          `mapstructure:"trustProxy" yaml:"trustProxy"`   // take client IPs from X-Forwarded-For
	maxBodyBytes    int64
}

// SiteConfig describes the public site.
type SiteConfig struct {
	BaseURL      string `mapstructure:"baseURL" yaml:"baseURL"`
	Name         string `mapstructure:"name" yaml:"name"`
	ContactEmail string `mapstructure:"contactEmail" yaml:"contactEmail"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// RateLimitConfig holds the per-client request limits. A non-positive rate
// disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond" yaml:"requestsPerSecond"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
}

// CacheConfig controls how long rendered pages and documents are reused.
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl" yaml:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanupInterval" yaml:"cleanupInterval"`
}

// OffersConfig points at a bank offer file that replaces the built-in data.
type OffersConfig struct {
	File string `mapstructure:"file" yaml:"file,omitempty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.maxBodySize", "64K")
	v.SetDefault("server.trustProxy", false)

	v.SetDefault("site.baseURL", constants.DefaultBaseURL)
	v.SetDefault("site.name", constants.DefaultSiteName)
	v.SetDefault("site.contactEmail", constants.DefaultContactEmail)

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("rateLimit.requestsPerSecond", constants.DefaultRequestsPerSecond)
	v.SetDefault("rateLimit.burst", constants.DefaultBurst)

	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.cleanupInterval", 30*time.Minute)

	v.SetDefault("offers.file", "")
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with CALK_ override file
// values (e.g. CALK_SERVER_ADDRESS). A missing file yields the defaults.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file, %w", err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.normalize(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// LoadEnvFile loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func (c *Configuration) normalize() error {
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = constants.DefaultBaseURL
	}
	if c.Site.Name == "" {
		c.Site.Name = constants.DefaultSiteName
	}

	size, err := ParseSize(c.Server.MaxBodySize)
	if err != nil {
		return fmt.Errorf("server.maxBodySize: %w", err)
	}
	if size <= 0 {
		size = constants.DefaultMaxBodySizeBytes
	}
	c.Server.maxBodyBytes = size
	return nil
}

// MaxBodyBytes returns the configured request body limit in bytes.
func (s ServerConfig) MaxBodyBytes() int64 {
	if s.maxBodyBytes <= 0 {
		return constants.DefaultMaxBodySizeBytes
	}
	return s.maxBodyBytes
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if u, err := url.Parse(c.Site.BaseURL); err != nil || u.Host == "" {
		warnings = append(warnings, fmt.Sprintf("site.baseURL %q is not an absolute URL; canonical links will be broken", c.Site.BaseURL))
	} else if u.Scheme != "https" {
		warnings = append(warnings, fmt.Sprintf("site.baseURL %q does not use https", c.Site.BaseURL))
	}

	if c.Site.ContactEmail == "" {
		warnings = append(warnings, "site.contactEmail is empty; structured data will have no contact point")
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		warnings = append(warnings, "rateLimit.requestsPerSecond is not positive; rate limiting is disabled")
	} else if c.RateLimit.Burst < 1 {
		warnings = append(warnings, fmt.Sprintf("rateLimit.burst %d is below 1; every request will be rejected", c.RateLimit.Burst))
	}

	if c.Cache.TTL <= 0 {
		warnings = append(warnings, "cache.ttl is not positive; rendered pages are not cached")
	}

	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < time.Second {
		warnings = append(warnings, fmt.Sprintf("server.writeTimeout %s is very short", c.Server.WriteTimeout))
	}

	if c.Offers.File != "" {
		if _, err := os.Stat(c.Offers.File); err != nil {
			warnings = append(warnings, fmt.Sprintf("offers.file %s is not readable: %v", c.Offers.File, err))
		}
	}

	return warnings
}
