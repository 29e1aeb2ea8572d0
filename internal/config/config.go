// Package config loads the showcase server configuration.
package config

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const (
	defaultAddr   = ":8082"
	minSecretSize = 32
)

// Config is loadable from SHOWCASE_-prefixed environment variables, flags,
// or YAML config files.
type Config struct {
	Addr         string `default:":8082" usage:"HTTP listen address"`
	LogLevel     string `default:"info" usage:"Log level (debug, info, warn, error)" flag:"log-level"`
	DatabaseURL  string `usage:"PostgreSQL URL of the products table; empty uses JSON data" flag:"database-url"`
	ProductsFile string `usage:"Path to a products JSON file; empty uses the embedded data" flag:"products-file"`
	Catalog      CatalogConfig
	Session      SessionConfig
	Metrics      MetricsConfig
	RateLimit    RateLimitConfig
	Graceful     GracefulConfig
}

// CatalogConfig controls view-time loading and image fallbacks.
type CatalogConfig struct {
	LoadDelay     time.Duration `default:"1800ms" usage:"Simulated fetch latency before a view resolves" flag:"load-delay"`
	ListingImage  string        `default:"./src/Page/Assemby_Service.jpeg" usage:"Default image for listing cards" flag:"listing-image"`
	DetailImage   string        `default:"/assets/Product_Page/default.jpg" usage:"Default image for the detail gallery" flag:"detail-image"`
	GalleryImages []string      `default:"/assets/Product_Page/gallery1.jpg,/assets/Product_Page/gallery2.jpg,/assets/Product_Page/gallery3.jpg,/assets/Product_Page/gallery4.jpg" usage:"Supplementary gallery images" flag:"gallery-images"`
	MaxWait       time.Duration `default:"5s" usage:"Upper bound for ?wait=true requests" flag:"max-wait"`
}

// SessionConfig controls mounted view sessions.
type SessionConfig struct {
	Secret        string        `usage:"HMAC secret for view tokens, at least 32 bytes (SHOWCASE_SESSION_SECRET)" flag:"session-secret"`
	TTL           time.Duration `default:"30m" usage:"Idle time after which a view is unmounted" flag:"session-ttl"`
	SweepInterval time.Duration `default:"1m" usage:"How often idle views are swept" flag:"session-sweep"`
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `default:"true" usage:"Expose /metrics" flag:"metrics-enabled"`
	Token   string `usage:"Bearer token required by /metrics" flag:"metrics-token"`
}

// RateLimitConfig controls the per-client limiter on view mounts.
type RateLimitConfig struct {
	Max    int           `default:"60" usage:"Max view mounts per window"`
	Window time.Duration `default:"1m" usage:"Rate limit window duration"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ShutdownTimeout time.Duration `default:"10s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

var (
	ErrWeakSecret   = errors.New("session secret must be at least 32 bytes")
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Load reads configuration from environment, flags and config files, then
// applies platform defaults and validates the result.
func Load() (*Config, error) {
	return load(aconfig.Config{
		EnvPrefix:  "SHOWCASE",
		Files:      []string{"config.yaml", "/etc/minishowcase/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func load(ac aconfig.Config) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, ac)
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults maps the conventional PORT and DATABASE_URL
// variables onto the prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = ":" + port
	}
}

func (c *Config) Validate() error {
	if len(c.Session.Secret) < minSecretSize {
		return ErrWeakSecret
	}
	if c.Catalog.LoadDelay < 0 {
		return errors.Wrap(ErrInvalidValue, "catalog load delay is negative")
	}
	if c.Session.TTL <= 0 || c.Session.SweepInterval <= 0 {
		return errors.Wrap(ErrInvalidValue, "session ttl and sweep interval must be positive")
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return errors.Wrap(ErrInvalidValue, "rate limit max and window must be positive")
	}
	return nil
}
