// Package crawler implements the crawl engine: URL normalization and
// filtering, polite fetching with failure classification, the frontier, and
// the orchestrating loop that turns a seed URL into a document collection.
package crawler

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// DefaultMinContentLength is the thin-content floor: pages whose cleaned
// body text is shorter never become documents. Heuristic, tunable.
const DefaultMinContentLength = 100

// Config captures every knob that influences a crawl run. All values
// originate from Viper so the engine can be configured via files, env vars,
// or CLI flags.
type Config struct {
	StartURL         string
	MaxPages         int
	MaxDepth         int
	Delay            time.Duration
	RequestTimeout   time.Duration
	UserAgent        string
	MinContentLength int
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		StartURL:         v.GetString("crawler.start_url"),
		MaxPages:         v.GetInt("crawler.max_pages"),
		MaxDepth:         v.GetInt("crawler.max_depth"),
		Delay:            time.Duration(v.GetFloat64("crawler.delay_seconds") * float64(time.Second)),
		RequestTimeout:   time.Duration(v.GetInt("crawler.timeout_seconds")) * time.Second,
		UserAgent:        v.GetString("crawler.user_agent"),
		MinContentLength: v.GetInt("crawler.min_content_length"),
	}
	return cfg, cfg.Validate()
}

// SetDefaults registers the default value for every crawler key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("crawler.max_pages", 100)
	v.SetDefault("crawler.max_depth", 3)
	v.SetDefault("crawler.delay_seconds", 1.0)
	v.SetDefault("crawler.timeout_seconds", 10)
	v.SetDefault("crawler.user_agent", "harvester/1.0")
	v.SetDefault("crawler.min_content_length", DefaultMinContentLength)
}

// Validate enforces required values and reasonable limits. A violation here
// is fatal: no crawl begins on bad configuration.
func (c Config) Validate() error {
	u, err := url.Parse(c.StartURL)
	if err != nil {
		return fmt.Errorf("crawler.start_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("crawler.start_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("crawler.start_url must include a host")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("crawler.max_pages must be > 0")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("crawler.max_depth must be >= 0")
	}
	if c.Delay < 0 {
		return fmt.Errorf("crawler.delay_seconds must be >= 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.timeout_seconds must be > 0")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.MinContentLength < 0 {
		return fmt.Errorf("crawler.min_content_length must be >= 0")
	}
	return nil
}

// AllowedDomain returns the host the crawl is scoped to.
func (c Config) AllowedDomain() string {
	u, err := url.Parse(c.StartURL)
	if err != nil {
		return ""
	}
	return u.Host
}
