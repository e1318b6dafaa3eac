// Package scraper acquires mandi price rows from the Agmarknet portal with a
// real browser. The portal is an ASP.NET WebForms application: every dropdown
// change triggers a postback that replaces the DOM, so element handles go
// stale constantly and each interaction is re-acquired and retried. When the
// portal cannot be scraped at all, a deterministic synthetic dataset stands
// in so the chat pipeline still answers.
package scraper

import "time"

// DefaultEndpoint is the portal's commodity-wise market search page.
const DefaultEndpoint = "https://agmarknet.gov.in/SearchCmmMkt.aspx"

// userAgent is pinned so the portal serves the same markup every run.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// stateName is the only state this deployment serves.
const stateName = "Uttar Pradesh"

// Config holds browser and portal settings. Timeouts and backoffs are
// duration strings ("30s", "500ms") so they round-trip through YAML.
type Config struct {
	Endpoint        string `yaml:"endpoint"`
	Headless        bool   `yaml:"headless"`
	ViewportWidth   int    `yaml:"viewport_width"`
	ViewportHeight  int    `yaml:"viewport_height"`
	NavTimeout      string `yaml:"nav_timeout"`
	ElementTimeout  string `yaml:"element_timeout"`
	SettleDelay     string `yaml:"settle_delay"`
	RetryAttempts   int    `yaml:"retry_attempts"`
	RetryBackoff    string `yaml:"retry_backoff"`
	RetryMaxBackoff string `yaml:"retry_max_backoff"`
	MaxMarkets      int    `yaml:"max_markets"`
}

// DefaultConfig returns portal-tuned defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:        DefaultEndpoint,
		Headless:        true,
		ViewportWidth:   1920,
		ViewportHeight:  1080,
		NavTimeout:      "30s",
		ElementTimeout:  "30s",
		SettleDelay:     "2s",
		RetryAttempts:   3,
		RetryBackoff:    "1s",
		RetryMaxBackoff: "8s",
		MaxMarkets:      3,
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func (c Config) endpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

func (c Config) viewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

func (c Config) viewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

func (c Config) navTimeout() time.Duration {
	return parseDuration(c.NavTimeout, 30*time.Second)
}

func (c Config) elementTimeout() time.Duration {
	return parseDuration(c.ElementTimeout, 30*time.Second)
}

func (c Config) settleDelay() time.Duration {
	return parseDuration(c.SettleDelay, 2*time.Second)
}

func (c Config) maxMarkets() int {
	if c.MaxMarkets == 0 {
		return 3
	}
	return c.MaxMarkets
}

// retry builds the effective retry caps from the configured values.
func (c Config) retry() RetryConfig {
	cfg := DefaultRetryConfig()
	if c.RetryAttempts > 0 {
		cfg.MaxAttempts = c.RetryAttempts
	}
	cfg.InitialBackoff = parseDuration(c.RetryBackoff, cfg.InitialBackoff)
	cfg.MaxBackoff = parseDuration(c.RetryMaxBackoff, cfg.MaxBackoff)
	return cfg
}
