package config

import "time"

// Config is the root configuration structure
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Lookup  LookupConfig   `yaml:"lookup"`
	Rates   RatesConfig    `yaml:"rates"`
	Sources []SourceConfig `yaml:"sources"`
	Metrics MetricsConfig  `yaml:"metrics"`
	Logging LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	HTTP      HTTPConfig      `yaml:"http"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// HTTPConfig configures the HTTP server
type HTTPConfig struct {
	Addr string    `yaml:"addr"`
	TLS  TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration
type TLSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cert    string `yaml:"cert"`
	Key     string `yaml:"key"`
}

// RateLimitConfig configures client-facing request rate limiting
type RateLimitConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Requests int      `yaml:"requests"` // Allowed requests per window
	Window   Duration `yaml:"window"`   // Window length (e.g. "60s")
}

// LookupConfig configures the lookup engine
type LookupConfig struct {
	TargetCurrency string   `yaml:"target_currency"` // ISO code prices are converted to (default "CAD")
	Deadline       Duration `yaml:"deadline"`        // Overall per-lookup deadline shared by all sources
}

// RatesConfig configures the exchange rate provider
type RatesConfig struct {
	Provider string   `yaml:"provider"` // Rate provider name (currently "exchangerate-api")
	APIKey   string   `yaml:"api_key"`
	BaseURL  string   `yaml:"base_url"` // Override for tests; empty uses the provider default
	CacheTTL Duration `yaml:"cache_ttl"`
	Timeout  Duration `yaml:"timeout"`
}

// SourceConfig configures a product data source
type SourceConfig struct {
	Type     string                 `yaml:"type"`
	Name     string                 `yaml:"name"`
	Enabled  bool                   `yaml:"enabled"`
	Priority int                    `yaml:"priority"` // Lower value wins field precedence in the merge
	Config   map[string]interface{} `yaml:"config"`
}

// MetricsConfig configures Prometheus metrics
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Duration is a wrapper around time.Duration for YAML parsing
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	td, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(td)
	return nil
}

// ToDuration converts Duration to time.Duration
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}
