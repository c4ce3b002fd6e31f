package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
rates:
  api_key: "rates-key"
sources:
  - type: product
    name: openfoodfacts
    enabled: true
    priority: 0
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.HTTP.Addr)
	assert.Equal(t, 30, cfg.Server.RateLimit.Requests)
	assert.Equal(t, 60*time.Second, cfg.Server.RateLimit.Window.ToDuration())
	assert.Equal(t, "CAD", cfg.Lookup.TargetCurrency)
	assert.Equal(t, 10*time.Second, cfg.Lookup.Deadline.ToDuration())
	assert.Equal(t, "exchangerate-api", cfg.Rates.Provider)
	assert.Equal(t, 30*time.Minute, cfg.Rates.CacheTTL.ToDuration())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_RATES_KEY", "from-env")

	cfg, err := Load(writeConfig(t, `
rates:
  api_key: "${TEST_RATES_KEY}"
sources:
  - type: product
    name: openfoodfacts
    enabled: true
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Rates.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "rates: [not: valid"))
	assert.Error(t, err)
}

func TestLoadParsesDurations(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
lookup:
  deadline: "2500ms"
rates:
  api_key: "k"
  cache_ttl: "1h"
sources:
  - type: product
    name: openfoodfacts
    enabled: true
`))
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, cfg.Lookup.Deadline.ToDuration())
	assert.Equal(t, time.Hour, cfg.Rates.CacheTTL.ToDuration())
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	return cfg
}

func TestValidateAcceptsMinimalConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig(t)))
}

func TestValidateNoSources(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sources = nil
	assert.ErrorIs(t, Validate(cfg), ErrNoSourcesConfigured)
}

func TestValidateNoEnabledSources(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sources[0].Enabled = false
	assert.ErrorIs(t, Validate(cfg), ErrNoSourcesEnabled)
}

func TestValidateSourceType(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sources[0].Type = "webhook"
	assert.ErrorIs(t, Validate(cfg), ErrInvalidSourceType)
}

func TestValidateSourceName(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sources[0].Name = ""
	assert.ErrorIs(t, Validate(cfg), ErrSourceNameRequired)
}

func TestValidateDuplicatePriority(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sources = append(cfg.Sources, SourceConfig{
		Type:     "retail",
		Name:     "barcodespider",
		Enabled:  true,
		Priority: cfg.Sources[0].Priority,
	})
	assert.ErrorIs(t, Validate(cfg), ErrDuplicateSourcePriority)
}

func TestValidateDuplicatePriorityDisabledIgnored(t *testing.T) {
	cfg := validConfig(t)
	cfg.Sources = append(cfg.Sources, SourceConfig{
		Type:     "retail",
		Name:     "barcodespider",
		Enabled:  false,
		Priority: cfg.Sources[0].Priority,
	})
	assert.NoError(t, Validate(cfg), "disabled sources do not participate in merge order")
}

func TestValidateTargetCurrency(t *testing.T) {
	cfg := validConfig(t)

	cfg.Lookup.TargetCurrency = "CADX"
	assert.ErrorIs(t, Validate(cfg), ErrInvalidTargetCurrency)

	cfg.Lookup.TargetCurrency = "usd"
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "USD", cfg.Lookup.TargetCurrency, "currency is normalized to upper case")
}

func TestValidateRates(t *testing.T) {
	cfg := validConfig(t)

	cfg.Rates.APIKey = ""
	assert.ErrorIs(t, Validate(cfg), ErrRatesAPIKeyRequired)

	cfg.Rates.APIKey = "k"
	cfg.Rates.Provider = "fixer"
	assert.ErrorIs(t, Validate(cfg), ErrUnknownRateProvider)
}

func TestValidateRateLimit(t *testing.T) {
	cfg := validConfig(t)
	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.Requests = 0
	assert.ErrorIs(t, Validate(cfg), ErrInvalidRateLimit)
}

func TestValidateLogging(t *testing.T) {
	cfg := validConfig(t)

	cfg.Logging.Level = "verbose"
	assert.ErrorIs(t, Validate(cfg), ErrInvalidLogLevel)

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "xml"
	assert.ErrorIs(t, Validate(cfg), ErrInvalidLogFormat)
}

func TestSourceConfigGetString(t *testing.T) {
	sc := &SourceConfig{Config: map[string]interface{}{
		"api_key": "abc",
		"number":  7,
	}}

	assert.Equal(t, "abc", sc.GetString("api_key", "default"))
	assert.Equal(t, "default", sc.GetString("missing", "default"))
	assert.Equal(t, "default", sc.GetString("number", "default"))
}
