package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks configuration for errors
func Validate(cfg *Config) error {
	if err := validateServerConfig(&cfg.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateLookupConfig(&cfg.Lookup); err != nil {
		return fmt.Errorf("lookup config: %w", err)
	}

	if err := validateRatesConfig(&cfg.Rates); err != nil {
		return fmt.Errorf("rates config: %w", err)
	}

	// Validate sources
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("%w", ErrNoSourcesConfigured)
	}
	enabled := 0
	seenPriority := make(map[int]string)
	for i, source := range cfg.Sources {
		if err := validateSourceConfig(&source); err != nil {
			return fmt.Errorf("source %d (%s.%s): %w", i, source.Type, source.Name, err)
		}
		if !source.Enabled {
			continue
		}
		enabled++
		// Priority decides merge precedence; two enabled sources with the
		// same value would make the merge order ambiguous.
		if prev, ok := seenPriority[source.Priority]; ok {
			return fmt.Errorf("%w: %d used by %s and %s", ErrDuplicateSourcePriority, source.Priority, prev, source.Name)
		}
		seenPriority[source.Priority] = source.Name
	}
	if enabled == 0 {
		return fmt.Errorf("%w", ErrNoSourcesEnabled)
	}

	// Validate logging config
	if err := validateLoggingConfig(&cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

func validateServerConfig(cfg *ServerConfig) error {
	// Validate TLS config
	if cfg.HTTP.TLS.Enabled {
		if cfg.HTTP.TLS.Cert == "" || cfg.HTTP.TLS.Key == "" {
			return fmt.Errorf("%w", ErrTLSConfigIncomplete)
		}
		if _, err := os.Stat(cfg.HTTP.TLS.Cert); err != nil {
			return fmt.Errorf("%w: %s", ErrTLSCertNotFound, cfg.HTTP.TLS.Cert)
		}
		if _, err := os.Stat(cfg.HTTP.TLS.Key); err != nil {
			return fmt.Errorf("%w: %s", ErrTLSKeyNotFound, cfg.HTTP.TLS.Key)
		}
	}

	if cfg.RateLimit.Enabled && cfg.RateLimit.Requests <= 0 {
		return fmt.Errorf("%w", ErrInvalidRateLimit)
	}

	return nil
}

func validateLookupConfig(cfg *LookupConfig) error {
	currency := strings.ToUpper(cfg.TargetCurrency)
	if len(currency) != 3 {
		return fmt.Errorf("%w: %q", ErrInvalidTargetCurrency, cfg.TargetCurrency)
	}
	cfg.TargetCurrency = currency
	return nil
}

func validateRatesConfig(cfg *RatesConfig) error {
	switch strings.ToLower(cfg.Provider) {
	case "exchangerate-api":
		if cfg.APIKey == "" {
			return fmt.Errorf("%w for provider %s", ErrRatesAPIKeyRequired, cfg.Provider)
		}
	default:
		return fmt.Errorf("%w: %s (supported: exchangerate-api)", ErrUnknownRateProvider, cfg.Provider)
	}
	return nil
}

func validateSourceConfig(cfg *SourceConfig) error {
	// Validate type
	validTypes := []string{"product", "retail"}
	typeValid := false
	for _, t := range validTypes {
		if strings.ToLower(cfg.Type) == t {
			typeValid = true
			break
		}
	}
	if !typeValid {
		return fmt.Errorf("%w: %s (must be one of: %s)", ErrInvalidSourceType, cfg.Type, strings.Join(validTypes, ", "))
	}

	// Validate name
	if cfg.Name == "" {
		return fmt.Errorf("%w", ErrSourceNameRequired)
	}

	// Priority should be positive
	if cfg.Priority < 0 {
		return fmt.Errorf("%w", ErrNegativeSourcePriority)
	}

	return nil
}

func validateLoggingConfig(cfg *LoggingConfig) error {
	// Validate level
	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, l := range validLevels {
		if strings.ToLower(cfg.Level) == l {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("%w: %s (must be one of: %s)", ErrInvalidLogLevel, cfg.Level, strings.Join(validLevels, ", "))
	}

	// Validate format
	formatValid := strings.ToLower(cfg.Format) == "json" || strings.ToLower(cfg.Format) == "text"
	if !formatValid {
		return fmt.Errorf("%w: %s (must be 'json' or 'text')", ErrInvalidLogFormat, cfg.Format)
	}

	return nil
}
