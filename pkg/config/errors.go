// Package config provides configuration loading and validation for barcode-app.
package config

import "errors"

var (
	// ErrNoSourcesConfigured indicates that no product data sources are configured.
	ErrNoSourcesConfigured = errors.New("at least one product data source must be configured")
	// ErrNoSourcesEnabled indicates that no sources are enabled.
	ErrNoSourcesEnabled = errors.New("no sources enabled")
	// ErrSourceTypeRequired indicates that source type is required.
	ErrSourceTypeRequired = errors.New("source type is required")
	// ErrSourceNameRequired indicates that source name is required.
	ErrSourceNameRequired = errors.New("source name is required")
	// ErrInvalidSourceType indicates that the source type is invalid.
	ErrInvalidSourceType = errors.New("invalid source type")
	// ErrNegativeSourcePriority indicates that source priority must be >= 0.
	ErrNegativeSourcePriority = errors.New("priority must be >= 0")
	// ErrDuplicateSourcePriority indicates that two sources share a priority value.
	ErrDuplicateSourcePriority = errors.New("duplicate source priority")
	// ErrTLSConfigIncomplete indicates that TLS config is incomplete.
	ErrTLSConfigIncomplete = errors.New("TLS cert and key must be specified when TLS is enabled")
	// ErrTLSCertNotFound indicates that the TLS cert file was not found.
	ErrTLSCertNotFound = errors.New("TLS cert file not found")
	// ErrTLSKeyNotFound indicates that the TLS key file was not found.
	ErrTLSKeyNotFound = errors.New("TLS key file not found")
	// ErrInvalidTargetCurrency indicates that the target currency is not a 3-letter ISO code.
	ErrInvalidTargetCurrency = errors.New("target_currency must be a 3-letter ISO code")
	// ErrRatesAPIKeyRequired indicates that the rate provider requires an API key.
	ErrRatesAPIKeyRequired = errors.New("rates api_key is required")
	// ErrUnknownRateProvider indicates that the rate provider is unknown.
	ErrUnknownRateProvider = errors.New("unknown rate provider")
	// ErrInvalidRateLimit indicates that the rate limit configuration is invalid.
	ErrInvalidRateLimit = errors.New("rate_limit requests must be > 0")
	// ErrInvalidLogLevel indicates that the log level is invalid.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat indicates that the log format is invalid.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
