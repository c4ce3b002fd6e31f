// Package rates provides currency conversion backed by an exchange rate provider.
package rates

import "errors"

var (
	// ErrRateUnavailable indicates that no usable rate exists for a currency pair.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrUnknownCurrency indicates that the provider's table has no entry for a currency.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrInvalidResponse indicates an invalid response from the rate provider.
	ErrInvalidResponse = errors.New("invalid rate provider response")
	// ErrUnexpectedStatus indicates an unexpected HTTP status code from the rate provider.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	// ErrAPIKeyRequired indicates that an API key is required.
	ErrAPIKeyRequired = errors.New("api_key is required")
)
