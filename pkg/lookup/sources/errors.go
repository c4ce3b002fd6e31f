// Package sources provides product data source interfaces and implementations.
package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailKind classifies why a source fetch failed.
type FailKind string

const (
	// FailTimeout indicates the fetch was cut off by a deadline.
	FailTimeout FailKind = "timeout"
	// FailAuth indicates the provider rejected our credentials.
	FailAuth FailKind = "auth"
	// FailNotFound indicates the provider explicitly has no record for the barcode.
	FailNotFound FailKind = "not_found"
	// FailMalformed indicates the provider response could not be parsed.
	FailMalformed FailKind = "malformed"
	// FailTransport indicates a network, DNS or connection error.
	FailTransport FailKind = "transport"
)

// FetchError wraps a source fetch failure with its classification.
// None of these kinds is fatal to a lookup; FailAuth and FailTransport are
// logged for observability, the rest mean "this source contributed nothing".
type FetchError struct {
	Source string
	Kind   FailKind
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fail builds a FetchError for the given source and kind.
func Fail(source string, kind FailKind, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: err}
}

// ClassifyTransport wraps an error from http.Client.Do into a FetchError,
// distinguishing deadline expiry from network failures.
func ClassifyTransport(source string, err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return Fail(source, FailTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Fail(source, FailTimeout, err)
	}
	return Fail(source, FailTransport, err)
}

var (
	// ErrUnexpectedStatus indicates an unexpected HTTP status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	// ErrRateLimitExceeded indicates that a provider rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidResponse indicates an invalid response from the source.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrProductNotFound indicates the provider has no record for the barcode.
	ErrProductNotFound = errors.New("product not found")
	// ErrAuthFailed indicates the provider rejected the configured credential.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrInvalidConfig indicates that the source configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrAPIKeyRequired indicates that an API key is required.
	ErrAPIKeyRequired = errors.New("API key is required")
	// ErrEmptyBarcode indicates that the barcode is empty after normalization.
	ErrEmptyBarcode = errors.New("barcode is empty")
)
