// Package providers implements the product data source adapters.
package providers

import "errors"

var (
	// ErrAPIKeyRequired indicates that the provider requires an API key.
	ErrAPIKeyRequired = errors.New("api_key is required")
	// ErrSearchEngineIDRequired indicates that Google Shopping requires a search engine id.
	ErrSearchEngineIDRequired = errors.New("search_engine_id is required")
	// ErrNoProductInResponse indicates a well-formed response with no product payload.
	ErrNoProductInResponse = errors.New("no product in response")
	// ErrNoItemsInResponse indicates a search response with no result items.
	ErrNoItemsInResponse = errors.New("no items in response")
	// ErrNoCanadianRetailers indicates that no Canadian retailer results were found.
	ErrNoCanadianRetailers = errors.New("no Canadian retailer results")
	// ErrMarkupChanged indicates the scraped page no longer matches the expected markup.
	ErrMarkupChanged = errors.New("page markup did not match expected structure")
)
