package sources

import (
	"context"

	"github.com/shopspring/decimal"
)

// SourceType represents the type of product data source
type SourceType string

const (
	// SourceTypeProduct is a catalog-style provider (product attributes only).
	SourceTypeProduct SourceType = "product"
	// SourceTypeRetail is a provider that also carries retailer offers.
	SourceTypeRetail SourceType = "retail"
)

// Identifier kinds used in Record.Identifiers.
const (
	IdentifierBarcode = "barcode"
	IdentifierEAN     = "ean"
	IdentifierUPC     = "upc"
	IdentifierMPN     = "mpn"
)

// StoreOffer is one retailer's offer for a product.
// Price and Currency travel together: a price without a currency is useless
// to the merge and is never produced by an adapter.
type StoreOffer struct {
	StoreName    string          `json:"store_name"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Availability string          `json:"availability,omitempty"`
	Shipping     string          `json:"shipping,omitempty"`
	Link         string          `json:"link,omitempty"`
	LastUpdate   string          `json:"last_update,omitempty"`
}

// Record is the normalized output of one source for one barcode.
// Every field except SourceName is optional; adapters leave fields unset
// when the provider did not return them, so the merge can distinguish
// "missing" from "present". Records are immutable once returned by Fetch.
type Record struct {
	SourceName     string
	Name           string
	Brand          string
	Manufacturer   string
	Description    string
	ImageURL       string
	Category       string
	Quantity       string
	Specifications string
	Identifiers    map[string]string
	Offers         []StoreOffer
}

// Empty reports whether the record carries no usable data at all.
func (r Record) Empty() bool {
	return r.Name == "" && r.Brand == "" && r.Manufacturer == "" &&
		r.Description == "" && r.ImageURL == "" && r.Category == "" &&
		r.Quantity == "" && r.Specifications == "" &&
		len(r.Identifiers) == 0 && len(r.Offers) == 0
}

// Source defines the interface that all product data sources must implement
type Source interface {
	// Fetch looks up a barcode and returns the provider's data normalized
	// into a Record. Failures are returned as *FetchError so the caller
	// can classify them; a failed fetch simply contributes nothing.
	Fetch(ctx context.Context, barcode string) (Record, error)

	// Name returns the unique name of this source
	Name() string

	// Type returns the type of this source
	Type() SourceType
}

// SourceFactory is a function that creates a new Source instance
type SourceFactory func(config map[string]interface{}) (Source, error)
