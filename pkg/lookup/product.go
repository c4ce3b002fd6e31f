package lookup

import (
	"github.com/shopspring/decimal"
)

// OriginalPrice preserves an offer's pre-conversion amount and currency.
type OriginalPrice struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ConvertedOffer is a retailer offer with its price expressed in the
// lookup's target currency. Original always carries what the provider
// actually quoted.
type ConvertedOffer struct {
	StoreName    string          `json:"store_name"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	Availability string          `json:"availability,omitempty"`
	Shipping     string          `json:"shipping,omitempty"`
	Link         string          `json:"link,omitempty"`
	LastUpdate   string          `json:"last_update,omitempty"`
	Original     OriginalPrice   `json:"original"`
}

// Product is the unified result of one lookup. It is built once by Merge
// and never mutated afterwards; unset scalar fields are omitted from the
// JSON encoding rather than emitted as empty strings.
type Product struct {
	Barcode        string `json:"barcode,omitempty"`
	Name           string `json:"name,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Manufacturer   string `json:"manufacturer,omitempty"`
	Description    string `json:"description,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Category       string `json:"category,omitempty"`
	Quantity       string `json:"quantity,omitempty"`
	Specifications string `json:"specifications,omitempty"`
	EAN            string `json:"ean,omitempty"`
	UPC            string `json:"upc,omitempty"`
	MPN            string `json:"mpn,omitempty"`

	// Price is the lowest converted offer, when any offer survived.
	Price    *decimal.Decimal `json:"price,omitempty"`
	Currency string           `json:"currency"`

	AllStores   []ConvertedOffer `json:"all_stores"`
	DataSources []string         `json:"data_sources"`
}

// Empty reports whether the product carries no fields and no offers.
// Merge never returns such a product to a caller.
func (p *Product) Empty() bool {
	return p.Name == "" && p.Brand == "" && p.Manufacturer == "" &&
		p.Description == "" && p.ImageURL == "" && p.Category == "" &&
		p.Quantity == "" && p.Specifications == "" &&
		p.Barcode == "" && p.EAN == "" && p.UPC == "" && p.MPN == "" &&
		len(p.AllStores) == 0
}
