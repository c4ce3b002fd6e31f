package lookup

import (
	"context"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup/rates"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
	"github.com/ksaccary/barcode-app/pkg/metrics"
)

// Merge folds source records into one Product. Records must arrive in
// source-priority order: scalar fields and identifiers are
// first-present-wins, so the order fully determines precedence. Store
// offers are a union across all records, each converted to targetCurrency;
// an offer whose price cannot be converted is dropped rather than shown
// with a wrong or unlabeled currency.
//
// Aside from the converter calls per offer, the fold is pure: output
// depends only on the record sequence and the rate table.
func Merge(ctx context.Context, records []sources.Record, targetCurrency string, converter *rates.Converter, logger *logging.Logger) *Product {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	product := &Product{
		Currency:    targetCurrency,
		AllStores:   []ConvertedOffer{},
		DataSources: []string{},
	}

	for _, record := range records {
		contributed := false

		// First-present-wins. Only true absence counts as unset: an empty
		// string from a higher-priority record never blocks a later value,
		// because setScalar refuses empty sources outright.
		contributed = setScalar(&product.Name, record.Name) || contributed
		contributed = setScalar(&product.Brand, record.Brand) || contributed
		contributed = setScalar(&product.Manufacturer, record.Manufacturer) || contributed
		contributed = setScalar(&product.Description, record.Description) || contributed
		contributed = setScalar(&product.ImageURL, record.ImageURL) || contributed
		contributed = setScalar(&product.Category, record.Category) || contributed
		contributed = setScalar(&product.Quantity, record.Quantity) || contributed
		contributed = setScalar(&product.Specifications, record.Specifications) || contributed

		contributed = setScalar(&product.Barcode, record.Identifiers[sources.IdentifierBarcode]) || contributed
		contributed = setScalar(&product.EAN, record.Identifiers[sources.IdentifierEAN]) || contributed
		contributed = setScalar(&product.UPC, record.Identifiers[sources.IdentifierUPC]) || contributed
		contributed = setScalar(&product.MPN, record.Identifiers[sources.IdentifierMPN]) || contributed

		for _, offer := range record.Offers {
			converted, err := converter.Convert(ctx, offer.Price, offer.Currency, targetCurrency)
			if err != nil {
				metrics.RecordOfferDropped(offer.Currency)
				logger.Warn("Dropping store offer, conversion failed",
					"source", record.SourceName,
					"store", offer.StoreName,
					"currency", offer.Currency,
					"error", err.Error(),
				)
				continue
			}
			product.AllStores = append(product.AllStores, ConvertedOffer{
				StoreName:    offer.StoreName,
				Price:        converted,
				Currency:     targetCurrency,
				Availability: offer.Availability,
				Shipping:     offer.Shipping,
				Link:         offer.Link,
				LastUpdate:   offer.LastUpdate,
				Original: OriginalPrice{
					Amount:   offer.Price,
					Currency: offer.Currency,
				},
			})
			contributed = true
		}

		if contributed {
			product.DataSources = appendSource(product.DataSources, record.SourceName)
		}
	}

	// Summary price is the cheapest surviving offer.
	for i := range product.AllStores {
		if product.Price == nil || product.AllStores[i].Price.LessThan(*product.Price) {
			price := product.AllStores[i].Price
			product.Price = &price
		}
	}

	return product
}

// setScalar copies src into dst when dst is unset and src is non-empty.
// Reports whether it copied.
func setScalar(dst *string, src string) bool {
	if *dst != "" || src == "" {
		return false
	}
	*dst = src
	return true
}

// appendSource appends name unless already present, preserving order.
func appendSource(list []string, name string) []string {
	for _, existing := range list {
		if existing == name {
			return list
		}
	}
	return append(list, name)
}
