package providers

import (
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
)

func init() {
	// Register all product data sources
	sources.Register("product.openfoodfacts", NewOpenFoodFactsSource)
	sources.Register("product.upcdatabase", NewUPCDatabaseSource)
	sources.Register("retail.barcodespider", NewBarcodeSpiderSource)
	sources.Register("retail.priceapi", NewPriceAPISource)
	sources.Register("retail.googleshopping", NewGoogleShoppingSource)
	sources.Register("retail.barcodelookup", NewBarcodeLookupSource)
}
