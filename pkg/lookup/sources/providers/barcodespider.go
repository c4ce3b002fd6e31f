package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
	"github.com/ksaccary/barcode-app/pkg/version"
)

const (
	barcodeSpiderBaseURL = "https://api.barcodespider.com/v1/lookup"

	// Barcode Spider throttles aggressively; stay under one request per
	// this interval regardless of incoming lookup volume.
	barcodeSpiderMinInterval = 5 * time.Second
)

// BarcodeSpiderSource looks up barcodes in Barcode Spider
// https://www.barcodespider.com/api-documentation (token header).
// Carries retailer offers alongside product attributes.
type BarcodeSpiderSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *logging.Logger
}

type barcodeSpiderResponse struct {
	ItemResponse struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"item_response"`
	ItemAttributes struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Brand        string `json:"brand"`
		Manufacturer string `json:"manufacturer"`
		Image        string `json:"image"`
		Category     string `json:"category"`
		MPN          string `json:"mpn"`
		EAN          string `json:"ean"`
		UPC          string `json:"upc"`
		Model        string `json:"model"`
	} `json:"item_attributes"`
	Stores []struct {
		StoreName string `json:"store_name"`
		Price     string `json:"price"`
		Currency  string `json:"currency"`
		Link      string `json:"link"`
		Updated   string `json:"updated"`
	} `json:"Stores"`
}

// NewBarcodeSpiderSource creates a new BarcodeSpiderSource from config.
func NewBarcodeSpiderSource(config map[string]interface{}) (sources.Source, error) {
	apiKey, ok := config["api_key"].(string)
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%w for Barcode Spider", ErrAPIKeyRequired)
	}

	timeout := configTimeout(config, 5*time.Second)

	interval := barcodeSpiderMinInterval
	if i, ok := config["min_interval"].(int); ok && i > 0 {
		interval = time.Duration(i) * time.Millisecond
	}

	s := &BarcodeSpiderSource{
		apiKey:  apiKey,
		baseURL: configString(config, "base_url", barcodeSpiderBaseURL),
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  sources.GetLoggerFromConfig(config),
	}

	s.logger.Info("Initializing Barcode Spider source", "min_interval", interval.String())
	return s, nil
}

// Name returns the source name as it appears in data_sources.
func (s *BarcodeSpiderSource) Name() string {
	return "Barcode Spider"
}

// Type returns the source type.
func (s *BarcodeSpiderSource) Type() sources.SourceType {
	return sources.SourceTypeRetail
}

// Fetch looks up a barcode.
func (s *BarcodeSpiderSource) Fetch(ctx context.Context, barcode string) (sources.Record, error) {
	clean := sources.DigitsOnly(barcode)
	if clean == "" {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, sources.ErrEmptyBarcode)
	}

	// Wait out the provider throttle; the lookup deadline still caps the wait.
	if err := s.limiter.Wait(ctx); err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTimeout, err)
	}

	url := fmt.Sprintf("%s?upc=%s", s.baseURL, clean)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport, err)
	}
	req.Header.Set("token", s.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.AgentString())

	resp, err := s.client.Do(req)
	if err != nil {
		return sources.Record{}, sources.ClassifyTransport(s.Name(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailAuth, sources.ErrAuthFailed)
	case http.StatusNotFound:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, sources.ErrProductNotFound)
	case http.StatusTooManyRequests:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport, sources.ErrRateLimitExceeded)
	default:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport,
			fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode))
	}

	var data barcodeSpiderResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailMalformed, err)
	}

	attrs := data.ItemAttributes
	if attrs.Title == "" && len(data.Stores) == 0 {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound,
			fmt.Errorf("%w: %s", sources.ErrProductNotFound, data.ItemResponse.Message))
	}

	record := sources.Record{
		SourceName:   s.Name(),
		Name:         attrs.Title,
		Description:  attrs.Description,
		Brand:        attrs.Brand,
		Manufacturer: attrs.Manufacturer,
		ImageURL:     attrs.Image,
		Category:     attrs.Category,
		Identifiers:  map[string]string{sources.IdentifierUPC: clean},
	}
	if attrs.EAN != "" {
		record.Identifiers[sources.IdentifierEAN] = attrs.EAN
	}
	if attrs.MPN != "" {
		record.Identifiers[sources.IdentifierMPN] = attrs.MPN
	}
	if attrs.Model != "" {
		record.Specifications = "Model: " + attrs.Model
	}

	// Offers stay in the provider's currency; conversion happens in the merge.
	for _, store := range data.Stores {
		price, ok := parsePrice(store.Price)
		if !ok {
			continue
		}
		currency := store.Currency
		if currency == "" {
			currency = "USD"
		}
		record.Offers = append(record.Offers, sources.StoreOffer{
			StoreName:    store.StoreName,
			Price:        price,
			Currency:     currency,
			Link:         store.Link,
			LastUpdate:   store.Updated,
			Availability: "In Stock",
			Shipping:     "See store for details",
		})
	}

	s.logger.Debug("Barcode Spider hit", "barcode", clean, "offers", len(record.Offers))
	return record, nil
}
