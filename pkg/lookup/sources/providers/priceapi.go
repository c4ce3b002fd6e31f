package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
	"github.com/ksaccary/barcode-app/pkg/version"
)

const (
	priceAPIBaseURL = "https://api.priceapi.com/v2"

	// Retail sites PriceAPI is asked to cover, Canadian market.
	priceAPIDefaultSources = "amazon.ca,walmart.ca,canadiantire.ca,shoppersdrug.ca"
)

// PriceAPISource looks up retail offers through PriceAPI
// https://www.priceapi.com/documentation (api_key query parameter).
type PriceAPISource struct {
	apiKey   string
	baseURL  string
	stores   string
	country  string
	currency string
	client   *http.Client
	logger   *logging.Logger
}

type priceAPIResponse struct {
	Message  string `json:"message"`
	Products []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Brand       string `json:"brand"`
		Image       string `json:"image"`
		Category    string `json:"category"`
		Offers      []struct {
			Merchant        string  `json:"merchant"`
			Price           float64 `json:"price"`
			Link            string  `json:"link"`
			LastUpdated     string  `json:"last_updated"`
			StockStatus     string  `json:"stock_status"`
			ShippingOptions string  `json:"shipping_options"`
		} `json:"offers"`
	} `json:"products"`
}

// NewPriceAPISource creates a new PriceAPISource from config.
func NewPriceAPISource(config map[string]interface{}) (sources.Source, error) {
	apiKey, ok := config["api_key"].(string)
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%w for PriceAPI", ErrAPIKeyRequired)
	}

	timeout := configTimeout(config, 5*time.Second)

	s := &PriceAPISource{
		apiKey:   apiKey,
		baseURL:  configString(config, "base_url", priceAPIBaseURL),
		stores:   configString(config, "sources", priceAPIDefaultSources),
		country:  configString(config, "country", "ca"),
		currency: strings.ToUpper(configString(config, "currency", "CAD")),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: sources.GetLoggerFromConfig(config),
	}

	s.logger.Info("Initializing PriceAPI source", "country", s.country)
	return s, nil
}

// Name returns the source name as it appears in data_sources.
func (s *PriceAPISource) Name() string {
	return "PriceAPI"
}

// Type returns the source type.
func (s *PriceAPISource) Type() sources.SourceType {
	return sources.SourceTypeRetail
}

// Fetch looks up a barcode.
func (s *PriceAPISource) Fetch(ctx context.Context, barcode string) (sources.Record, error) {
	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("source", s.stores)
	params.Set("country", s.country)
	params.Set("values", barcode)
	params.Set("type", "upc")

	requestURL := fmt.Sprintf("%s/products?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport, err)
	}
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
	default:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport,
			fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode))
	}

	var data priceAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailMalformed, err)
	}

	if len(data.Products) == 0 {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, sources.ErrProductNotFound)
	}

	// First product is the best barcode match.
	product := data.Products[0]

	record := sources.Record{
		SourceName:  s.Name(),
		Name:        product.Title,
		Description: product.Description,
		Brand:       product.Brand,
		ImageURL:    product.Image,
		Category:    product.Category,
		Identifiers: map[string]string{sources.IdentifierUPC: barcode},
	}

	for _, offer := range product.Offers {
		if offer.Price <= 0 || offer.Merchant == "" {
			continue
		}
		availability := offer.StockStatus
		if availability == "" {
			availability = "Unknown"
		}
		shipping := offer.ShippingOptions
		if shipping == "" {
			shipping = "See store for details"
		}
		record.Offers = append(record.Offers, sources.StoreOffer{
			StoreName:    offer.Merchant,
			Price:        decimal.NewFromFloat(offer.Price),
			Currency:     s.currency,
			Link:         offer.Link,
			LastUpdate:   offer.LastUpdated,
			Availability: availability,
			Shipping:     shipping,
		})
	}

	s.logger.Debug("PriceAPI hit", "barcode", barcode, "offers", len(record.Offers))
	return record, nil
}
