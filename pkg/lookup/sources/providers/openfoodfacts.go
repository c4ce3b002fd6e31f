package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
	"github.com/ksaccary/barcode-app/pkg/version"
)

const openFoodFactsBaseURL = "https://world.openfoodfacts.org/api/v0"

// OpenFoodFactsSource looks up barcodes in the Open Food Facts database
// https://world.openfoodfacts.org/data (free, no API key).
type OpenFoodFactsSource struct {
	baseURL string
	client  *http.Client
	logger  *logging.Logger
}

type openFoodFactsResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName     string `json:"product_name"`
		Brands          string `json:"brands"`
		ImageURL        string `json:"image_url"`
		IngredientsText string `json:"ingredients_text"`
		Categories      string `json:"categories"`
		Quantity        string `json:"quantity"`
	} `json:"product"`
}

// NewOpenFoodFactsSource creates a new OpenFoodFactsSource from config.
func NewOpenFoodFactsSource(config map[string]interface{}) (sources.Source, error) {
	timeout := configTimeout(config, 5*time.Second)

	s := &OpenFoodFactsSource{
		baseURL: configString(config, "base_url", openFoodFactsBaseURL),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: sources.GetLoggerFromConfig(config),
	}

	s.logger.Info("Initializing Open Food Facts source")
	return s, nil
}

// Name returns the source name as it appears in data_sources.
func (s *OpenFoodFactsSource) Name() string {
	return "Open Food Facts"
}

// Type returns the source type.
func (s *OpenFoodFactsSource) Type() sources.SourceType {
	return sources.SourceTypeProduct
}

// Fetch looks up a barcode.
func (s *OpenFoodFactsSource) Fetch(ctx context.Context, barcode string) (sources.Record, error) {
	url := fmt.Sprintf("%s/product/%s.json", s.baseURL, barcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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

	if resp.StatusCode == http.StatusNotFound {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, sources.ErrProductNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport,
			fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode))
	}

	var data openFoodFactsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailMalformed, err)
	}

	// Open Food Facts signals "unknown barcode" with status 0 on a 200 response.
	if data.Status != 1 {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, sources.ErrProductNotFound)
	}

	record := sources.Record{
		SourceName:     s.Name(),
		Name:           data.Product.ProductName,
		Brand:          data.Product.Brands,
		ImageURL:       data.Product.ImageURL,
		Category:       data.Product.Categories,
		Quantity:       data.Product.Quantity,
		Specifications: data.Product.IngredientsText,
		Identifiers: map[string]string{
			sources.IdentifierBarcode: barcode,
		},
	}

	s.logger.Debug("Open Food Facts hit", "barcode", barcode, "name", record.Name)
	return record, nil
}
