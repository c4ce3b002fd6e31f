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

const upcDatabaseBaseURL = "https://api.upcdatabase.org/product"

// UPCDatabaseSource looks up barcodes in UPC Database
// https://upcdatabase.org/api (Bearer token).
type UPCDatabaseSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *logging.Logger
}

type upcDatabaseResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
	Product struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Brand        string `json:"brand"`
		Manufacturer string `json:"manufacturer"`
		Category     string `json:"category"`
		MPN          string `json:"mpn"`
		Image        string `json:"image"`
	} `json:"product"`
}

// NewUPCDatabaseSource creates a new UPCDatabaseSource from config.
func NewUPCDatabaseSource(config map[string]interface{}) (sources.Source, error) {
	apiKey, ok := config["api_key"].(string)
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%w for UPC Database", ErrAPIKeyRequired)
	}

	timeout := configTimeout(config, 5*time.Second)

	s := &UPCDatabaseSource{
		apiKey:  apiKey,
		baseURL: configString(config, "base_url", upcDatabaseBaseURL),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: sources.GetLoggerFromConfig(config),
	}

	s.logger.Info("Initializing UPC Database source")
	return s, nil
}

// Name returns the source name as it appears in data_sources.
func (s *UPCDatabaseSource) Name() string {
	return "UPC Database"
}

// Type returns the source type.
func (s *UPCDatabaseSource) Type() sources.SourceType {
	return sources.SourceTypeProduct
}

// Fetch looks up a barcode.
func (s *UPCDatabaseSource) Fetch(ctx context.Context, barcode string) (sources.Record, error) {
	clean := sources.DigitsOnly(barcode)
	if clean == "" {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, sources.ErrEmptyBarcode)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, clean)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
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
	default:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport,
			fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode))
	}

	var data upcDatabaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailMalformed, err)
	}

	if !data.Success {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound,
			fmt.Errorf("%w: %s", sources.ErrProductNotFound, data.Error.Message))
	}

	p := data.Product
	// A success flag with an all-empty product still means "no record".
	if p.Title == "" && p.Description == "" && p.Brand == "" &&
		p.Manufacturer == "" && p.Category == "" && p.Image == "" && p.MPN == "" {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, ErrNoProductInResponse)
	}

	record := sources.Record{
		SourceName:   s.Name(),
		Name:         p.Title,
		Description:  p.Description,
		Brand:        p.Brand,
		Manufacturer: p.Manufacturer,
		Category:     p.Category,
		ImageURL:     p.Image,
		Identifiers:  map[string]string{sources.IdentifierUPC: clean},
	}
	if p.MPN != "" {
		record.Identifiers[sources.IdentifierMPN] = p.MPN
	}

	s.logger.Debug("UPC Database hit", "barcode", clean, "name", record.Name)
	return record, nil
}
