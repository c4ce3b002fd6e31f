package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ksaccary/barcode-app/pkg/version"
)

const exchangeRateAPIBaseURL = "https://v6.exchangerate-api.com/v6"

// ExchangeRateAPIProvider fetches USD-based rates from exchangerate-api.com
// https://www.exchangerate-api.com/docs/standard-requests
// Requires an API key.
type ExchangeRateAPIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type exchangeRateAPIResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type,omitempty"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// NewExchangeRateAPIProvider creates a new exchangerate-api.com provider.
// baseURL overrides the production endpoint, used by tests; pass "" for the default.
func NewExchangeRateAPIProvider(apiKey, baseURL string, timeout time.Duration) (*ExchangeRateAPIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w", ErrAPIKeyRequired)
	}
	if baseURL == "" {
		baseURL = exchangeRateAPIBaseURL
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &ExchangeRateAPIProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Name returns the provider name.
func (p *ExchangeRateAPIProvider) Name() string {
	return "exchangerate-api"
}

// Rates fetches the latest USD-based rate table.
func (p *ExchangeRateAPIProvider) Rates(ctx context.Context) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s/latest/USD", p.baseURL, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.AgentString())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var data exchangeRateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if data.Result != "success" || len(data.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: result=%s, error=%s", ErrInvalidResponse, data.Result, data.ErrorType)
	}

	rates := make(map[string]decimal.Decimal, len(data.ConversionRates)+1)
	for code, rate := range data.ConversionRates {
		rates[code] = decimal.NewFromFloat(rate)
	}
	// The base currency is implied by the endpoint; make it explicit so
	// Convert never misses the pivot entry.
	rates["USD"] = decimal.NewFromInt(1)

	return rates, nil
}
