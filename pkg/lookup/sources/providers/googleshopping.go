package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
	"github.com/ksaccary/barcode-app/pkg/version"
)

const googleSearchBaseURL = "https://www.googleapis.com/customsearch/v1"

// canadianRetailers maps retailer domains to display names. Results from
// other domains are kept only when they are on a .ca TLD.
var canadianRetailers = map[string]string{
	"nofrills.ca":        "No Frills",
	"shoppersdrug":       "Shoppers Drug Mart",
	"atlanticsuperstore": "Atlantic Superstore",
	"loblaws.ca":         "Loblaws",
	"walmart.ca":         "Walmart Canada",
	"amazon.ca":          "Amazon Canada",
	"canadiantire.ca":    "Canadian Tire",
	"sobeys.com":         "Sobeys",
	"metro.ca":           "Metro",
	"costco.ca":          "Costco Canada",
	"realcanadianstore":  "Real Canadian Superstore",
}

// GoogleShoppingSource finds Canadian retail offers for a barcode through
// the Google Custom Search API
// https://developers.google.com/custom-search/v1/overview (key + cx).
type GoogleShoppingSource struct {
	apiKey   string
	engineID string
	baseURL  string
	client   *http.Client
	logger   *logging.Logger
}

type googleSearchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
		Pagemap     struct {
			Offer []struct {
				Price        string `json:"price"`
				Availability string `json:"availability"`
			} `json:"offer"`
			Product []struct {
				Name     string `json:"name"`
				Brand    string `json:"brand"`
				Category string `json:"category"`
			} `json:"product"`
			CSEImage []struct {
				Src string `json:"src"`
			} `json:"cse_image"`
		} `json:"pagemap"`
	} `json:"items"`
}

// NewGoogleShoppingSource creates a new GoogleShoppingSource from config.
func NewGoogleShoppingSource(config map[string]interface{}) (sources.Source, error) {
	apiKey, ok := config["api_key"].(string)
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%w for Google Shopping", ErrAPIKeyRequired)
	}
	engineID, ok := config["search_engine_id"].(string)
	if !ok || engineID == "" {
		return nil, fmt.Errorf("%w", ErrSearchEngineIDRequired)
	}

	timeout := configTimeout(config, 5*time.Second)

	s := &GoogleShoppingSource{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  configString(config, "base_url", googleSearchBaseURL),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: sources.GetLoggerFromConfig(config),
	}

	s.logger.Info("Initializing Google Shopping source")
	return s, nil
}

// Name returns the source name as it appears in data_sources.
func (s *GoogleShoppingSource) Name() string {
	return "Google Shopping"
}

// Type returns the source type.
func (s *GoogleShoppingSource) Type() sources.SourceType {
	return sources.SourceTypeRetail
}

// Fetch looks up a barcode.
func (s *GoogleShoppingSource) Fetch(ctx context.Context, barcode string) (sources.Record, error) {
	params := url.Values{}
	params.Set("key", s.apiKey)
	params.Set("cx", s.engineID)
	params.Set("q", fmt.Sprintf("%q OR \"UPC %s\" site:.ca", barcode, barcode))
	params.Set("gl", "ca")
	params.Set("cr", "countryCA")
	params.Set("num", "10")

	requestURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

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
	case http.StatusTooManyRequests:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport, sources.ErrRateLimitExceeded)
	default:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport,
			fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode))
	}

	var data googleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailMalformed, err)
	}

	if len(data.Items) == 0 {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, ErrNoItemsInResponse)
	}

	record := sources.Record{
		SourceName:  s.Name(),
		Identifiers: map[string]string{sources.IdentifierUPC: barcode},
	}

	for _, item := range data.Items {
		storeName := retailerName(item.DisplayLink)
		if storeName == "" {
			continue // not a Canadian retailer
		}
		if len(item.Pagemap.Offer) == 0 {
			continue
		}

		offer := item.Pagemap.Offer[0]
		price, ok := parsePrice(offer.Price)
		if !ok {
			continue
		}

		availability := offer.Availability
		if availability == "" {
			availability = "Unknown"
		}
		record.Offers = append(record.Offers, sources.StoreOffer{
			StoreName:    storeName,
			Price:        price,
			Currency:     "CAD",
			Link:         item.Link,
			LastUpdate:   time.Now().UTC().Format(time.RFC3339),
			Availability: availability,
			Shipping:     "See store for details",
		})

		// The first retained result supplies product attributes.
		if record.Name == "" {
			if len(item.Pagemap.Product) > 0 {
				p := item.Pagemap.Product[0]
				record.Name = p.Name
				record.Brand = p.Brand
				record.Category = p.Category
			}
			if record.Name == "" {
				record.Name = item.Title
			}
			record.Description = item.Snippet
			if len(item.Pagemap.CSEImage) > 0 {
				record.ImageURL = item.Pagemap.CSEImage[0].Src
			}
		}
	}

	if len(record.Offers) == 0 {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, ErrNoCanadianRetailers)
	}

	s.logger.Debug("Google Shopping hit", "barcode", barcode, "offers", len(record.Offers))
	return record, nil
}

// retailerName resolves a result domain to a retailer display name.
// Unknown .ca domains are kept under their own name; everything else is dropped.
func retailerName(displayLink string) string {
	link := strings.ToLower(displayLink)
	for domain, name := range canadianRetailers {
		if strings.Contains(link, domain) {
			return name
		}
	}
	if strings.HasSuffix(link, ".ca") {
		trimmed := strings.TrimPrefix(link, "www.")
		if trimmed == "" {
			return ""
		}
		return strings.ToUpper(trimmed[:1]) + trimmed[1:]
	}
	return ""
}
