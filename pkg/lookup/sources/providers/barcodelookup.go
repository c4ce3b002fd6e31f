package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
)

const (
	barcodeLookupBaseURL = "https://www.barcodelookup.com"

	// The site serves a stripped page to non-browser agents.
	barcodeLookupUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Extraction patterns for the barcodelookup.com product page. The markup is
// stable enough in practice; ErrMarkupChanged covers the day it isn't.
var (
	blTitleRe        = regexp.MustCompile(`<h4>\s*(.*?)\s*</h4>`)
	blDescriptionRe  = regexp.MustCompile(`Description:\s*&nbsp;\s*(.*?)</span>`)
	blManufacturerRe = regexp.MustCompile(`Manufacturer:\s*<span class="product-text">(.*?)</span>`)
	blBrandRe        = regexp.MustCompile(`Brand:\s*<span class="product-text">(.*?)</span>`)
	blCategoryRe     = regexp.MustCompile(`Category:\s*<span class="product-text">(.*?)</span>`)
	blImageRe        = regexp.MustCompile(`id="largeProductImage">\s*<img[^>]*src="([^"]+)"`)
	blStoreRe        = regexp.MustCompile(`(?s)<span class="store-name">(.*?)</span>.*?href="([^"]+)".*?<span class="store-link">(.*?)</span>`)
	blAttributeRe    = regexp.MustCompile(`<li class="product-text"><span>\s*([^:<]+):\s*([^<]+?)\s*</span>`)
)

// BarcodeLookupSource scrapes the barcodelookup.com product page.
// No API key; treated as a best-effort source of last resort.
type BarcodeLookupSource struct {
	baseURL string
	client  *http.Client
	logger  *logging.Logger
}

// NewBarcodeLookupSource creates a new BarcodeLookupSource from config.
func NewBarcodeLookupSource(config map[string]interface{}) (sources.Source, error) {
	timeout := configTimeout(config, 8*time.Second)

	s := &BarcodeLookupSource{
		baseURL: configString(config, "base_url", barcodeLookupBaseURL),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: sources.GetLoggerFromConfig(config),
	}

	s.logger.Info("Initializing Barcode Lookup source")
	return s, nil
}

// Name returns the source name as it appears in data_sources.
func (s *BarcodeLookupSource) Name() string {
	return "Barcode Lookup"
}

// Type returns the source type.
func (s *BarcodeLookupSource) Type() sources.SourceType {
	return sources.SourceTypeRetail
}

// Fetch looks up a barcode.
func (s *BarcodeLookupSource) Fetch(ctx context.Context, barcode string) (sources.Record, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, barcode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport, err)
	}
	req.Header.Set("User-Agent", barcodeLookupUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return sources.Record{}, sources.ClassifyTransport(s.Name(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailNotFound, sources.ErrProductNotFound)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport, sources.ErrRateLimitExceeded)
	default:
		return sources.Record{}, sources.Fail(s.Name(), sources.FailTransport,
			fmt.Errorf("%w: %d", sources.ErrUnexpectedStatus, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return sources.Record{}, sources.ClassifyTransport(s.Name(), err)
	}
	html := string(body)

	title := firstMatch(blTitleRe, html)
	if title == "" {
		return sources.Record{}, sources.Fail(s.Name(), sources.FailMalformed, ErrMarkupChanged)
	}

	record := sources.Record{
		SourceName:   s.Name(),
		Name:         title,
		Description:  firstMatch(blDescriptionRe, html),
		Manufacturer: firstMatch(blManufacturerRe, html),
		Brand:        firstMatch(blBrandRe, html),
		Category:     firstMatch(blCategoryRe, html),
		ImageURL:     firstMatch(blImageRe, html),
		Identifiers:  map[string]string{sources.IdentifierUPC: barcode},
	}

	// Attribute rows carry MPN, size, weight and similar key/value pairs.
	var specs []string
	for _, m := range blAttributeRe.FindAllStringSubmatch(html, -1) {
		key := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if key == "" || value == "" {
			continue
		}
		if strings.EqualFold(key, "mpn") {
			record.Identifiers[sources.IdentifierMPN] = value
			continue
		}
		specs = append(specs, key+": "+value)
	}
	record.Specifications = strings.Join(specs, "; ")

	// Store rows quote Canadian dollar prices.
	now := time.Now().UTC().Format(time.RFC3339)
	for _, m := range blStoreRe.FindAllStringSubmatch(html, -1) {
		storeName := strings.TrimSuffix(strings.TrimSpace(m[1]), ":")
		price, ok := parsePrice(m[3])
		if !ok || storeName == "" {
			continue
		}
		record.Offers = append(record.Offers, sources.StoreOffer{
			StoreName:    storeName,
			Price:        price,
			Currency:     "CAD",
			Link:         m[2],
			LastUpdate:   now,
			Availability: "In Stock",
			Shipping:     "See store for details",
		})
	}

	s.logger.Debug("Barcode Lookup hit", "barcode", barcode, "offers", len(record.Offers))
	return record, nil
}

func firstMatch(re *regexp.Regexp, html string) string {
	m := re.FindStringSubmatch(html)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
