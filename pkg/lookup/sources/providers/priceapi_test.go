package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
)

func TestNewPriceAPISourceRequiresKey(t *testing.T) {
	if _, err := NewPriceAPISource(map[string]interface{}{}); !errors.Is(err, ErrAPIKeyRequired) {
		t.Errorf("expected ErrAPIKeyRequired, got %v", err)
	}
}

func TestPriceAPIFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q", got)
		}
		if got := q.Get("country"); got != "ca" {
			t.Errorf("country = %q", got)
		}
		if got := q.Get("values"); got != "012345678905" {
			t.Errorf("values = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"products": [{
				"title": "Wireless Mouse",
				"brand": "Logi",
				"offers": [
					{"merchant": "Walmart Canada", "price": 29.99, "link": "http://w.test",
					 "stock_status": "in_stock", "shipping_options": "Free over $35"},
					{"merchant": "", "price": 19.99},
					{"merchant": "Amazon Canada", "price": 0}
				]
			}]
		}`))
	}))
	defer srv.Close()

	src, err := NewPriceAPISource(map[string]interface{}{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	if err != nil {
		t.Fatalf("NewPriceAPISource failed: %v", err)
	}

	record, err := src.Fetch(context.Background(), "012345678905")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if record.Name != "Wireless Mouse" {
		t.Errorf("name = %q", record.Name)
	}

	// Nameless and zero-priced offers are skipped.
	if len(record.Offers) != 1 {
		t.Fatalf("offers = %d, want 1", len(record.Offers))
	}
	offer := record.Offers[0]
	if offer.StoreName != "Walmart Canada" {
		t.Errorf("store = %q", offer.StoreName)
	}
	if !offer.Price.Equal(decimal.NewFromFloat(29.99)) {
		t.Errorf("price = %s", offer.Price)
	}
	if offer.Currency != "CAD" {
		t.Errorf("currency = %q", offer.Currency)
	}
	if offer.Shipping != "Free over $35" {
		t.Errorf("shipping = %q", offer.Shipping)
	}
}

func TestPriceAPINoProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"products": []}`))
	}))
	defer srv.Close()

	src, err := NewPriceAPISource(map[string]interface{}{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	if err != nil {
		t.Fatalf("NewPriceAPISource failed: %v", err)
	}

	_, err = src.Fetch(context.Background(), "012345678905")
	assertFailKind(t, err, sources.FailNotFound)
}

func TestPriceAPIAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	src, err := NewPriceAPISource(map[string]interface{}{
		"api_key":  "bad-key",
		"base_url": srv.URL,
	})
	if err != nil {
		t.Fatalf("NewPriceAPISource failed: %v", err)
	}

	_, err = src.Fetch(context.Background(), "012345678905")
	assertFailKind(t, err, sources.FailAuth)
}
