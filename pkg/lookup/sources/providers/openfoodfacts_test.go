package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
)

func TestOpenFoodFactsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/product/0123456789012.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"status": 1,
			"product": {
				"product_name": "Maple Syrup",
				"brands": "Great Value",
				"image_url": "http://img.test/syrup.jpg",
				"categories": "Sweeteners",
				"quantity": "500 ml",
				"ingredients_text": "Maple syrup"
			}
		}`))
	}))
	defer srv.Close()

	src, err := NewOpenFoodFactsSource(map[string]interface{}{"base_url": srv.URL})
	if err != nil {
		t.Fatalf("NewOpenFoodFactsSource failed: %v", err)
	}

	record, err := src.Fetch(context.Background(), "0123456789012")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if record.Name != "Maple Syrup" {
		t.Errorf("name = %q", record.Name)
	}
	if record.Brand != "Great Value" {
		t.Errorf("brand = %q", record.Brand)
	}
	if record.Quantity != "500 ml" {
		t.Errorf("quantity = %q", record.Quantity)
	}
	if record.Identifiers[sources.IdentifierBarcode] != "0123456789012" {
		t.Errorf("barcode identifier = %q", record.Identifiers[sources.IdentifierBarcode])
	}
	if len(record.Offers) != 0 {
		t.Error("catalog source must not produce offers")
	}
}

func TestOpenFoodFactsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
	}))
	defer srv.Close()

	src, err := NewOpenFoodFactsSource(map[string]interface{}{"base_url": srv.URL})
	if err != nil {
		t.Fatalf("NewOpenFoodFactsSource failed: %v", err)
	}

	_, err = src.Fetch(context.Background(), "0000000000000")
	assertFailKind(t, err, sources.FailNotFound)
}

func TestOpenFoodFactsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, err := NewOpenFoodFactsSource(map[string]interface{}{"base_url": srv.URL})
	if err != nil {
		t.Fatalf("NewOpenFoodFactsSource failed: %v", err)
	}

	_, err = src.Fetch(context.Background(), "0123456789012")
	assertFailKind(t, err, sources.FailTransport)
}

// assertFailKind checks that err is a *FetchError of the wanted kind.
func assertFailKind(t *testing.T, err error, want sources.FailKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var fetchErr *sources.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != want {
		t.Errorf("fail kind = %s, want %s", fetchErr.Kind, want)
	}
}
