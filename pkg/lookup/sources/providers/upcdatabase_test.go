package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
)

func TestNewUPCDatabaseSourceRequiresKey(t *testing.T) {
	for _, config := range []map[string]interface{}{
		{},
		{"api_key": ""},
		{"api_key": 123},
	} {
		if _, err := NewUPCDatabaseSource(config); !errors.Is(err, ErrAPIKeyRequired) {
			t.Errorf("config %v: expected ErrAPIKeyRequired, got %v", config, err)
		}
	}
}

func TestUPCDatabaseFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"success": true,
			"product": {
				"title": "Wireless Mouse",
				"description": "A mouse",
				"brand": "Logi",
				"manufacturer": "Logi Inc",
				"category": "Electronics",
				"mpn": "M185",
				"image": "http://img.test/mouse.jpg"
			}
		}`))
	}))
	defer srv.Close()

	src, err := NewUPCDatabaseSource(map[string]interface{}{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	if err != nil {
		t.Fatalf("NewUPCDatabaseSource failed: %v", err)
	}

	record, err := src.Fetch(context.Background(), "012345678905")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if record.Name != "Wireless Mouse" {
		t.Errorf("name = %q", record.Name)
	}
	if record.Manufacturer != "Logi Inc" {
		t.Errorf("manufacturer = %q", record.Manufacturer)
	}
	if record.Identifiers[sources.IdentifierUPC] != "012345678905" {
		t.Errorf("upc identifier = %q", record.Identifiers[sources.IdentifierUPC])
	}
	if record.Identifiers[sources.IdentifierMPN] != "M185" {
		t.Errorf("mpn identifier = %q", record.Identifiers[sources.IdentifierMPN])
	}
}

func TestUPCDatabaseAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	src, err := NewUPCDatabaseSource(map[string]interface{}{
		"api_key":  "bad-key",
		"base_url": srv.URL,
	})
	if err != nil {
		t.Fatalf("NewUPCDatabaseSource failed: %v", err)
	}

	_, err = src.Fetch(context.Background(), "012345678905")
	assertFailKind(t, err, sources.FailAuth)
}

func TestUPCDatabaseEmptyProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "product": {}}`))
	}))
	defer srv.Close()

	src, err := NewUPCDatabaseSource(map[string]interface{}{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	if err != nil {
		t.Fatalf("NewUPCDatabaseSource failed: %v", err)
	}

	// A success flag around an all-empty product still counts as a miss.
	_, err = src.Fetch(context.Background(), "012345678905")
	assertFailKind(t, err, sources.FailNotFound)
}

func TestUPCDatabaseMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	src, err := NewUPCDatabaseSource(map[string]interface{}{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	if err != nil {
		t.Fatalf("NewUPCDatabaseSource failed: %v", err)
	}

	_, err = src.Fetch(context.Background(), "012345678905")
	assertFailKind(t, err, sources.FailMalformed)
}
