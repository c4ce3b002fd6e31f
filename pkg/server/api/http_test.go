package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup"
	"github.com/ksaccary/barcode-app/pkg/lookup/rates"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
)

type stubSource struct {
	name   string
	record sources.Record
	err    error
}

func (s *stubSource) Fetch(_ context.Context, _ string) (sources.Record, error) {
	return s.record, s.err
}

func (s *stubSource) Name() string             { return s.name }
func (s *stubSource) Type() sources.SourceType { return sources.SourceTypeRetail }

type stubRates struct{}

func (stubRates) Rates(_ context.Context) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"CAD": decimal.NewFromFloat(1.35),
	}, nil
}

func (stubRates) Name() string { return "stub" }

func testServer(srcs []sources.Source, limiter *rate.Limiter) *Server {
	converter := rates.NewConverter(stubRates{}, time.Hour, logging.NewNoopLogger())
	agg := lookup.NewAggregator(srcs, converter, "CAD", 2*time.Second, nil)
	return NewServer(":0", agg, limiter, logging.NewNoopLogger())
}

func TestHandleLookupSuccess(t *testing.T) {
	srv := testServer([]sources.Source{
		&stubSource{
			name: "stub",
			record: sources.Record{
				SourceName: "stub",
				Name:       "Widget",
				Offers: []sources.StoreOffer{
					{StoreName: "ShopX", Price: decimal.NewFromFloat(9.99), Currency: "USD"},
				},
			},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/lookup/0123456789012", nil)
	rec := httptest.NewRecorder()
	srv.handleLookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Name      string `json:"name"`
		Price     string `json:"price"`
		Currency  string `json:"currency"`
		AllStores []struct {
			StoreName string `json:"store_name"`
			Price     string `json:"price"`
		} `json:"all_stores"`
		DataSources []string `json:"data_sources"`
		RequestID   string   `json:"request_id"`
		RequestTime string   `json:"request_time"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Widget", body.Name)
	assert.Equal(t, "13.49", body.Price)
	assert.Equal(t, "CAD", body.Currency)
	require.Len(t, body.AllStores, 1)
	assert.Equal(t, "ShopX", body.AllStores[0].StoreName)
	assert.Equal(t, []string{"stub"}, body.DataSources)
	assert.NotEmpty(t, body.RequestID)

	_, err := time.Parse(time.RFC3339, body.RequestTime)
	assert.NoError(t, err)
}

func TestHandleLookupNotFound(t *testing.T) {
	srv := testServer([]sources.Source{
		&stubSource{name: "stub", err: sources.Fail("stub", sources.FailNotFound, sources.ErrProductNotFound)},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/lookup/0000000000000", nil)
	rec := httptest.NewRecorder()
	srv.handleLookup(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Product not found", body.Error)
	assert.Equal(t, "Product not found in any database", body.Message)
	assert.Equal(t, "0000000000000", body.Barcode)
}

func TestHandleLookupInvalidBarcode(t *testing.T) {
	srv := testServer([]sources.Source{&stubSource{name: "stub"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/lookup/", nil)
	rec := httptest.NewRecorder()
	srv.handleLookup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLookupRateLimited(t *testing.T) {
	// A zero-rate limiter with no burst rejects every request.
	srv := testServer([]sources.Source{
		&stubSource{name: "stub", record: sources.Record{SourceName: "stub", Name: "Widget"}},
	}, rate.NewLimiter(rate.Limit(0), 0))

	req := httptest.NewRequest(http.MethodGet, "/lookup/0123456789012", nil)
	rec := httptest.NewRecorder()
	srv.handleLookup(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandleLookupCurrencyOverride(t *testing.T) {
	srv := testServer([]sources.Source{
		&stubSource{
			name: "stub",
			record: sources.Record{
				SourceName: "stub",
				Offers: []sources.StoreOffer{
					{StoreName: "ShopX", Price: decimal.NewFromFloat(13.50), Currency: "CAD"},
				},
			},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/lookup/0123456789012?currency=USD", nil)
	rec := httptest.NewRecorder()
	srv.handleLookup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Currency string `json:"currency"`
		Price    string `json:"price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USD", body.Currency)
	assert.Equal(t, "10", body.Price)
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
