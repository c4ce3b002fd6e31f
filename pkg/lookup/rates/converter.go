package rates

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/metrics"
)

// RateProvider fetches a table of exchange rates quoted against USD.
// The table maps ISO currency codes to units per USD and always contains
// the USD entry itself (rate 1).
type RateProvider interface {
	// Rates returns the current USD-based rate table.
	Rates(ctx context.Context) (map[string]decimal.Decimal, error)

	// Name returns the provider name for logging and metrics.
	Name() string
}

// Converter converts monetary amounts between currencies using a cached
// rate table. The cache is read-mostly: concurrent lookups share the table
// under a read lock and only a refresh takes the write lock.
type Converter struct {
	provider RateProvider
	ttl      time.Duration
	logger   *logging.Logger

	mu        sync.RWMutex
	rates     map[string]decimal.Decimal
	fetchedAt time.Time
}

// NewConverter creates a Converter backed by the given rate provider.
func NewConverter(provider RateProvider, ttl time.Duration, logger *logging.Logger) *Converter {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Converter{
		provider: provider,
		ttl:      ttl,
		logger:   logger,
	}
}

// Convert converts amount from one currency to another, rounding the result
// half-up to 2 decimal places. Same-currency conversions return the amount
// unchanged without touching the provider. When no usable rate exists the
// caller gets ErrRateUnavailable and must drop the amount rather than guess.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		return amount, nil
	}

	table, err := c.table(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	fromRate, ok := table[from]
	if !ok || fromRate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toRate, ok := table[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}

	// Rates are quoted against USD, so pivot through it:
	// amount / rate[from] is the USD value, times rate[to] is the target.
	converted := amount.Div(fromRate).Mul(toRate)
	return converted.Round(2), nil
}

// table returns the cached rate table, refreshing it when expired.
// A failed refresh keeps serving the previous table (stale rates beat no
// rates for an advisory price display); only a cold cache propagates the
// provider error.
func (c *Converter) table(ctx context.Context) (map[string]decimal.Decimal, error) {
	c.mu.RLock()
	if c.rates != nil && time.Since(c.fetchedAt) < c.ttl {
		table := c.rates
		c.mu.RUnlock()
		return table, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another lookup may have refreshed while we waited for the lock.
	if c.rates != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.rates, nil
	}

	fresh, err := c.provider.Rates(ctx)
	if err != nil {
		metrics.RecordRateRefresh("error")
		if c.rates != nil {
			c.logger.Warn("Rate refresh failed, serving stale table",
				"provider", c.provider.Name(),
				"age", time.Since(c.fetchedAt).String(),
				"error", err.Error(),
			)
			return c.rates, nil
		}
		return nil, err
	}

	metrics.RecordRateRefresh("ok")
	c.rates = fresh
	c.fetchedAt = time.Now()
	c.logger.Debug("Refreshed exchange rates",
		"provider", c.provider.Name(),
		"currencies", len(fresh),
	)
	return c.rates, nil
}
