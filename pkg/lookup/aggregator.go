package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup/rates"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
	"github.com/ksaccary/barcode-app/pkg/metrics"
)

// Aggregator dispatches all configured sources concurrently for a barcode
// and merges whatever they return within the lookup deadline. It holds no
// state between lookups beyond its read-only configuration and the shared
// rate converter cache.
type Aggregator struct {
	sources   []sources.Source // fixed priority order, highest first
	converter *rates.Converter
	target    string
	deadline  time.Duration
	logger    *logging.Logger
}

// NewAggregator creates an Aggregator. srcs must already be sorted by
// configured priority; that order, not completion order, decides field
// precedence in the merge.
func NewAggregator(srcs []sources.Source, converter *rates.Converter, targetCurrency string, deadline time.Duration, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Aggregator{
		sources:   srcs,
		converter: converter,
		target:    strings.ToUpper(targetCurrency),
		deadline:  deadline,
		logger:    logger,
	}
}

// Sources returns the names of the configured sources in priority order.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.sources))
	for i, src := range a.sources {
		names[i] = src.Name()
	}
	return names
}

type fetchResult struct {
	idx    int
	record sources.Record
	err    error
}

// Lookup looks up a barcode and returns the merged Product.
// targetCurrency may be empty to use the configured default. The whole
// fan-out shares one deadline; sources still running when it elapses are
// abandoned and their eventual results discarded.
func (a *Aggregator) Lookup(ctx context.Context, barcode, targetCurrency string) (*Product, error) {
	normalized := sources.NormalizeBarcode(barcode)
	if normalized == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBarcode, barcode)
	}

	target := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if target == "" {
		target = a.target
	}

	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, a.deadline)
	defer cancel()

	// The channel is buffered to the fan-out width so abandoned sources
	// never block on send after the collector has moved on.
	results := make(chan fetchResult, len(a.sources))
	for i, src := range a.sources {
		go func(idx int, src sources.Source) {
			fetchStart := time.Now()
			record, err := src.Fetch(fetchCtx, normalized)
			metrics.RecordSourceFetch(src.Name(), fetchOutcome(err), time.Since(fetchStart))
			results <- fetchResult{idx: idx, record: record, err: err}
		}(i, src)
	}

	// Collect by source index so the merge sees records in priority order
	// no matter which source answered first.
	collected := make([]*sources.Record, len(a.sources))
	received := 0
collect:
	for received < len(a.sources) {
		select {
		case res := <-results:
			received++
			if res.err != nil {
				a.logFetchFailure(res.err)
				continue
			}
			record := res.record
			collected[res.idx] = &record
		case <-fetchCtx.Done():
			a.logger.Warn("Lookup deadline elapsed, abandoning unfinished sources",
				"barcode", normalized,
				"completed", received,
				"dispatched", len(a.sources),
			)
			break collect
		}
	}

	records := make([]sources.Record, 0, len(collected))
	for _, record := range collected {
		if record != nil && !record.Empty() {
			records = append(records, *record)
		}
	}

	if len(records) == 0 {
		metrics.RecordLookup("not_found", time.Since(start))
		return nil, ErrNotFound
	}

	// Merge runs under the caller's context, not the fetch deadline: a
	// deadline spent waiting on a slow source must not also starve the
	// converter of its cache refresh.
	product := Merge(ctx, records, target, a.converter, a.logger)
	if product.Empty() {
		// Possible when every contributed offer failed conversion and no
		// scalar fields came along with them.
		metrics.RecordLookup("not_found", time.Since(start))
		return nil, ErrNotFound
	}

	metrics.RecordLookup("ok", time.Since(start))
	a.logger.Info("Lookup complete",
		"barcode", normalized,
		"sources", product.DataSources,
		"offers", len(product.AllStores),
		"duration", time.Since(start).String(),
	)
	return product, nil
}

// logFetchFailure logs an adapter failure at a level matching its kind.
// Nothing here aborts the lookup; a failed source just contributes nothing.
func (a *Aggregator) logFetchFailure(err error) {
	var fetchErr *sources.FetchError
	if !errors.As(err, &fetchErr) {
		a.logger.Warn("Source fetch failed", "error", err.Error())
		return
	}

	switch fetchErr.Kind {
	case sources.FailAuth, sources.FailTransport:
		// Worth operator attention: credentials or connectivity.
		a.logger.Warn("Source fetch failed",
			"source", fetchErr.Source,
			"kind", string(fetchErr.Kind),
			"error", fetchErr.Error(),
		)
	default:
		a.logger.Debug("Source contributed nothing",
			"source", fetchErr.Source,
			"kind", string(fetchErr.Kind),
		)
	}
}

func fetchOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var fetchErr *sources.FetchError
	if errors.As(err, &fetchErr) {
		return string(fetchErr.Kind)
	}
	return "error"
}
