package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/ksaccary/barcode-app/pkg/config"
	"github.com/ksaccary/barcode-app/pkg/logging"
	"github.com/ksaccary/barcode-app/pkg/lookup"
	"github.com/ksaccary/barcode-app/pkg/lookup/rates"
	"github.com/ksaccary/barcode-app/pkg/lookup/sources"
	"github.com/ksaccary/barcode-app/pkg/metrics"
	"github.com/ksaccary/barcode-app/pkg/server/api"
	"github.com/ksaccary/barcode-app/pkg/version"

	// Import providers to register them
	_ "github.com/ksaccary/barcode-app/pkg/lookup/sources/providers"
)

var (
	configFile = flag.String("config", "config/config.yaml", "Path to configuration file")
	showVer    = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("barcode-app version %s\n", version.Version)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, err := logging.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)

	logger.Info("Starting barcode-app", "version", version.Version)

	// Initialize metrics
	if cfg.Metrics.Enabled {
		metrics.Init()
		go func() {
			logger.Info("Starting metrics server", "addr", cfg.Metrics.Addr)
			if err := metrics.ServeHTTP(cfg.Metrics.Addr); err != nil {
				logger.Error("Metrics server failed", "error", err.Error())
			}
		}()
	}

	// Build product data sources in priority order
	srcs, err := buildSources(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize sources", "error", err.Error())
	}

	// Build the rate converter
	rateProvider, err := rates.NewExchangeRateAPIProvider(cfg.Rates.APIKey, cfg.Rates.BaseURL, cfg.Rates.Timeout.ToDuration())
	if err != nil {
		logger.Fatal("Failed to initialize rate provider", "error", err.Error())
	}
	converter := rates.NewConverter(rateProvider, cfg.Rates.CacheTTL.ToDuration(), logger)

	aggregator := lookup.NewAggregator(
		srcs,
		converter,
		cfg.Lookup.TargetCurrency,
		cfg.Lookup.Deadline.ToDuration(),
		logger,
	)

	logger.Info("Lookup engine ready",
		"sources", aggregator.Sources(),
		"target_currency", cfg.Lookup.TargetCurrency,
		"deadline", cfg.Lookup.Deadline.ToDuration().String(),
	)

	// Client-facing rate limit (disabled when not configured)
	var limiter *rate.Limiter
	if cfg.Server.RateLimit.Enabled {
		window := cfg.Server.RateLimit.Window.ToDuration()
		limiter = rate.NewLimiter(
			rate.Limit(float64(cfg.Server.RateLimit.Requests)/window.Seconds()),
			cfg.Server.RateLimit.Requests,
		)
	}

	server := api.NewServer(cfg.Server.HTTP.Addr, aggregator, limiter, logger)

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("HTTP server failed", "error", err.Error())
		}
	case sig := <-sigCh:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err.Error())
	}

	logger.Info("Shutdown complete")
}

// buildSources constructs the enabled sources from configuration, sorted
// by priority (lowest value first = highest merge precedence).
func buildSources(cfg *config.Config, logger *logging.Logger) ([]sources.Source, error) {
	enabled := make([]config.SourceConfig, 0, len(cfg.Sources))
	for _, sc := range cfg.Sources {
		if sc.Enabled {
			enabled = append(enabled, sc)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	srcs := make([]sources.Source, 0, len(enabled))
	for _, sc := range enabled {
		sourceConfig := make(map[string]interface{}, len(sc.Config)+1)
		for k, v := range sc.Config {
			sourceConfig[k] = v
		}
		sourceConfig["logger"] = logger

		src, err := sources.Create(sc.Type, sc.Name, sourceConfig)
		if err != nil {
			return nil, fmt.Errorf("source %s.%s: %w", sc.Type, sc.Name, err)
		}
		srcs = append(srcs, src)
	}
	return srcs, nil
}
