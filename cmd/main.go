package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/haven/internal/api"
	"github.com/UnknownOlympus/haven/internal/config"
	"github.com/UnknownOlympus/haven/internal/extract"
	"github.com/UnknownOlympus/haven/internal/geocoding"
	"github.com/UnknownOlympus/haven/internal/metrics"
	"github.com/UnknownOlympus/haven/internal/repository"
	"github.com/UnknownOlympus/haven/internal/retrieval"
	"github.com/UnknownOlympus/haven/internal/service"
	"github.com/UnknownOlympus/haven/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

// pinger is anything the health check can probe.
type pinger interface {
	Ping(ctx context.Context) error
}

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	checks := map[string]pinger{}

	// The catalog database is optional for the vector DB retriever with metadata hydration.
	var repo *repository.Repository
	if cfg.Database.Host != "" {
		dtb, err := repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()

		repo = repository.NewRepository(dtb, logger)
		checks["database"] = repo
	}

	// Create geocoding provider using factory pattern based on configuration.
	providerType, err := geocoding.ParseProviderType(cfg.Geocoder.ProviderType)
	if err != nil {
		log.Fatalf("Invalid geocoding provider: %v", err)
	}
	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      providerType,
		APIKey:    cfg.Geocoder.APIKey,
		RateLimit: cfg.Geocoder.RateLimit,
		Language:  cfg.Geocoder.Language,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", providerType)

	region := cfg.Geocoder.Region
	resolver := geocoding.NewResolver(
		logger, geoProvider, string(providerType), &region, cfg.Geocoder.Timeout, appMetrics,
	)

	retriever, closeIndex, err := newRetriever(ctx, cfg, repo, logger, appMetrics)
	if err != nil {
		log.Fatalf("Failed to create retriever: %v", err)
	}
	defer closeIndex()

	sessions, closeSessions, err := newSessionStore(cfg, logger, checks)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	defer closeSessions()

	var expander service.Expander
	if cfg.Search.ExpandLandmarks {
		expander = retrieval.NewQueryExpander(retrieval.DefaultExpansions)
	}

	searchService := service.NewSearchService(
		logger,
		extract.MustNew(region.Terms()...),
		resolver,
		retriever,
		appMetrics,
		service.Options{
			Defaults: session.Defaults{
				RadiusKm: cfg.Search.DefaultRadiusKm,
				Count:    cfg.Search.DefaultCount,
			},
			MaxCount:  cfg.Search.MaxCount,
			OverFetch: cfg.Search.OverFetch,
			Expander:  expander,
		},
	)

	deps := &api.Dependencies{
		Search:   searchService,
		Geocoder: resolver,
		Sessions: sessions,
		Locks:    session.NewLocker(),
		Log:      logger,
	}
	if repo != nil {
		deps.Catalog = repo
	}

	app := fiber.New(fiber.Config{
		AppName:   "Haven",
		BodyLimit: 64 * 1024,
	})
	app.Use(recover.New())
	api.SetupRoutes(app, deps, cfg.RequestTimeout)

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, checks, cfg.Port)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		logger.InfoContext(ctx, "Starting API server", "addr", addr)
		if err := app.Listen(addr); err != nil {
			logger.ErrorContext(ctx, "API server failed", "error", err)
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Forced API shutdown", "error", err)
	}

	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// newRetriever builds the semantic retriever selected by configuration. The returned
// function releases index resources.
func newRetriever(
	ctx context.Context,
	cfg *config.Config,
	repo *repository.Repository,
	log *slog.Logger,
	appMetrics *metrics.Metrics,
) (*retrieval.Retriever, func(), error) {
	switch cfg.Retriever.Type {
	case config.RetrieverBleve:
		if repo == nil {
			return nil, nil, errors.New("the bleve retriever needs the catalog database (DB_HOST)")
		}
		facilities, err := repo.ListFacilities(ctx)
		if err != nil {
			return nil, nil, err
		}
		index, err := retrieval.NewBleveIndex(facilities, log)
		if err != nil {
			return nil, nil, err
		}
		hydrator := retrieval.NewCatalogHydrator(retrieval.NewMemoryCatalog(facilities), log)
		closeIndex := func() {
			if cerr := index.Close(); cerr != nil {
				log.Error("Failed to close local index", "error", cerr)
			}
		}

		return retrieval.NewRetriever(log, index, hydrator, cfg.Retriever.Timeout, appMetrics), closeIndex, nil
	default:
		var embedder retrieval.Embedder
		if cfg.Retriever.EmbeddingModel != "" {
			e, err := retrieval.NewLangchainEmbedder(
				cfg.Retriever.EmbeddingHost, cfg.Retriever.EmbeddingModel, cfg.Retriever.EmbeddingToken, log,
			)
			if err != nil {
				return nil, nil, err
			}
			embedder = e
		}

		index := retrieval.NewVectorDBIndex(
			&http.Client{}, cfg.Retriever.VectorDBURL, cfg.Retriever.Collection, embedder, log,
		)

		var hydrator retrieval.Hydrator = retrieval.NewMetadataHydrator(log)
		if cfg.Retriever.Hydrate == config.HydrateCatalog {
			if repo == nil {
				return nil, nil, errors.New("catalog hydration needs the catalog database (DB_HOST)")
			}
			hydrator = retrieval.NewCatalogHydrator(repo, log)
		}

		return retrieval.NewRetriever(log, index, hydrator, cfg.Retriever.Timeout, appMetrics), func() {}, nil
	}
}

// newSessionStore selects valkey when an address is configured and the in-process cache otherwise.
func newSessionStore(
	cfg *config.Config,
	log *slog.Logger,
	checks map[string]pinger,
) (session.Store, func(), error) {
	if cfg.Session.ValkeyAddr == "" {
		log.Warn("No valkey address configured, sessions are kept in memory")
		return session.NewCacheStore(session.NewMemoryCache(), cfg.Session.TTL, log), func() {}, nil
	}

	cache, err := session.NewValkeyCache(cfg.Session.ValkeyAddr)
	if err != nil {
		return nil, nil, err
	}
	checks["valkey"] = cache

	return session.NewCacheStore(cache, cfg.Session.TTL, log), cache.Close, nil
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - checks: Dependencies probed by /healthz.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	checks map[string]pinger,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		for name, check := range checks {
			if err := check.Ping(req.Context()); err != nil {
				log.WarnContext(ctx, "Health check failed", "dependency", name, "error", err)
				status, body = http.StatusServiceUnavailable, name+" ping failed"
				break
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
