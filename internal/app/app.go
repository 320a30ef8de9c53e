package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alex-user-go/tripplanner/internal/config"
	"github.com/alex-user-go/tripplanner/internal/handler"
	"github.com/alex-user-go/tripplanner/internal/itinerary"
	"github.com/alex-user-go/tripplanner/internal/middleware"
	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/planner"
	"github.com/alex-user-go/tripplanner/internal/providers"
	"github.com/alex-user-go/tripplanner/internal/search"
	"github.com/alex-user-go/tripplanner/internal/search/cache"
	"github.com/alex-user-go/tripplanner/internal/search/ratelimit"
)

// NewLogger builds a slog logger at the named level ("debug", "info",
// "warn", "error"). JSON output is used for the server, text for the CLI.
func NewLogger(w io.Writer, level string, json bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Providers builds the configured search backends in priority order:
// SerpAPI first when an API key is set, then the plain HTTP backends.
func Providers(cfg *config.Config) []providers.Provider {
	var list []providers.Provider
	if cfg.SerpAPI.APIKey != "" {
		list = append(list, providers.NewSerpAPI(providers.SerpAPIOptions{
			APIKey:            cfg.SerpAPI.APIKey,
			Engine:            cfg.SerpAPI.Engine,
			BaseURL:           cfg.SerpAPI.BaseURL,
			Timeout:           cfg.Search.Timeout,
			RequestsPerSecond: cfg.SerpAPI.RequestsPerSecond,
		}))
	}
	for i, url := range cfg.Search.Backends {
		list = append(list, providers.NewHTTPProvider(fmt.Sprintf("backend%d", i+1), url, cfg.Search.Timeout))
	}
	return list
}

// NewEngine wires search backends, the response cache and the planner. The
// returned close function releases the cache store.
func NewEngine(ctx context.Context, cfg *config.Config, metrics *obs.Metrics, logger *slog.Logger) (*planner.Engine, func(), error) {
	backends := Providers(cfg)
	if len(backends) == 0 {
		return nil, nil, errors.New("no search backends configured")
	}
	aggregator := search.NewAggregator(backends, cfg.Search.Timeout, metrics, logger)

	var (
		store   cache.Store
		closeFn func()
	)
	if cfg.Cache.RedisAddr != "" {
		rs, err := cache.DialRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis search cache", "addr", cfg.Cache.RedisAddr)
		store = rs
		closeFn = func() { _ = rs.Close() }
	} else {
		ms := cache.NewMemoryStore()
		store = ms
		closeFn = ms.Close
	}

	cached := cache.NewProvider(aggregator, cache.New(store, cfg.Cache.TTL), metrics)
	allocator := itinerary.New(cfg.Planner.Days, cfg.Planner.DailyTravelCost)

	return planner.New(cached, allocator, metrics, logger), closeFn, nil
}

// Run initializes and runs the HTTP service until SIGINT or SIGTERM.
func Run(cfg *config.Config) error {
	logger := NewLogger(os.Stdout, cfg.LogLevel, true)
	slog.SetDefault(logger)

	metrics := obs.NewMetrics(logger)

	engine, closeEngine, err := NewEngine(context.Background(), cfg, metrics, logger)
	if err != nil {
		return err
	}
	defer closeEngine()

	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	defer limiter.Close()

	h := handler.New(engine, limiter, metrics, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      Routes(h, metrics, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// Routes registers the service endpoints behind the logging middleware.
func Routes(h *handler.Handler, metrics *obs.Metrics, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /plan", h.PlanHandler)
	mux.HandleFunc("POST /plan", h.PlanHandler)
	mux.HandleFunc("GET /healthz", obs.HealthHandler(logger))
	mux.HandleFunc("GET /metrics", metrics.MetricsHandler())

	return middleware.Logging(logger)(mux)
}
