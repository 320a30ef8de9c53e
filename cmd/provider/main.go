package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

var errBackendUnavailable = errors.New("backend unavailable")

// topic is what a search query is about.
type topic int

const (
	topicOther topic = iota
	topicFlight
	topicHotel
	topicAttractions
)

// classify routes a free-text query the way the planner phrases them.
func classify(q string) topic {
	q = strings.ToLower(q)
	switch {
	case strings.Contains(q, "flight"):
		return topicFlight
	case strings.Contains(q, "hotel"):
		return topicHotel
	case strings.Contains(q, "attraction"):
		return topicAttractions
	default:
		return topicOther
	}
}

// wait blocks for d or until the request is gone.
func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

func main() {
	port := getEnv("PORT", "9001")
	backendType := getEnv("BACKEND_TYPE", "structured")

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var handler http.Handler

	switch backendType {
	case "structured":
		handler = NewStructured(logger)
	case "text":
		handler = NewText(logger)
	case "noisy":
		handler = NewNoisy(logger)
	default:
		logger.Error("unknown backend type", "type", backendType)
		os.Exit(1)
	}
	logger.Info("starting search backend", "type", backendType, "port", port)

	mux := http.NewServeMux()
	mux.Handle("/search", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write healthz response", "error", err)
		}
	})

	addr := ":" + port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
