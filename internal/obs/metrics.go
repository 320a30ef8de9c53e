package obs

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Fallback kinds counted by IncFallbacks.
const (
	FallbackFlight      = "flight"
	FallbackHotel       = "hotel"
	FallbackAttractions = "attractions"
)

// Metrics tracks application metrics using atomic counters.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests            atomic.Int64
	plans               atomic.Int64
	planFailures        atomic.Int64
	cacheHits           atomic.Int64
	providerErrors      atomic.Int64
	flightFallbacks     atomic.Int64
	hotelFallbacks      atomic.Int64
	attractionFallbacks atomic.Int64
	logger              *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	if m != nil {
		m.requests.Add(1)
	}
}

// IncPlans increments the completed plan counter.
func (m *Metrics) IncPlans() {
	if m != nil {
		m.plans.Add(1)
	}
}

// IncPlanFailures increments the failed plan counter.
func (m *Metrics) IncPlanFailures() {
	if m != nil {
		m.planFailures.Add(1)
	}
}

// IncCacheHits increments the cache hits counter.
func (m *Metrics) IncCacheHits() {
	if m != nil {
		m.cacheHits.Add(1)
	}
}

// IncProviderErrors increments the provider errors counter.
func (m *Metrics) IncProviderErrors() {
	if m != nil {
		m.providerErrors.Add(1)
	}
}

// IncFallbacks counts a fallback price substitution of the given kind.
func (m *Metrics) IncFallbacks(kind string) {
	if m == nil {
		return
	}
	switch kind {
	case FallbackFlight:
		m.flightFallbacks.Add(1)
	case FallbackHotel:
		m.hotelFallbacks.Add(1)
	case FallbackAttractions:
		m.attractionFallbacks.Add(1)
	}
}

// Snapshot returns current metric values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Requests:            m.requests.Load(),
		Plans:               m.plans.Load(),
		PlanFailures:        m.planFailures.Load(),
		CacheHits:           m.cacheHits.Load(),
		ProviderErrors:      m.providerErrors.Load(),
		FlightFallbacks:     m.flightFallbacks.Load(),
		HotelFallbacks:      m.hotelFallbacks.Load(),
		AttractionFallbacks: m.attractionFallbacks.Load(),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	Requests            int64
	Plans               int64
	PlanFailures        int64
	CacheHits           int64
	ProviderErrors      int64
	FlightFallbacks     int64
	HotelFallbacks      int64
	AttractionFallbacks int64
}

type counter struct {
	name  string
	help  string
	value int64
}

func (s MetricsSnapshot) counters() []counter {
	return []counter{
		{"requests_total", "Total number of requests", s.Requests},
		{"plans_total", "Total number of trip plans produced", s.Plans},
		{"plan_failures_total", "Total number of trip plans aborted by search failures", s.PlanFailures},
		{"cache_hits_total", "Total number of search cache hits", s.CacheHits},
		{"provider_errors_total", "Total number of search provider errors", s.ProviderErrors},
		{"flight_fallbacks_total", "Flight searches priced with the fallback total", s.FlightFallbacks},
		{"hotel_fallbacks_total", "Hotel searches priced with the fallback nightly rate", s.HotelFallbacks},
		{"attraction_fallbacks_total", "Attraction searches replaced by the fallback list", s.AttractionFallbacks},
	}
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}
}

// MetricsHandler returns a handler for /metrics requests in Prometheus format.
func (m *Metrics) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.Snapshot()

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)

		for _, c := range snapshot.counters() {
			if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", c.name, c.help, c.name, c.name, c.value); err != nil {
				m.logger.Error("failed to write metrics", "error", err)
				return
			}
		}
	}
}
