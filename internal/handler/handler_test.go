package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/tripplanner/internal/handler"
	"github.com/alex-user-go/tripplanner/internal/itinerary"
	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/planner"
	"github.com/alex-user-go/tripplanner/internal/providers"
	"github.com/alex-user-go/tripplanner/internal/search"
	"github.com/alex-user-go/tripplanner/internal/search/ratelimit"
)

const parisQuery = "origin=New+York+JFK&destination=Paris+CDG&depart=March+20th&return=March+27th&budget=%243000"

// emptyProvider finds nothing, so every plan is built from fallbacks.
type emptyProvider struct{}

func (emptyProvider) Name() string { return "empty" }

func (emptyProvider) Query(context.Context, string) (providers.Response, error) {
	return providers.Response{Kind: providers.KindEmpty}, nil
}

// failingProvider always returns an error.
type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) Query(context.Context, string) (providers.Response, error) {
	return providers.Response{}, errors.New("provider error")
}

func newHandler(t *testing.T, p providers.Provider) (*handler.Handler, *ratelimit.Limiter) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := obs.NewMetrics(logger)
	limiter := ratelimit.New(10, time.Minute)
	t.Cleanup(limiter.Close)

	aggregator := search.NewAggregator([]providers.Provider{p}, 2*time.Second, metrics, logger)
	engine := planner.New(aggregator, itinerary.Default(), metrics, logger)
	return handler.New(engine, limiter, metrics, logger), limiter
}

func TestHandler_PlanHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		setupRateLimit func(*ratelimit.Limiter, string)
		wantStatus     int
		wantError      string
	}{
		{
			name:       "successful GET",
			method:     http.MethodGet,
			target:     "/plan?" + parisQuery,
			wantStatus: http.StatusOK,
		},
		{
			name:       "successful POST",
			method:     http.MethodPost,
			target:     "/plan",
			body:       `{"origin":"New York JFK","destination":"Paris CDG","depart":"March 20th","return":"March 27th","budget":"$3000"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing origin",
			method:     http.MethodGet,
			target:     "/plan?destination=Paris",
			wantStatus: http.StatusBadRequest,
			wantError:  "origin is required",
		},
		{
			name:       "blank destination",
			method:     http.MethodGet,
			target:     "/plan?origin=JFK&destination=%20%20",
			wantStatus: http.StatusBadRequest,
			wantError:  "destination is required",
		},
		{
			name:       "bad format",
			method:     http.MethodGet,
			target:     "/plan?" + parisQuery + "&format=xml",
			wantStatus: http.StatusBadRequest,
			wantError:  "format must be json or text",
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			target:     "/plan",
			body:       `{"origin":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid JSON body",
		},
		{
			name:   "rate limit exceeded",
			method: http.MethodGet,
			target: "/plan?" + parisQuery,
			setupRateLimit: func(l *ratelimit.Limiter, ip string) {
				for i := 0; i < 10; i++ {
					l.Allow(ip)
				}
			},
			wantStatus: http.StatusTooManyRequests,
			wantError:  "rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, limiter := newHandler(t, emptyProvider{})

			ip := "192.168.1.1"
			if tt.setupRateLimit != nil {
				tt.setupRateLimit(limiter, ip)
			}

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.RemoteAddr = ip + ":12345"
			w := httptest.NewRecorder()

			h.PlanHandler(w, req)

			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantError != "" {
				var errResp map[string]string
				require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
				assert.Equal(t, tt.wantError, errResp["error"])
				return
			}

			var resp handler.PlanResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			require.NotNil(t, resp.Plan)
			assert.NotEmpty(t, resp.Plan.ID)
			assert.Equal(t, "Paris CDG", resp.Plan.Itinerary.Destination)
			assert.True(t, resp.Plan.Budget.Remaining.Equal(decimal.RequireFromString("1763.5")))
			assert.GreaterOrEqual(t, resp.Stats.DurationMs, int64(0))
		})
	}
}

func TestHandler_PlanHandler_TextFormat(t *testing.T) {
	h, _ := newHandler(t, emptyProvider{})

	req := httptest.NewRequest(http.MethodGet, "/plan?"+parisQuery+"&format=text", nil)
	w := httptest.NewRecorder()
	h.PlanHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "Here's your 7-day itinerary for your trip to Paris CDG:")
	assert.Contains(t, w.Body.String(), "- Remaining Budget: $1763.50")
}

func TestHandler_PlanHandler_ProviderError(t *testing.T) {
	h, _ := newHandler(t, failingProvider{})

	req := httptest.NewRequest(http.MethodGet, "/plan?"+parisQuery, nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()

	h.PlanHandler(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var errResp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, "trip search unavailable", errResp["error"])
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		wantIP     string
	}{
		{
			name:       "X-Forwarded-For single IP",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195"},
			remoteAddr: "192.168.1.1:12345",
			wantIP:     "203.0.113.195",
		},
		{
			name:       "X-Forwarded-For multiple IPs",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18, 150.172.238.178"},
			remoteAddr: "192.168.1.1:12345",
			wantIP:     "203.0.113.195",
		},
		{
			name:       "X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.50"},
			remoteAddr: "192.168.1.1:12345",
			wantIP:     "203.0.113.50",
		},
		{
			name:       "X-Forwarded-For takes precedence",
			headers:    map[string]string{"X-Forwarded-For": "1.1.1.1", "X-Real-IP": "2.2.2.2"},
			remoteAddr: "192.168.1.1:12345",
			wantIP:     "1.1.1.1",
		},
		{
			name:       "fallback to RemoteAddr",
			remoteAddr: "192.168.1.1:12345",
			wantIP:     "192.168.1.1",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.1.1",
			wantIP:     "192.168.1.1",
		},
		{
			name:       "IPv6 RemoteAddr",
			remoteAddr: "[::1]:12345",
			wantIP:     "::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.wantIP, handler.ExtractIP(req))
		})
	}
}

func TestParsePlanParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantFormat string
		wantError  string
	}{
		{name: "defaults to json", query: parisQuery, wantFormat: handler.FormatJSON},
		{name: "text format", query: parisQuery + "&format=TEXT", wantFormat: handler.FormatText},
		{name: "budget optional", query: "origin=JFK&destination=Rome", wantFormat: handler.FormatJSON},
		{name: "empty origin", query: "origin=&destination=Rome", wantError: "origin is required"},
		{name: "missing destination", query: "origin=JFK", wantError: "destination is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/plan?"+tt.query, nil)
			params, err := handler.ParsePlanParams(req)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantError, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, params.Format)
		})
	}
}

func TestParsePlanParams_TrimsFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/plan?origin=%20JFK%20&destination=Rome&budget=%20%242%2C500%20", nil)
	params, err := handler.ParsePlanParams(req)
	require.NoError(t, err)

	assert.Equal(t, "JFK", params.Request.Origin)
	assert.Equal(t, "$2,500", params.Request.Budget)
}
