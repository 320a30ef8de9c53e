package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alex-user-go/tripplanner/internal/middleware"
	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/planner"
	"github.com/alex-user-go/tripplanner/internal/report"
	"github.com/alex-user-go/tripplanner/internal/search/ratelimit"
	"github.com/alex-user-go/tripplanner/internal/trip"
)

const maxBodySize = 64 << 10

// Output formats accepted by the format parameter.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Planner produces trip plans.
type Planner interface {
	PlanTrip(ctx context.Context, req planner.Request) (*trip.Plan, error)
}

// Handler handles HTTP requests.
type Handler struct {
	planner     Planner
	rateLimiter *ratelimit.Limiter
	metrics     *obs.Metrics
	logger      *slog.Logger
}

// New creates a new Handler.
func New(p Planner, rateLimiter *ratelimit.Limiter, metrics *obs.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		planner:     p,
		rateLimiter: rateLimiter,
		metrics:     metrics,
		logger:      logger,
	}
}

// PlanResponse is the JSON body returned by /plan.
type PlanResponse struct {
	Plan  *trip.Plan `json:"plan"`
	Stats PlanStats  `json:"stats"`
}

// PlanStats contains request statistics.
type PlanStats struct {
	DurationMs int64 `json:"duration_ms"`
}

// PlanParams holds a validated planning request and the output format.
type PlanParams struct {
	Request planner.Request
	Format  string
}

// PlanHandler handles GET and POST /plan.
func (h *Handler) PlanHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	h.metrics.IncRequests()
	logger := middleware.Logger(r.Context())

	ip := ExtractIP(r)
	if !h.rateLimiter.Allow(ip) {
		logger.Warn("rate limit exceeded", "ip", ip)
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	params, err := ParsePlanParams(r)
	if err != nil {
		logger.Debug("invalid request parameters", "error", err, "ip", ip)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planner.PlanTrip(r.Context(), params.Request)
	switch {
	case err == nil:
	case errors.Is(err, planner.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, planner.ErrSearchUnavailable):
		logger.Error("plan failed", "error", err, "destination", params.Request.Destination, "ip", ip)
		writeError(w, http.StatusBadGateway, planner.ErrSearchUnavailable.Error())
		return
	default:
		logger.Error("plan failed", "error", err, "destination", params.Request.Destination, "ip", ip)
		writeError(w, http.StatusInternalServerError, "planning failed")
		return
	}

	if params.Format == FormatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprintln(w, report.Render(plan)); err != nil {
			logger.Error("failed to write report", "error", err)
		}
		return
	}

	response := PlanResponse{
		Plan:  plan,
		Stats: PlanStats{DurationMs: time.Since(startTime).Milliseconds()},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Can't change status after WriteHeader, just log
		logger.Error("failed to encode response", "error", err)
	}
}

// ParsePlanParams reads the request from the query string (GET) or a JSON
// body (POST). The format always comes from the query string.
func ParsePlanParams(r *http.Request) (*PlanParams, error) {
	query := r.URL.Query()

	var req planner.Request
	switch r.Method {
	case http.MethodPost:
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid JSON body")
		}
	default:
		req = planner.Request{
			Origin:        query.Get("origin"),
			Destination:   query.Get("destination"),
			DepartureDate: query.Get("depart"),
			ReturnDate:    query.Get("return"),
			Budget:        query.Get("budget"),
		}
	}

	req.Origin = strings.TrimSpace(req.Origin)
	if req.Origin == "" {
		return nil, fmt.Errorf("origin is required")
	}
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Destination == "" {
		return nil, fmt.Errorf("destination is required")
	}
	req.DepartureDate = strings.TrimSpace(req.DepartureDate)
	req.ReturnDate = strings.TrimSpace(req.ReturnDate)
	req.Budget = strings.TrimSpace(req.Budget)

	format := strings.ToLower(strings.TrimSpace(query.Get("format")))
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatText:
	default:
		return nil, fmt.Errorf("format must be json or text")
	}

	return &PlanParams{Request: req, Format: format}, nil
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
