// Package planner composes pricing, allocation and reconciliation into a
// single trip plan.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alex-user-go/tripplanner/internal/budget"
	"github.com/alex-user-go/tripplanner/internal/itinerary"
	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/pricing"
	"github.com/alex-user-go/tripplanner/internal/providers"
	"github.com/alex-user-go/tripplanner/internal/trip"
)

var (
	// ErrInvalidRequest is returned when required request fields are missing.
	ErrInvalidRequest = errors.New("invalid trip request")
	// ErrSearchUnavailable is returned when the search backend failed outright.
	// No partial plan is produced in that case.
	ErrSearchUnavailable = errors.New("trip search unavailable")
)

// Request is a planning request. Dates are opaque tokens; Budget may carry
// currency symbols or separators.
type Request struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"depart"`
	ReturnDate    string `json:"return"`
	Budget        string `json:"budget"`
}

// Validate checks that the request names both ends of the trip.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Origin) == "" {
		return fmt.Errorf("%w: origin is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	return nil
}

// Engine runs the planning pipeline.
type Engine struct {
	flights   *pricing.FlightPricer
	hotels    *pricing.HotelPricer
	catalog   *pricing.Catalog
	allocator itinerary.Allocator
	metrics   *obs.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an Engine whose pricers all query provider.
func New(provider providers.Provider, allocator itinerary.Allocator, metrics *obs.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		flights:   pricing.NewFlightPricer(provider, metrics, logger),
		hotels:    pricing.NewHotelPricer(provider, metrics, logger),
		catalog:   pricing.NewCatalog(provider, metrics, logger),
		allocator: allocator,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// PlanTrip prices flights, hotel and attractions, lays the attractions out
// over the trip and reconciles every cost against the requested budget.
//
// Missing or unreadable prices never fail a plan; fallbacks are used. Only a
// failing search backend aborts the run with ErrSearchUnavailable.
func (e *Engine) PlanTrip(ctx context.Context, req Request) (*trip.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e.logger.Info("planning trip",
		"origin", req.Origin,
		"destination", req.Destination,
		"depart", req.DepartureDate,
		"return", req.ReturnDate,
	)

	plan, err := e.plan(ctx, req)
	if err != nil {
		e.metrics.IncPlanFailures()
		e.logger.Error("trip planning failed", "destination", req.Destination, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
	}

	e.metrics.IncPlans()
	e.logger.Info("trip planned",
		"plan_id", plan.ID,
		"total_spent", plan.Budget.TotalSpent.StringFixed(2),
		"remaining", plan.Budget.Remaining.StringFixed(2),
	)
	return plan, nil
}

func (e *Engine) plan(ctx context.Context, req Request) (*trip.Plan, error) {
	flight, err := e.flights.PriceFlights(ctx, pricing.FlightSearch{
		Origin:            req.Origin,
		Destination:       req.Destination,
		DepartureDate:     req.DepartureDate,
		ReturnOrigin:      req.Destination,
		ReturnDestination: req.Origin,
		ReturnDate:        req.ReturnDate,
	})
	if err != nil {
		return nil, err
	}

	hotel, err := e.hotels.PriceHotel(ctx, req.Destination, req.DepartureDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	attractions, err := e.catalog.ListAttractions(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	days := e.allocator.Allocate(req.Destination, attractions)

	breakdown := budget.Reconcile(
		flight.Total(),
		hotel.PricePerNight,
		days.Total(),
		req.Budget,
		len(days.Days),
	)

	return &trip.Plan{
		ID:        uuid.NewString(),
		Flight:    flight,
		Hotel:     hotel,
		Itinerary: days,
		Budget:    breakdown,
		CreatedAt: e.now().UTC(),
	}, nil
}
