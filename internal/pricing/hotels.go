package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/providers"
	"github.com/alex-user-go/tripplanner/internal/trip"
)

// FallbackNightlyRate is the per-night price used when no price is found.
const FallbackNightlyRate = 80.0

// HotelPricer finds a nightly hotel rate. It never multiplies by the number
// of nights; the per-night rate is the canonical unit.
type HotelPricer struct {
	provider providers.Provider
	metrics  *obs.Metrics
	logger   *slog.Logger
}

// NewHotelPricer creates a new HotelPricer.
func NewHotelPricer(provider providers.Provider, metrics *obs.Metrics, logger *slog.Logger) *HotelPricer {
	return &HotelPricer{
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

// PriceHotel runs one search and returns the nightly rate for the stay.
func (p *HotelPricer) PriceHotel(ctx context.Context, destination, checkin, checkout string) (trip.HotelQuote, error) {
	query := fmt.Sprintf("price of budget hotels in %s from %s to %s", destination, checkin, checkout)
	p.logger.Info("searching for hotels", "query", query)

	resp, err := p.provider.Query(ctx, query)
	if err != nil {
		return trip.HotelQuote{}, fmt.Errorf("hotel search: %w", err)
	}

	quote := Extract(resp)
	if !quote.Found() || quote.Price == 0 {
		quote = trip.PriceQuote{Price: FallbackNightlyRate, Source: trip.SourceFallback}
		p.metrics.IncFallbacks(obs.FallbackHotel)
		p.logger.Info("no hotel price found, using fallback", "price_per_night", FallbackNightlyRate)
	}

	return trip.HotelQuote{
		Destination:   destination,
		Checkin:       checkin,
		Checkout:      checkout,
		PricePerNight: quote.Price,
		Name:          hotelName(resp, destination),
		Source:        quote.Source,
	}, nil
}

func hotelName(resp providers.Response, destination string) string {
	if resp.Kind == providers.KindRecord {
		for _, key := range []string{"name", "title"} {
			if name, ok := resp.Record[key].(string); ok && strings.TrimSpace(name) != "" {
				return strings.TrimSpace(name)
			}
		}
	}
	return "Budget hotel in " + destination
}
