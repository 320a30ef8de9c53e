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

// FallbackFlightTotal is the round-trip price used when no price is found.
const FallbackFlightTotal = 450.0

// FlightSearch describes a round trip to price.
type FlightSearch struct {
	Origin            string
	Destination       string
	DepartureDate     string
	ReturnOrigin      string
	ReturnDestination string
	ReturnDate        string
}

// Query builds the natural-language search for the round trip.
func (s FlightSearch) Query() string {
	return fmt.Sprintf(
		"price of cheapest round-trip flights from %s to %s departing %s, returning from %s to %s on %s",
		s.Origin, s.Destination, s.DepartureDate, s.ReturnOrigin, s.ReturnDestination, s.ReturnDate,
	)
}

// FlightPricer prices round trips with a single search.
type FlightPricer struct {
	provider providers.Provider
	metrics  *obs.Metrics
	logger   *slog.Logger
}

// NewFlightPricer creates a new FlightPricer.
func NewFlightPricer(provider providers.Provider, metrics *obs.Metrics, logger *slog.Logger) *FlightPricer {
	return &FlightPricer{
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

// PriceFlights runs one search for the whole round trip and splits the total
// evenly between the two legs. Only a failing provider returns an error.
func (p *FlightPricer) PriceFlights(ctx context.Context, s FlightSearch) (trip.FlightQuote, error) {
	query := s.Query()
	p.logger.Info("searching for flights", "query", query)

	resp, err := p.provider.Query(ctx, query)
	if err != nil {
		return trip.FlightQuote{}, fmt.Errorf("flight search: %w", err)
	}

	quote := Extract(resp)
	if !quote.Found() || quote.Price == 0 {
		quote = trip.PriceQuote{Price: FallbackFlightTotal, Source: trip.SourceFallback}
		p.metrics.IncFallbacks(obs.FallbackFlight)
		p.logger.Info("no flight price found, using fallback", "price", FallbackFlightTotal)
	}

	leg := quote.Price / 2
	return trip.FlightQuote{
		Departure: trip.FlightLeg{
			Origin:      s.Origin,
			Destination: s.Destination,
			Date:        s.DepartureDate,
			Price:       leg,
			Airline:     airline(resp),
		},
		Return: trip.FlightLeg{
			Origin:      s.ReturnOrigin,
			Destination: s.ReturnDestination,
			Date:        s.ReturnDate,
			Price:       leg,
		},
		Source: quote.Source,
	}, nil
}

func airline(resp providers.Response) string {
	if resp.Kind != providers.KindRecord {
		return ""
	}
	name, _ := resp.Record["airline"].(string)
	return strings.TrimSpace(name)
}
