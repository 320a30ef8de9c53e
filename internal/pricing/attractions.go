package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/providers"
	"github.com/alex-user-go/tripplanner/internal/trip"
)

const (
	// MaxAttractions caps how many attractions the catalog keeps.
	MaxAttractions = 14
	// MaxAttractionFee is the highest entry fee accepted as plausible.
	MaxAttractionFee = 500.0

	minNameLength = 3
)

// titleKeys name the fields that can carry an attraction name.
var titleKeys = []string{"title", "name"}

// attractionLine matches "Name: 12", "Name $12", "Name €12.50" and similar.
var attractionLine = regexp.MustCompile(`([A-Za-z\s'-]+)\s*[:$€]?\s*(\d+\.?\d*)`)

var fallbackAttractions = []trip.Attraction{
	{Name: "Eiffel Tower", Fee: 32.0},
	{Name: "Louvre Museum", Fee: 23.0},
	{Name: "Palace of Versailles", Fee: 22.0},
	{Name: "Sainte-Chapelle", Fee: 13.0},
	{Name: "Musée d’Orsay", Fee: 17.0},
	{Name: "Centre Pompidou", Fee: 16.0},
	{Name: "Catacombs of Paris", Fee: 33.0},
	{Name: "Hôtel des Invalides", Fee: 18.0},
}

// FallbackAttractions returns the hand-curated list used when a search yields
// no usable attraction.
func FallbackAttractions() []trip.Attraction {
	out := make([]trip.Attraction, len(fallbackAttractions))
	copy(out, fallbackAttractions)
	return out
}

// Catalog discovers attractions for a destination.
type Catalog struct {
	provider providers.Provider
	metrics  *obs.Metrics
	logger   *slog.Logger
}

// NewCatalog creates a new Catalog.
func NewCatalog(provider providers.Provider, metrics *obs.Metrics, logger *slog.Logger) *Catalog {
	return &Catalog{
		provider: provider,
		metrics:  metrics,
		logger:   logger,
	}
}

// ListAttractions runs one search and returns at most MaxAttractions entries
// in discovery order. The result is never empty.
func (c *Catalog) ListAttractions(ctx context.Context, destination string) ([]trip.Attraction, error) {
	query := fmt.Sprintf("top %s attractions entry fees prices", destination)
	c.logger.Info("planning itinerary", "query", query)

	resp, err := c.provider.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("attraction search: %w", err)
	}

	attractions := ParseAttractions(resp)
	if len(attractions) == 0 {
		c.metrics.IncFallbacks(obs.FallbackAttractions)
		c.logger.Info("no attractions found, using fallback list", "destination", destination)
		return FallbackAttractions(), nil
	}

	return attractions, nil
}

// ParseAttractions extracts attractions from a search response. Identical
// responses always give identical, order-preserving results.
func ParseAttractions(resp providers.Response) []trip.Attraction {
	var found []trip.Attraction
	switch resp.Kind {
	case providers.KindList:
		found = fromRecords(resp.List)
	case providers.KindRecord:
		found = fromRecords([]providers.Record{resp.Record})
	case providers.KindText:
		found = fromText(resp.Text)
	}

	if len(found) > MaxAttractions {
		found = found[:MaxAttractions]
	}
	return found
}

func fromRecords(records []providers.Record) []trip.Attraction {
	var out []trip.Attraction
	for _, rec := range records {
		name, ok := recordTitle(rec)
		if !ok || !hasPriceKey(rec) {
			continue
		}
		// An unreadable price on a listed attraction counts as free entry.
		if a, ok := accept(name, Extract(rec).Price); ok {
			out = append(out, a)
		}
	}
	return out
}

func fromText(text string) []trip.Attraction {
	var out []trip.Attraction
	for _, line := range strings.Split(text, "\n") {
		for _, m := range attractionLine.FindAllStringSubmatch(line, -1) {
			fee, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			if a, ok := accept(m[1], fee); ok {
				out = append(out, a)
			}
		}
	}
	return out
}

func accept(name string, fee float64) (trip.Attraction, bool) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < minNameLength || fee < 0 || fee > MaxAttractionFee {
		return trip.Attraction{}, false
	}
	return trip.Attraction{Name: name, Fee: fee}, true
}

func recordTitle(rec providers.Record) (string, bool) {
	for _, key := range titleKeys {
		if s, ok := rec[key].(string); ok {
			return s, true
		}
	}
	return "", false
}

func hasPriceKey(rec providers.Record) bool {
	for _, key := range PriceKeys {
		if _, ok := rec[key]; ok {
			return true
		}
	}
	return false
}
