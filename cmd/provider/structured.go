package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type attractionRecord struct {
	Title          string  `json:"title"`
	ExtractedPrice float64 `json:"extracted_price"`
}

// Structured answers with JSON records and lists, 50-200ms latency and a 10%
// failure rate.
type Structured struct {
	dice        *dice
	failureRate float64
	logger      *slog.Logger
}

// NewStructured creates a Structured backend.
func NewStructured(logger *slog.Logger) *Structured {
	return &Structured{dice: newDice(0), failureRate: 0.1, logger: logger}
}

func (p *Structured) answer(q string) any {
	switch classify(q) {
	case topicFlight:
		return map[string]any{
			"price":   p.dice.price(380, 900),
			"airline": "Norse Atlantic Airways",
		}
	case topicHotel:
		return map[string]any{
			"name":  "Hotel Le Petit Budget",
			"price": p.dice.price(60, 140),
		}
	case topicAttractions:
		return []attractionRecord{
			{Title: "Eiffel Tower", ExtractedPrice: 32},
			{Title: "Louvre Museum", ExtractedPrice: 22},
			{Title: "Musée d'Orsay", ExtractedPrice: 16},
			{Title: "Arc de Triomphe", ExtractedPrice: 16},
			{Title: "Sainte-Chapelle", ExtractedPrice: 13},
			{Title: "Palace of Versailles", ExtractedPrice: 21},
		}
	default:
		return map[string]any{}
	}
}

// ServeHTTP handles HTTP requests for this backend.
func (p *Structured) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "missing q", http.StatusBadRequest)
		return
	}

	if err := wait(r.Context(), p.dice.latency(50, 150)); err != nil {
		return
	}
	if p.dice.chance(p.failureRate) {
		http.Error(w, errBackendUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(p.answer(q)); err != nil {
		p.logger.Error("failed to encode response", "error", err)
	}
}
