package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Text answers with free-text snippets, the way a search engine's answer box
// reads, with 80-260ms latency and a 10% failure rate.
type Text struct {
	dice        *dice
	failureRate float64
	logger      *slog.Logger
}

// NewText creates a Text backend.
func NewText(logger *slog.Logger) *Text {
	return &Text{dice: newDice(0), failureRate: 0.1, logger: logger}
}

func (p *Text) answer(q string) string {
	switch classify(q) {
	case topicFlight:
		return fmt.Sprintf("Round-trip flights start at %s with several carriers.", formatUSD(p.dice.price(400, 950)))
	case topicHotel:
		return fmt.Sprintf("Budget hotels from %s per night, taxes included.", formatUSD(p.dice.price(55, 120)))
	case topicAttractions:
		return strings.Join([]string{
			"Eiffel Tower: 29.40",
			"Louvre Museum: 22",
			"Catacombs of Paris: 29",
			"Centre Pompidou: 15",
			"Notre-Dame Towers: 16",
		}, "\n")
	default:
		return ""
	}
}

// ServeHTTP handles HTTP requests for this backend.
func (p *Text) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "missing q", http.StatusBadRequest)
		return
	}

	if err := wait(r.Context(), p.dice.latency(80, 180)); err != nil {
		return
	}
	if p.dice.chance(p.failureRate) {
		http.Error(w, errBackendUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, p.answer(q)); err != nil {
		p.logger.Error("failed to write response", "error", err)
	}
}

func formatUSD(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
