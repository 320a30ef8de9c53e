package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Noisy is an unreliable backend: 100-500ms latency, a 30% failure rate and
// answers that are often missing prices, out of range or malformed. It keeps
// every fallback path in the planner busy.
type Noisy struct {
	dice        *dice
	failureRate float64
	logger      *slog.Logger
}

// NewNoisy creates a Noisy backend.
func NewNoisy(logger *slog.Logger) *Noisy {
	return &Noisy{dice: newDice(0), failureRate: 0.3, logger: logger}
}

var noisyAnswers = map[topic][]string{
	topicFlight: {
		"Prices vary, check the airline website.",
		`{"price": "call for quote", "airline": "Unknown"}`,
		`{"cost": 0}`,
		"Flights from 1,240 USD",
	},
	topicHotel: {
		"No availability for the selected dates.",
		`{"name": "Hostel", "price": "N/A"}`,
		`[{"title": "Hotel A"}]`,
		"{broken json",
	},
	topicAttractions: {
		"Free entry to most museums on the first Sunday.",
		"VIP skip the line: 999\nXY: 5\nLouvre Museum: 22",
		`[{"title": "Eiffel Tower", "price": "varies"}, {"title": "Ok", "price": 3}]`,
		"",
	},
}

func (p *Noisy) answer(q string) (string, string) {
	options, ok := noisyAnswers[classify(q)]
	if !ok {
		return "", "text/plain; charset=utf-8"
	}
	body := options[p.dice.intn(len(options))]
	contentType := "text/plain; charset=utf-8"
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		contentType = "application/json"
	}
	return body, contentType
}

// ServeHTTP handles HTTP requests for this backend.
func (p *Noisy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	if err := wait(r.Context(), p.dice.latency(100, 400)); err != nil {
		return
	}
	if p.dice.chance(p.failureRate) {
		http.Error(w, errBackendUnavailable.Error(), http.StatusServiceUnavailable)
		return
	}

	body, contentType := p.answer(q)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, body); err != nil {
		p.logger.Error("failed to write response", "error", err)
	}
}
