package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/tripplanner/internal/pricing"
	"github.com/alex-user-go/tripplanner/internal/providers"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(t *testing.T, h http.Handler) *providers.HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return providers.NewHTTPProvider("mock", srv.URL, 2*time.Second)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  topic
	}{
		{"price of cheapest round-trip flights from JFK to CDG", topicFlight},
		{"price of budget hotels in Paris from March 20th to March 27th", topicHotel},
		{"top Paris attractions entry fees prices", topicAttractions},
		{"weather in Paris", topicOther},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.query))
		})
	}
}

func TestStructured(t *testing.T) {
	b := &Structured{dice: newDice(1), logger: discard()}
	p := serve(t, b)
	ctx := context.Background()

	flight, err := p.Query(ctx, "cheapest flights from JFK to CDG")
	require.NoError(t, err)
	require.Equal(t, providers.KindRecord, flight.Kind)
	q := pricing.Extract(flight)
	assert.True(t, q.Found())
	assert.GreaterOrEqual(t, q.Price, 380.0)
	assert.Less(t, q.Price, 900.0)

	hotel, err := p.Query(ctx, "budget hotels in Paris")
	require.NoError(t, err)
	assert.Equal(t, "Hotel Le Petit Budget", hotel.Record["name"])

	list, err := p.Query(ctx, "top Paris attractions")
	require.NoError(t, err)
	attractions := pricing.ParseAttractions(list)
	require.Len(t, attractions, 6)
	assert.Equal(t, "Eiffel Tower", attractions[0].Name)
}

func TestText(t *testing.T) {
	b := &Text{dice: newDice(1), logger: discard()}
	p := serve(t, b)
	ctx := context.Background()

	hotel, err := p.Query(ctx, "budget hotels in Paris")
	require.NoError(t, err)
	require.Equal(t, providers.KindText, hotel.Kind)
	q := pricing.Extract(hotel)
	assert.GreaterOrEqual(t, q.Price, 55.0)
	assert.Less(t, q.Price, 120.0)

	list, err := p.Query(ctx, "top Paris attractions")
	require.NoError(t, err)
	attractions := pricing.ParseAttractions(list)
	require.Len(t, attractions, 5)
	assert.Equal(t, 29.40, attractions[0].Fee)
}

func TestFailures(t *testing.T) {
	b := &Structured{dice: newDice(1), failureRate: 1, logger: discard()}
	p := serve(t, b)

	_, err := p.Query(context.Background(), "flights")
	assert.ErrorIs(t, err, providers.ErrProviderUnavailable)
}

func TestNoisy_NeverBreaksExtraction(t *testing.T) {
	b := &Noisy{dice: newDice(7), logger: discard()}
	p := serve(t, b)

	for _, q := range []string{"flights", "hotels", "attractions"} {
		resp, err := p.Query(context.Background(), q)
		require.NoError(t, err)
		quote := pricing.Extract(resp)
		assert.GreaterOrEqual(t, quote.Price, 0.0)
		for _, a := range pricing.ParseAttractions(resp) {
			assert.LessOrEqual(t, a.Fee, pricing.MaxAttractionFee)
			assert.Greater(t, len([]rune(a.Name)), 2)
		}
	}
}

func TestMissingQuery(t *testing.T) {
	w := httptest.NewRecorder()
	NewText(discard()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
