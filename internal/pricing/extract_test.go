package pricing_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alex-user-go/tripplanner/internal/pricing"
	"github.com/alex-user-go/tripplanner/internal/providers"
	"github.com/alex-user-go/tripplanner/internal/trip"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		data      any
		wantPrice float64
		wantFound bool
	}{
		{
			name:      "record with price string",
			data:      providers.Record{"price": "450"},
			wantPrice: 450,
			wantFound: true,
		},
		{
			name:      "record with decimal price",
			data:      map[string]any{"price": "123.45 USD"},
			wantPrice: 123.45,
			wantFound: true,
		},
		{
			name:      "record with numeric value",
			data:      providers.Record{"extracted_price": 32.0},
			wantPrice: 32,
			wantFound: true,
		},
		{
			name:      "key priority: price before cost",
			data:      providers.Record{"cost": "10", "price": "20"},
			wantPrice: 20,
			wantFound: true,
		},
		{
			name:      "non-numeric prefix on price falls through to next key",
			data:      providers.Record{"price": "$450", "amount": "300"},
			wantPrice: 300,
			wantFound: true,
		},
		{
			name:      "recognized key with non-numeric prefix only",
			data:      providers.Record{"price": "$450"},
			wantFound: false,
		},
		{
			name:      "negative value is not a leading number",
			data:      providers.Record{"price": -5.0},
			wantFound: false,
		},
		{
			name:      "nil value skipped",
			data:      providers.Record{"price": nil, "value": "7"},
			wantPrice: 7,
			wantFound: true,
		},
		{
			name:      "no recognized keys",
			data:      providers.Record{"title": "Louvre 23"},
			wantFound: false,
		},
		{
			name:      "json number",
			data:      providers.Record{"cost": json.Number("99.5")},
			wantPrice: 99.5,
			wantFound: true,
		},
		{
			name:      "free text first number",
			data:      "Flights from $412 and up, 2 stops",
			wantPrice: 412,
			wantFound: true,
		},
		{
			name:      "free text decimal",
			data:      "about 79.99 per night",
			wantPrice: 79.99,
			wantFound: true,
		},
		{
			name:      "free text without digits",
			data:      "no prices here",
			wantFound: false,
		},
		{
			name:      "empty text",
			data:      "",
			wantFound: false,
		},
		{
			name:      "text response",
			data:      providers.TextResponse("cheapest $385"),
			wantPrice: 385,
			wantFound: true,
		},
		{
			name:      "record response",
			data:      providers.RecordResponse(providers.Record{"amount": "60"}),
			wantPrice: 60,
			wantFound: true,
		},
		{
			name:      "list response is not a price",
			data:      providers.ListResponse([]providers.Record{{"price": "10"}}),
			wantFound: false,
		},
		{
			name:      "unsupported shape",
			data:      42,
			wantFound: false,
		},
		{
			name:      "nil",
			data:      nil,
			wantFound: false,
		},
		{
			name:      "overflowing number",
			data:      strings.Repeat("9", 400),
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Extract(tt.data)
			assert.Equal(t, tt.wantFound, got.Found())
			assert.Equal(t, tt.wantPrice, got.Price)
			assert.GreaterOrEqual(t, got.Price, 0.0)
			if !tt.wantFound {
				assert.Equal(t, trip.SourceFallback, got.Source)
			}
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	in := providers.Record{"value": "12.5", "amount": "99"}
	first := pricing.Extract(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, pricing.Extract(in))
	}
}
