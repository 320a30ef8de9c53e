// Package pricing turns loosely typed search output into prices and priced
// flight, hotel and attraction records.
//
// Extraction never fails: a miss is reported through trip.PriceQuote.Found
// and each pricer substitutes its own fallback constant.
package pricing

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"github.com/alex-user-go/tripplanner/internal/providers"
	"github.com/alex-user-go/tripplanner/internal/trip"
)

// PriceKeys are probed in this order on structured records.
var PriceKeys = []string{"price", "cost", "value", "amount", "extracted_price"}

var (
	leadingNumber = regexp.MustCompile(`^\d+(\.\d+)?`)
	anyNumber     = regexp.MustCompile(`\d+(\.\d+)?`)
)

// Extract converts a record or free text into a single price.
//
// Records: the first key from PriceKeys whose value starts with a number wins.
// Text: the first number anywhere in the text wins.
// Anything else, or no number at all, is a miss (price 0, fallback source).
func Extract(data any) trip.PriceQuote {
	switch v := data.(type) {
	case providers.Response:
		switch v.Kind {
		case providers.KindRecord:
			return extractRecord(v.Record)
		case providers.KindText:
			return extractText(v.Text)
		}
	case providers.Record:
		return extractRecord(v)
	case map[string]any:
		return extractRecord(v)
	case string:
		return extractText(v)
	}
	return miss()
}

func extractRecord(rec map[string]any) trip.PriceQuote {
	for _, key := range PriceKeys {
		val, ok := rec[key]
		if !ok || val == nil {
			continue
		}
		if m := leadingNumber.FindString(stringify(val)); m != "" {
			if q, ok := parse(m); ok {
				return q
			}
		}
	}
	return miss()
}

func extractText(text string) trip.PriceQuote {
	if m := anyNumber.FindString(text); m != "" {
		if q, ok := parse(m); ok {
			return q
		}
	}
	return miss()
}

func parse(s string) (trip.PriceQuote, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return trip.PriceQuote{}, false
	}
	return trip.PriceQuote{Price: f, Source: trip.SourceRaw}, true
}

func miss() trip.PriceQuote {
	return trip.PriceQuote{Price: 0, Source: trip.SourceFallback}
}

// stringify renders a decoded JSON value the way it would print as text.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return string(t)
	default:
		return ""
	}
}
