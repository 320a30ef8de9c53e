package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Record is a loosely typed search result entry.
type Record map[string]any

// Kind identifies the shape of a search response.
type Kind string

const (
	KindEmpty  Kind = "empty"
	KindRecord Kind = "record"
	KindList   Kind = "list"
	KindText   Kind = "text"
)

// Response is what a search backend returned for a query: a single record,
// a list of records, raw text, or nothing.
type Response struct {
	Kind   Kind     `json:"kind"`
	Record Record   `json:"record,omitempty"`
	List   []Record `json:"list,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// TextResponse wraps raw text.
func TextResponse(text string) Response {
	if strings.TrimSpace(text) == "" {
		return Response{Kind: KindEmpty}
	}
	return Response{Kind: KindText, Text: text}
}

// RecordResponse wraps a single record.
func RecordResponse(r Record) Response {
	if len(r) == 0 {
		return Response{Kind: KindEmpty}
	}
	return Response{Kind: KindRecord, Record: r}
}

// ListResponse wraps a list of records.
func ListResponse(list []Record) Response {
	if len(list) == 0 {
		return Response{Kind: KindEmpty}
	}
	return Response{Kind: KindList, List: list}
}

// IsEmpty reports whether the response carries nothing usable.
func (r Response) IsEmpty() bool {
	return r.Kind == "" || r.Kind == KindEmpty
}

// String renders the response as text, the way a search tool would print it.
func (r Response) String() string {
	switch r.Kind {
	case KindText:
		return r.Text
	case KindRecord:
		b, _ := json.Marshal(r.Record)
		return string(b)
	case KindList:
		b, _ := json.Marshal(r.List)
		return string(b)
	default:
		return ""
	}
}

// Decode turns a raw response body into a Response. JSON objects become
// records, JSON arrays of objects become lists, anything else is text.
func Decode(body []byte) Response {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Response{Kind: KindEmpty}
	}

	switch trimmed[0] {
	case '{':
		var rec Record
		if err := json.Unmarshal(trimmed, &rec); err == nil {
			return RecordResponse(rec)
		}
	case '[':
		var list []Record
		if err := json.Unmarshal(trimmed, &list); err == nil {
			return ListResponse(list)
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return TextResponse(s)
		}
	}

	return TextResponse(string(trimmed))
}

// Provider defines the interface for search backends.
type Provider interface {
	// Name returns the backend name used in logs and metrics.
	Name() string
	// Query runs a natural-language search. An error means the backend
	// itself failed; an empty or unhelpful answer is not an error.
	Query(ctx context.Context, text string) (Response, error)
}

// ErrProviderUnavailable is returned when a provider is unavailable.
var ErrProviderUnavailable = errors.New("provider unavailable")
