package providers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/tripplanner/internal/providers"
)

func newSerpServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "Invalid API key."}`))
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSerpAPI_Query(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind providers.Kind
		wantText string
		wantLen  int
		wantErr  bool
	}{
		{
			name:     "answer box answer",
			status:   http.StatusOK,
			body:     `{"answer_box": {"answer": "$412 round trip"}}`,
			wantKind: providers.KindText,
			wantText: "$412 round trip",
		},
		{
			name:     "answer box as array with snippet",
			status:   http.StatusOK,
			body:     `{"answer_box": [{"snippet": "Rooms from 95 EUR"}]}`,
			wantKind: providers.KindText,
			wantText: "Rooms from 95 EUR",
		},
		{
			name:     "shopping results",
			status:   http.StatusOK,
			body:     `{"shopping_results": [{"title": "Louvre Museum", "extracted_price": 23}, {"title": "Eiffel Tower", "extracted_price": 32}]}`,
			wantKind: providers.KindList,
			wantLen:  2,
		},
		{
			name:     "knowledge graph",
			status:   http.StatusOK,
			body:     `{"knowledge_graph": {"description": "Paris is the capital of France"}}`,
			wantKind: providers.KindText,
			wantText: "Paris is the capital of France",
		},
		{
			name:     "organic snippets joined",
			status:   http.StatusOK,
			body:     `{"organic_results": [{"snippet": "Louvre: 22"}, {"title": "no snippet"}, {"snippet": "Orsay: 16"}]}`,
			wantKind: providers.KindText,
			wantText: "Louvre: 22\nOrsay: 16",
		},
		{
			name:     "no results is empty, not an error",
			status:   http.StatusOK,
			body:     `{"error": "Google hasn't returned any results for this query."}`,
			wantKind: providers.KindEmpty,
		},
		{
			name:    "api error",
			status:  http.StatusOK,
			body:    `{"error": "Your account has run out of searches."}`,
			wantErr: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `oops`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSerpServer(t, tt.status, tt.body)
			p := providers.NewSerpAPI(providers.SerpAPIOptions{
				APIKey:  "test-key",
				BaseURL: srv.URL,
				Timeout: time.Second,
			})

			resp, err := p.Query(context.Background(), "top Paris attractions")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, providers.ErrProviderUnavailable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, resp.Kind)
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, resp.Text)
			}
			if tt.wantLen > 0 {
				assert.Len(t, resp.List, tt.wantLen)
			}
		})
	}
}

func TestSerpAPI_MissingKey(t *testing.T) {
	p := providers.NewSerpAPI(providers.SerpAPIOptions{})
	assert.Equal(t, "serpapi", p.Name())

	_, err := p.Query(context.Background(), "anything")
	assert.ErrorIs(t, err, providers.ErrMissingAPIKey)
}

func TestSerpAPI_RateLimiterRespectsContext(t *testing.T) {
	srv := newSerpServer(t, http.StatusOK, `{"answer_box": {"answer": "1"}}`)
	p := providers.NewSerpAPI(providers.SerpAPIOptions{
		APIKey:            "test-key",
		BaseURL:           srv.URL,
		RequestsPerSecond: 0.01,
	})

	_, err := p.Query(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Query(ctx, "second")
	require.Error(t, err)
}
