package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSerpAPIURL    = "https://serpapi.com/search.json"
	defaultSerpAPIEngine = "google"

	// serpAPINoResults is the error text SerpAPI uses for an empty result page.
	serpAPINoResults = "hasn't returned any results"
)

// ErrMissingAPIKey is returned by SerpAPI.Query when no API key is configured.
var ErrMissingAPIKey = errors.New("serpapi: API key is missing")

// SerpAPIOptions configures the SerpAPI client. Credentials are passed in
// explicitly and never read from the process environment.
type SerpAPIOptions struct {
	APIKey            string
	Engine            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// SerpAPI queries the SerpAPI JSON endpoint.
type SerpAPI struct {
	apiKey     string
	engine     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSerpAPI creates a SerpAPI provider. Requests are paced by a token
// bucket at RequestsPerSecond; zero disables pacing.
func NewSerpAPI(opts SerpAPIOptions) *SerpAPI {
	engine := opts.Engine
	if engine == "" {
		engine = defaultSerpAPIEngine
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultSerpAPIURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &SerpAPI{
		apiKey:     opts.APIKey,
		engine:     engine,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Name returns the provider name.
func (s *SerpAPI) Name() string {
	return "serpapi"
}

// Query runs a SerpAPI search and reduces the payload to its most useful part.
func (s *SerpAPI) Query(ctx context.Context, text string) (Response, error) {
	if strings.TrimSpace(s.apiKey) == "" {
		return Response{}, ErrMissingAPIKey
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("serpapi: waiting for rate limiter: %w", err)
	}

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return Response{}, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("engine", s.engine)
	q.Set("q", text)
	q.Set("api_key", s.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("serpapi: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Response{}, fmt.Errorf("serpapi: failed to read response: %w", err)
	}

	var payload serpPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("%w: serpapi returned status %d", ErrProviderUnavailable, resp.StatusCode)
		}
		return TextResponse(string(body)), nil
	}

	if payload.Error != "" {
		if strings.Contains(payload.Error, serpAPINoResults) {
			return Response{Kind: KindEmpty}, nil
		}
		return Response{}, fmt.Errorf("%w: serpapi: %s", ErrProviderUnavailable, payload.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("%w: serpapi returned status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	return payload.reduce(), nil
}

type serpPayload struct {
	Error           string          `json:"error"`
	AnswerBox       json.RawMessage `json:"answer_box"`
	ShoppingResults []Record        `json:"shopping_results"`
	KnowledgeGraph  struct {
		Description string `json:"description"`
	} `json:"knowledge_graph"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

type serpAnswerBox struct {
	Answer                  string   `json:"answer"`
	Snippet                 string   `json:"snippet"`
	SnippetHighlightedWords []string `json:"snippet_highlighted_words"`
}

// reduce picks, in order: answer box, shopping results, knowledge graph,
// organic snippets.
func (p serpPayload) reduce() Response {
	if box, ok := p.answerBox(); ok {
		switch {
		case box.Answer != "":
			return TextResponse(box.Answer)
		case box.Snippet != "":
			return TextResponse(box.Snippet)
		case len(box.SnippetHighlightedWords) > 0:
			return TextResponse(box.SnippetHighlightedWords[0])
		}
	}

	if len(p.ShoppingResults) > 0 {
		if _, ok := p.ShoppingResults[0]["title"]; ok {
			return ListResponse(p.ShoppingResults)
		}
	}

	if p.KnowledgeGraph.Description != "" {
		return TextResponse(p.KnowledgeGraph.Description)
	}

	snippets := make([]string, 0, len(p.OrganicResults))
	for _, r := range p.OrganicResults {
		if r.Snippet != "" {
			snippets = append(snippets, r.Snippet)
		}
	}
	return TextResponse(strings.Join(snippets, "\n"))
}

// answerBox decodes answer_box, which SerpAPI sends as an object or an array.
func (p serpPayload) answerBox() (serpAnswerBox, bool) {
	if len(p.AnswerBox) == 0 {
		return serpAnswerBox{}, false
	}

	var box serpAnswerBox
	if err := json.Unmarshal(p.AnswerBox, &box); err == nil {
		return box, true
	}

	var boxes []serpAnswerBox
	if err := json.Unmarshal(p.AnswerBox, &boxes); err == nil && len(boxes) > 0 {
		return boxes[0], true
	}

	return serpAnswerBox{}, false
}
