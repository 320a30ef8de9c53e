package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alex-user-go/tripplanner/internal/obs"
	"github.com/alex-user-go/tripplanner/internal/providers"
)

// ErrAllProvidersFailed is returned when every backend failed for a query.
var ErrAllProvidersFailed = errors.New("all search providers failed")

// ErrNoProviders is returned when the aggregator has no backends configured.
var ErrNoProviders = errors.New("no search providers configured")

// Aggregator sends each query to several backends and keeps the best answer.
// Backends are listed in priority order.
type Aggregator struct {
	providers []providers.Provider
	timeout   time.Duration
	metrics   *obs.Metrics
	logger    *slog.Logger
}

// NewAggregator creates a new Aggregator.
func NewAggregator(providers []providers.Provider, timeout time.Duration, metrics *obs.Metrics, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		providers: providers,
		timeout:   timeout,
		metrics:   metrics,
		logger:    logger,
	}
}

// Name returns the aggregator name.
func (a *Aggregator) Name() string {
	return "aggregator"
}

type outcome struct {
	resp providers.Response
	err  error
}

// Query queries all providers concurrently and returns the response of the
// highest-priority backend that answered with something. It fails only when
// every backend failed; if some succeeded with empty answers the result is
// an empty response.
//
// A backend still running when the aggregator's own timeout fires has not
// failed, it found nothing in time.
func (a *Aggregator) Query(parent context.Context, text string) (providers.Response, error) {
	if len(a.providers) == 0 {
		return providers.Response{}, ErrNoProviders
	}

	ctx, cancel := context.WithTimeout(parent, a.timeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		outcomes = make([]outcome, len(a.providers))
	)

	for i, provider := range a.providers {
		wg.Go(func() {
			resp, err := provider.Query(ctx, text)
			if err != nil {
				a.metrics.IncProviderErrors()
			}
			outcomes[i] = outcome{resp: resp, err: err}
		})
	}

	wg.Wait()

	timedOut := parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded)

	var (
		errs   []error
		failed int
		late   int
	)
	for i, o := range outcomes {
		if o.err == nil {
			continue
		}
		if timedOut && errors.Is(o.err, context.DeadlineExceeded) {
			late++
			continue
		}
		failed++
		errs = append(errs, fmt.Errorf("%s: %w", a.providers[i].Name(), o.err))
	}

	if late > 0 {
		a.logger.Warn("search providers timed out",
			"query", text,
			"timeout", a.timeout,
			"timed_out_count", late)
	}

	if len(errs) > 0 {
		a.logger.Error("provider search errors",
			"query", text,
			"failed_count", failed,
			"errors", errs)

		if failed == len(a.providers) {
			return providers.Response{}, fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
		}
	}

	for i, o := range outcomes {
		if o.err == nil && !o.resp.IsEmpty() {
			a.logger.Debug("search answered", "query", text, "provider", a.providers[i].Name(), "kind", o.resp.Kind)
			return o.resp, nil
		}
	}

	return providers.Response{Kind: providers.KindEmpty}, nil
}
