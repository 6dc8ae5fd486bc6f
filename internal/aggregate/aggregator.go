package aggregate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jobby/job-board-back/internal/domain"
	"github.com/jobby/job-board-back/internal/provider"
)

const (
	// DefaultLimit bounds a search when the caller supplies none.
	DefaultLimit = 10

	defaultProviderTimeout = 10 * time.Second
)

// ResultsCache is an optional read-through cache consulted before a
// provider is dialed. Implementations must treat every failure as a miss.
type ResultsCache interface {
	Get(ctx context.Context, key string) ([]domain.Job, bool)
	Set(ctx context.Context, key string, jobs []domain.Job)
}

type Config struct {
	ProviderTimeout time.Duration
	Cache           ResultsCache
	Logger          *log.Logger
}

// Aggregator fans a query out to the requested provider adapters
// concurrently and merges the normalized results in a fixed precedence
// order. Provider failures are absorbed: a dead source contributes zero
// results and never fails the overall call.
type Aggregator struct {
	adapters   map[domain.Source]provider.Adapter
	precedence []domain.Source
	timeout    time.Duration
	cache      ResultsCache
	logger     *log.Logger
}

// New builds an aggregator. The order of adapters fixes the provider
// precedence used to sequence merged results, so output order stays
// deterministic regardless of which provider responds first.
func New(adapters []provider.Adapter, config Config) *Aggregator {
	if config.ProviderTimeout <= 0 {
		config.ProviderTimeout = defaultProviderTimeout
	}

	indexed := make(map[domain.Source]provider.Adapter, len(adapters))
	precedence := make([]domain.Source, 0, len(adapters))
	for _, adapter := range adapters {
		source := adapter.Source()
		if _, exists := indexed[source]; exists {
			continue
		}
		indexed[source] = adapter
		precedence = append(precedence, source)
	}

	return &Aggregator{
		adapters:   indexed,
		precedence: precedence,
		timeout:    config.ProviderTimeout,
		cache:      config.Cache,
		logger:     config.Logger,
	}
}

// Sources returns the configured provider precedence.
func (a *Aggregator) Sources() []domain.Source {
	return append([]domain.Source(nil), a.precedence...)
}

// outcome is the explicit result of one fan-out branch. Keeping it a value
// makes the "ignore failures, keep successes" policy a visible code path.
type outcome struct {
	source domain.Source
	jobs   []domain.Job
	err    error
}

// Search queries the requested sources concurrently and returns at most
// limit jobs. An empty result means no source had matches, including the
// case where every source failed; callers cannot distinguish the two.
func (a *Aggregator) Search(ctx context.Context, term string, limit int, sources []domain.Source) []domain.Job {
	if limit <= 0 {
		limit = DefaultLimit
	}

	requested := a.selectSources(sources)
	if len(requested) == 0 {
		return []domain.Job{}
	}

	results := make(chan outcome, len(requested))
	for _, source := range requested {
		go func(source domain.Source, adapter provider.Adapter) {
			jobs, err := a.searchOne(ctx, adapter, term, limit)
			results <- outcome{source: source, jobs: jobs, err: err}
		}(source, a.adapters[source])
	}

	bySource := make(map[domain.Source][]domain.Job, len(requested))
	for range requested {
		out := <-results
		if out.err != nil {
			a.logf("provider call failed source=%s term=%q err=%v", out.source, term, out.err)
			continue
		}
		bySource[out.source] = out.jobs
	}

	merged := make([]domain.Job, 0, limit)
	for _, source := range requested {
		merged = append(merged, bySource[source]...)
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// searchOne runs a single provider call under its own timeout. The timeout
// cancels only this provider's call, never its siblings.
func (a *Aggregator) searchOne(
	ctx context.Context,
	adapter provider.Adapter,
	term string,
	limit int,
) ([]domain.Job, error) {
	cacheKey := resultsCacheKey(adapter.Source(), term, limit)
	if a.cache != nil {
		if jobs, ok := a.cache.Get(ctx, cacheKey); ok {
			return jobs, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	jobs, err := adapter.Search(callCtx, term, limit)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		a.cache.Set(ctx, cacheKey, jobs)
	}
	return jobs, nil
}

// selectSources filters the request against the configured precedence,
// keeping precedence order. An empty request means all configured sources.
func (a *Aggregator) selectSources(sources []domain.Source) []domain.Source {
	if len(sources) == 0 {
		return a.precedence
	}

	requested := make(map[domain.Source]struct{}, len(sources))
	for _, source := range sources {
		requested[source] = struct{}{}
	}

	selected := make([]domain.Source, 0, len(sources))
	for _, source := range a.precedence {
		if _, ok := requested[source]; ok {
			selected = append(selected, source)
		}
	}
	return selected
}

func resultsCacheKey(source domain.Source, term string, limit int) string {
	return fmt.Sprintf("jobs:%s:%s:%d", source, term, limit)
}

func (a *Aggregator) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
