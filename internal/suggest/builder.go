package suggest

import (
	"context"
	"strings"

	"github.com/jobby/job-board-back/internal/aggregate"
	"github.com/jobby/job-board-back/internal/domain"
)

const (
	// HistoryWindow is how many recent search terms feed suggestions.
	// Anything older is ignored; the window arrives fresh per request and
	// is never accumulated server-side.
	HistoryWindow = 3

	DefaultPerTermLimit = 2
	DefaultCap          = 4
)

// Searcher is the aggregation capability consulted per history term.
type Searcher interface {
	Search(ctx context.Context, term string, limit int, sources []domain.Source) []domain.Job
}

type Config struct {
	// Source is the single designated provider used for history-derived
	// suggestions. One lightweight source bounds total external calls to
	// HistoryWindow x PerTermLimit on every conversational turn.
	Source       domain.Source
	PerTermLimit int
	Cap          int
}

// Builder turns a caller-supplied rolling window of recent search terms
// into a bounded, deduplicated suggestion set.
type Builder struct {
	searcher     Searcher
	source       domain.Source
	perTermLimit int
	maxJobs      int
}

func NewBuilder(searcher Searcher, config Config) *Builder {
	if config.Source == "" {
		config.Source = domain.SourceAdzuna
	}
	if config.PerTermLimit <= 0 {
		config.PerTermLimit = DefaultPerTermLimit
	}
	if config.Cap <= 0 {
		config.Cap = DefaultCap
	}

	return &Builder{
		searcher:     searcher,
		source:       config.Source,
		perTermLimit: config.PerTermLimit,
		maxJobs:      config.Cap,
	}
}

// Build queries the designated provider for each of the last HistoryWindow
// terms (oldest first), concatenates the per-term results in term order and
// dedupes by title under the configured cap. It also returns the terms it
// actually used so callers can reference them. An empty history yields an
// empty set with no external calls.
func (b *Builder) Build(ctx context.Context, history []string) ([]domain.Job, []string) {
	terms := LastTerms(history)
	if len(terms) == 0 {
		return []domain.Job{}, nil
	}

	collected := make([]domain.Job, 0, len(terms)*b.perTermLimit)
	for _, term := range terms {
		collected = append(collected, b.searcher.Search(ctx, term, b.perTermLimit, []domain.Source{b.source})...)
	}

	return aggregate.Dedupe(collected, aggregate.TitleKey, b.maxJobs), terms
}

// LastTerms returns the trailing HistoryWindow entries of history, oldest
// first, with blank terms dropped.
func LastTerms(history []string) []string {
	terms := make([]string, 0, HistoryWindow)
	for _, raw := range history {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) > HistoryWindow {
		terms = terms[len(terms)-HistoryWindow:]
	}
	return terms
}
