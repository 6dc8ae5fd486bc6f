package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jobby/job-board-back/internal/domain"
)

// Adapter is implemented once per external job source. Search requests at
// most limit raw results for term; providers may return fewer. Transport
// failures, non-success status codes and malformed payloads are all reported
// as a single error value so the aggregator can isolate the source.
type Adapter interface {
	Source() domain.Source
	Search(ctx context.Context, term string, limit int) ([]domain.Job, error)
}

// Config holds the static provider endpoints and credentials. It is built
// once at startup and never mutated during request handling.
type Config struct {
	RemotiveBaseURL  string
	AdzunaBaseURL    string
	AdzunaAppID      string
	AdzunaAppKey     string
	AdzunaCountry    string
	ArbeitnowBaseURL string

	HTTPClient *http.Client
}

// StatusError reports a non-success HTTP status from a provider.
type StatusError struct {
	Source     domain.Source
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status %d", e.Source, e.StatusCode)
}
