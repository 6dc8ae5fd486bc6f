package service

import (
	"context"
	"fmt"

	"github.com/jobby/job-board-back/internal/domain"
	"github.com/jobby/job-board-back/internal/repository"
)

// Searcher is the external-aggregation capability consumed by listing
// lookups.
type Searcher interface {
	Search(ctx context.Context, term string, limit int, sources []domain.Source) []domain.Job
}

type ListingsDependencies struct {
	Repository repository.ListingsRepository
	Searcher   Searcher
	// SimilarSources are the providers consulted for remote matches of a
	// local listing. Defaults to Remotive only.
	SimilarSources []domain.Source
}

// ListingsService serves the local-store paths: similar external jobs for
// a stored listing, and local substring search.
type ListingsService struct {
	repo           repository.ListingsRepository
	searcher       Searcher
	similarSources []domain.Source
}

func NewListingsService(deps ListingsDependencies) *ListingsService {
	if len(deps.SimilarSources) == 0 {
		deps.SimilarSources = []domain.Source{domain.SourceRemotive}
	}
	return &ListingsService{
		repo:           deps.Repository,
		searcher:       deps.Searcher,
		similarSources: deps.SimilarSources,
	}
}

type SimilarJobsOutput struct {
	Listing *domain.Listing
	Matches []domain.Job
}

// SimilarJobs looks up the local listing first; an unknown id returns
// repository.ErrNotFound before any external provider is dialed.
func (s *ListingsService) SimilarJobs(ctx context.Context, listingID int64, limit int) (SimilarJobsOutput, error) {
	listing, err := s.repo.FindListingByID(ctx, listingID)
	if err != nil {
		if err == repository.ErrNotFound {
			return SimilarJobsOutput{}, err
		}
		return SimilarJobsOutput{}, fmt.Errorf("find listing: %w", err)
	}

	matches := s.searcher.Search(ctx, listing.Title, limit, s.similarSources)
	return SimilarJobsOutput{
		Listing: listing,
		Matches: matches,
	}, nil
}

// SearchLocal queries only the local store; the external aggregator is
// never involved on this path.
func (s *ListingsService) SearchLocal(ctx context.Context, term string) ([]domain.ListingWithCompany, error) {
	results, err := s.repo.SearchListings(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return results, nil
}
