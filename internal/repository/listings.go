package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/jobby/job-board-back/internal/domain"
)

var ErrNotFound = errors.New("resource not found")

// ListingsRepository is the contract this subsystem consumes from the
// relational listing store.
type ListingsRepository interface {
	FindListingByID(ctx context.Context, id int64) (*domain.Listing, error)
	SearchListings(ctx context.Context, term string) ([]domain.ListingWithCompany, error)
}

// MemoryListingsRepository stores listings in memory for local development
// and tests.
type MemoryListingsRepository struct {
	mu        sync.RWMutex
	listings  map[int64]*domain.Listing
	employers map[int64]string
	nextID    int64
}

func NewMemoryListingsRepository() *MemoryListingsRepository {
	return &MemoryListingsRepository{
		listings:  make(map[int64]*domain.Listing),
		employers: make(map[int64]string),
		nextID:    1,
	}
}

// AddEmployer registers an employer display name for company merging.
func (r *MemoryListingsRepository) AddEmployer(id int64, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employers[id] = name
}

// AddListing stores a listing, assigning an id when none is set.
func (r *MemoryListingsRepository) AddListing(listing domain.Listing) domain.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == 0 {
		listing.ID = r.nextID
	}
	if listing.ID >= r.nextID {
		r.nextID = listing.ID + 1
	}
	stored := listing
	r.listings[listing.ID] = &stored
	return listing
}

func (r *MemoryListingsRepository) FindListingByID(_ context.Context, id int64) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *listing
	return &clone, nil
}

func (r *MemoryListingsRepository) SearchListings(
	_ context.Context,
	term string,
) ([]domain.ListingWithCompany, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(term))
	results := make([]domain.ListingWithCompany, 0)
	for _, listing := range r.listings {
		company := r.employers[listing.EmployerID]
		if needle != "" && !listingMatches(listing, company, needle) {
			continue
		}
		results = append(results, domain.ListingWithCompany{
			Listing: *listing,
			Company: company,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results, nil
}

func listingMatches(listing *domain.Listing, company, needle string) bool {
	fields := []string{
		company,
		listing.Title,
		listing.Description,
		listing.Type,
		listing.Experience,
		listing.Location,
		listing.Salary,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
