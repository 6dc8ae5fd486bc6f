package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jobby/job-board-back/internal/domain"
	"github.com/jobby/job-board-back/internal/repository"
)

// SimilarListings serves GET /listings/{id}/similar: remote matches for a
// locally stored listing.
func (api *API) SimilarListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/listings/")
	idPart, action, ok := strings.Cut(rest, "/")
	if !ok || action != "similar" {
		writeError(w, r, http.StatusNotFound, "not_found", "unknown path")
		return
	}
	listingID, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "listing id must be an integer")
		return
	}
	limit := queryLimit(r, api.similarDefaultLimit)

	output, err := api.listings.SimilarJobs(r.Context(), listingID, limit)
	if err != nil {
		if err == repository.ErrNotFound {
			writeError(w, r, http.StatusNotFound, "not_found", "listing not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to load listing")
		return
	}

	matches := make([]map[string]any, 0, len(output.Matches))
	for _, job := range output.Matches {
		match := map[string]any{
			"title":            job.Title,
			"company":          job.Company,
			"url":              job.URL,
			"publication_date": job.PublicationDate,
		}
		if job.Salary != "" {
			match["salary"] = job.Salary
		}
		matches = append(matches, match)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"local_listing":  output.Listing,
		"remote_matches": matches,
	})
}

// LocalSearch serves GET /search: local-store substring search merged with
// employer display names. The external aggregator is bypassed entirely.
func (api *API) LocalSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	term, ok := queryTerm(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "q is required")
		return
	}

	results, err := api.listings.SearchLocal(r.Context(), term)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to search listings")
		return
	}
	if results == nil {
		results = []domain.ListingWithCompany{}
	}
	writeJSON(w, http.StatusOK, results)
}
