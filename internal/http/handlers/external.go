package handlers

import (
	"net/http"

	"github.com/jobby/job-board-back/internal/domain"
)

// RemoteSearch serves GET /remote: a direct query against the Remotive
// provider, normalized to the canonical job shape.
func (api *API) RemoteSearch(w http.ResponseWriter, r *http.Request) {
	api.providerSearch(w, r, domain.SourceRemotive)
}

// AdzunaSearch serves GET /adzuna.
func (api *API) AdzunaSearch(w http.ResponseWriter, r *http.Request) {
	api.providerSearch(w, r, domain.SourceAdzuna)
}

func (api *API) providerSearch(w http.ResponseWriter, r *http.Request, source domain.Source) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	term, ok := queryTerm(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "q is required")
		return
	}
	limit := queryLimit(r, api.searchDefaultLimit)

	jobs := api.searcher.Search(r.Context(), term, limit, []domain.Source{source})
	writeJSON(w, http.StatusOK, jobs)
}
