package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jobby/job-board-back/internal/http/middleware"
	"github.com/jobby/job-board-back/internal/service"
)

var errInvalidPayload = errors.New("invalid payload")

type API struct {
	assistant *service.AssistantService
	listings  *service.ListingsService
	searcher  service.Searcher

	searchDefaultLimit  int
	similarDefaultLimit int
}

type APIDependencies struct {
	Assistant *service.AssistantService
	Listings  *service.ListingsService
	Searcher  service.Searcher

	SearchDefaultLimit  int
	SimilarDefaultLimit int
}

func NewAPI(deps APIDependencies) *API {
	if deps.SearchDefaultLimit <= 0 {
		deps.SearchDefaultLimit = 10
	}
	if deps.SimilarDefaultLimit <= 0 {
		deps.SimilarDefaultLimit = 5
	}
	return &API{
		assistant:           deps.Assistant,
		listings:            deps.Listings,
		searcher:            deps.Searcher,
		searchDefaultLimit:  deps.SearchDefaultLimit,
		similarDefaultLimit: deps.SimilarDefaultLimit,
	}
}

type errorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func writeJSON(w http.ResponseWriter, statusCode int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	payload := errorPayload{RequestID: middleware.GetRequestID(r.Context())}
	payload.Error.Code = code
	payload.Error.Message = message
	writeJSON(w, statusCode, payload)
}

// decodeJSON is lenient about unknown fields: caller-supplied payloads are
// filtered, not rejected.
func decodeJSON(r *http.Request, value any) error {
	if err := json.NewDecoder(r.Body).Decode(value); err != nil {
		return errInvalidPayload
	}
	return nil
}

func queryTerm(r *http.Request) (string, bool) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	return term, term != ""
}

func queryLimit(r *http.Request, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
