package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jobby/job-board-back/internal/domain"
	"github.com/jobby/job-board-back/internal/repository"
	"github.com/jobby/job-board-back/internal/service"
)

type fakeSearcher struct {
	calls int
	jobs  []domain.Job
}

func (f *fakeSearcher) Search(_ context.Context, _ string, limit int, _ []domain.Source) []domain.Job {
	f.calls++
	if len(f.jobs) > limit {
		return f.jobs[:limit]
	}
	return f.jobs
}

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(context.Context, []domain.ChatMessage, int, float64) (string, error) {
	return f.reply, f.err
}

func (f *fakeCompleter) Available() bool { return true }

func testAPI(t *testing.T, searcher *fakeSearcher, completer *fakeCompleter) *API {
	t.Helper()

	repo := repository.NewMemoryListingsRepository()
	repo.AddEmployer(1, "Acme Robotics")
	repo.AddListing(domain.Listing{
		EmployerID:  1,
		Title:       "Senior Go Engineer",
		Location:    "Remote",
		Type:        "Full-time",
		Experience:  "Senior",
		Salary:      "$150k",
		Description: "Distributed systems work",
	})

	if completer == nil {
		completer = &fakeCompleter{reply: "hello"}
	}
	assistant := service.NewAssistantService(service.AssistantDependencies{Completer: completer})
	listings := service.NewListingsService(service.ListingsDependencies{
		Repository: repo,
		Searcher:   searcher,
	})

	return NewAPI(APIDependencies{
		Assistant: assistant,
		Listings:  listings,
		Searcher:  searcher,
	})
}

func TestRemoteSearchReturnsJobs(t *testing.T) {
	searcher := &fakeSearcher{jobs: []domain.Job{
		{ID: "remotive_1", Title: "Go Developer", Company: "Acme", Location: "Remote", URL: "https://e/1"},
	}}
	api := testAPI(t, searcher, nil)

	recorder := httptest.NewRecorder()
	api.RemoteSearch(recorder, httptest.NewRequest(http.MethodGet, "/remote?q=go", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", recorder.Code, recorder.Body.String())
	}
	var jobs []map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(jobs) != 1 || jobs[0]["title"] != "Go Developer" {
		t.Fatalf("unexpected payload: %v", jobs)
	}
	if _, exposed := jobs[0]["Source"]; exposed {
		t.Fatalf("provider tag must not leak into the response: %v", jobs[0])
	}
}

func TestRemoteSearchRequiresQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	api := testAPI(t, searcher, nil)

	recorder := httptest.NewRecorder()
	api.RemoteSearch(recorder, httptest.NewRequest(http.MethodGet, "/remote", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	var payload errorPayload
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	if payload.Error.Code != "invalid_request" {
		t.Fatalf("expected invalid_request, got %q", payload.Error.Code)
	}
	if searcher.calls != 0 {
		t.Fatalf("expected no provider calls on a rejected request, got %d", searcher.calls)
	}
}

func TestProviderSearchRejectsPost(t *testing.T) {
	api := testAPI(t, &fakeSearcher{}, nil)

	recorder := httptest.NewRecorder()
	api.AdzunaSearch(recorder, httptest.NewRequest(http.MethodPost, "/adzuna?q=go", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
}

func TestChatReturnsReplyAndJobs(t *testing.T) {
	api := testAPI(t, &fakeSearcher{}, &fakeCompleter{reply: "try these roles"})

	body := strings.NewReader(`{
		"history": [{"role": "user", "content": "any go jobs?"}],
		"unknown_field": true
	}`)
	recorder := httptest.NewRecorder()
	api.Chat(recorder, httptest.NewRequest(http.MethodPost, "/chat", body))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", recorder.Code, recorder.Body.String())
	}
	var response chatResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if response.Reply != "try these roles" {
		t.Fatalf("unexpected reply %q", response.Reply)
	}
	if response.Jobs == nil {
		t.Fatalf("expected jobs to serialize as an empty list, got null")
	}
}

func TestChatRejectsMalformedJSON(t *testing.T) {
	api := testAPI(t, &fakeSearcher{}, nil)

	recorder := httptest.NewRecorder()
	api.Chat(recorder, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"history":`)))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestChatUpstreamFailureIsBadGateway(t *testing.T) {
	api := testAPI(t, &fakeSearcher{}, &fakeCompleter{err: errors.New("timeout")})

	body := strings.NewReader(`{"history": [{"role": "user", "content": "hi"}]}`)
	recorder := httptest.NewRecorder()
	api.Chat(recorder, httptest.NewRequest(http.MethodPost, "/chat", body))

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", recorder.Code)
	}
	var payload errorPayload
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid error JSON: %v", err)
	}
	if payload.Error.Code != "completion_failed" {
		t.Fatalf("expected completion_failed, got %q", payload.Error.Code)
	}
}

func TestSimilarListingsResponseShape(t *testing.T) {
	searcher := &fakeSearcher{jobs: []domain.Job{
		{Title: "Go Engineer", Company: "Globex", URL: "https://e/1", PublicationDate: "2024-06-01", Salary: "$140k"},
		{Title: "Backend Engineer", Company: "Initech", URL: "https://e/2", PublicationDate: "2024-06-02"},
	}}
	api := testAPI(t, searcher, nil)

	recorder := httptest.NewRecorder()
	api.SimilarListings(recorder, httptest.NewRequest(http.MethodGet, "/listings/1/similar", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", recorder.Code, recorder.Body.String())
	}
	var response struct {
		LocalListing  domain.Listing   `json:"local_listing"`
		RemoteMatches []map[string]any `json:"remote_matches"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if response.LocalListing.Title != "Senior Go Engineer" {
		t.Fatalf("unexpected local listing: %+v", response.LocalListing)
	}
	if len(response.RemoteMatches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(response.RemoteMatches))
	}
	if _, ok := response.RemoteMatches[0]["salary"]; !ok {
		t.Fatalf("expected salary on the first match: %v", response.RemoteMatches[0])
	}
	if _, ok := response.RemoteMatches[1]["salary"]; ok {
		t.Fatalf("expected no salary key when the provider omits it: %v", response.RemoteMatches[1])
	}
}

func TestSimilarListingsUnknownIDSkipsProviders(t *testing.T) {
	searcher := &fakeSearcher{}
	api := testAPI(t, searcher, nil)

	recorder := httptest.NewRecorder()
	api.SimilarListings(recorder, httptest.NewRequest(http.MethodGet, "/listings/999/similar", nil))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	if searcher.calls != 0 {
		t.Fatalf("expected zero provider calls for unknown listing, got %d", searcher.calls)
	}
}

func TestSimilarListingsRejectsBadID(t *testing.T) {
	api := testAPI(t, &fakeSearcher{}, nil)

	recorder := httptest.NewRecorder()
	api.SimilarListings(recorder, httptest.NewRequest(http.MethodGet, "/listings/abc/similar", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-integer id, got %d", recorder.Code)
	}
}

func TestSimilarListingsUnknownActionIsNotFound(t *testing.T) {
	api := testAPI(t, &fakeSearcher{}, nil)

	recorder := httptest.NewRecorder()
	api.SimilarListings(recorder, httptest.NewRequest(http.MethodGet, "/listings/1/related", nil))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown action, got %d", recorder.Code)
	}
}

func TestLocalSearchReturnsListings(t *testing.T) {
	searcher := &fakeSearcher{}
	api := testAPI(t, searcher, nil)

	recorder := httptest.NewRecorder()
	api.LocalSearch(recorder, httptest.NewRequest(http.MethodGet, "/search?q=distributed", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", recorder.Code, recorder.Body.String())
	}
	var results []domain.ListingWithCompany
	if err := json.Unmarshal(recorder.Body.Bytes(), &results); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(results) != 1 || results[0].Company != "Acme Robotics" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if searcher.calls != 0 {
		t.Fatalf("local search must not dial providers, got %d calls", searcher.calls)
	}
}

func TestLocalSearchRequiresQuery(t *testing.T) {
	api := testAPI(t, &fakeSearcher{}, nil)

	recorder := httptest.NewRecorder()
	api.LocalSearch(recorder, httptest.NewRequest(http.MethodGet, "/search", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}
