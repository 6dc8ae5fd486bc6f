package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jobby/job-board-back/internal/aggregate"
	"github.com/jobby/job-board-back/internal/ai"
	"github.com/jobby/job-board-back/internal/cache"
	"github.com/jobby/job-board-back/internal/domain"
	httpserver "github.com/jobby/job-board-back/internal/http"
	"github.com/jobby/job-board-back/internal/http/handlers"
	"github.com/jobby/job-board-back/internal/provider"
	"github.com/jobby/job-board-back/internal/repository"
	"github.com/jobby/job-board-back/internal/service"
	"github.com/jobby/job-board-back/internal/suggest"
)

type integrationRuntime struct {
	server   *httptest.Server
	upstream *upstreamFakes
	close    func()
}

// upstreamFakes hosts stand-ins for every external API the service dials.
type upstreamFakes struct {
	remotive  *httptest.Server
	adzuna    *httptest.Server
	arbeitnow *httptest.Server
	openai    *httptest.Server

	lastCompletionMessages []map[string]any
}

func startUpstreamFakes(t *testing.T) *upstreamFakes {
	t.Helper()
	fakes := &upstreamFakes{}

	fakes.remotive = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"jobs": [
				{"id": 1, "title": "Go Developer", "company_name": "Acme", "candidate_required_location": "Worldwide", "url": "https://remotive.test/1", "publication_date": "2024-06-01"},
				{"id": 2, "title": "Backend Engineer", "company_name": "Globex", "url": "https://remotive.test/2", "publication_date": "2024-06-02"}
			]
		}`))
	}))

	fakes.adzuna = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("what")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"results": [
				{"id": 10, "title": "%[1]s Specialist", "company": {"display_name": "Initech"}, "location": {"display_name": "Austin"}, "salary_min": 100000, "salary_max": 130000, "salary_is_predicted": "0", "redirect_url": "https://adzuna.test/%[1]s-1", "created": "2024-06-03"},
				{"id": 11, "title": "Senior %[1]s Role", "company": {"display_name": "Hooli"}, "redirect_url": "https://adzuna.test/%[1]s-2", "created": "2024-06-04"}
			]
		}`, term)
	}))

	fakes.arbeitnow = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"slug": "platform-1", "company_name": "Umbrella", "title": "Platform Engineer", "location": "Berlin", "url": "https://arbeitnow.test/1", "created_at": 1717372800}
			]
		}`))
	}))

	fakes.openai = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []map[string]any `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode completion payload: %v", err)
		}
		fakes.lastCompletionMessages = payload.Messages

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-3.5-turbo",
			"choices": [{"message": {"role": "assistant", "content": "Here are a few roles worth a look."}}]
		}`))
	}))

	return fakes
}

func (f *upstreamFakes) closeAll() {
	f.remotive.Close()
	f.adzuna.Close()
	f.arbeitnow.Close()
	f.openai.Close()
}

func startIntegrationRuntime(t *testing.T) integrationRuntime {
	t.Helper()

	upstream := startUpstreamFakes(t)
	logger := log.New(io.Discard, "", 0)

	providerConfig := provider.Config{
		RemotiveBaseURL:  upstream.remotive.URL,
		AdzunaBaseURL:    upstream.adzuna.URL,
		AdzunaAppID:      "test-id",
		AdzunaAppKey:     "test-key",
		ArbeitnowBaseURL: upstream.arbeitnow.URL,
	}
	aggregator := aggregate.New([]provider.Adapter{
		provider.NewRemotiveAdapter(providerConfig),
		provider.NewAdzunaAdapter(providerConfig),
		provider.NewArbeitnowAdapter(providerConfig),
	}, aggregate.Config{
		ProviderTimeout: 2 * time.Second,
		Cache:           cache.NewMemoryResults(cache.Config{TTL: time.Minute}),
		Logger:          logger,
	})

	repo := repository.NewMemoryListingsRepository()
	repo.AddEmployer(1, "Acme Robotics")
	repo.AddListing(domain.Listing{
		EmployerID:  1,
		Title:       "Go Developer",
		Location:    "Remote",
		Type:        "Full-time",
		Experience:  "Senior",
		Salary:      "$150k",
		Description: "Distributed schedulers in Go",
	})

	completer := ai.NewOpenAIClient(ai.OpenAIClientConfig{
		APIKey:  "integration-test-key",
		BaseURL: upstream.openai.URL,
	})
	assistant := service.NewAssistantService(service.AssistantDependencies{
		Completer:   completer,
		Suggestions: suggest.NewBuilder(aggregator, suggest.Config{}),
		Logger:      logger,
	})
	listings := service.NewListingsService(service.ListingsDependencies{
		Repository: repo,
		Searcher:   aggregator,
	})

	api := handlers.NewAPI(handlers.APIDependencies{
		Assistant: assistant,
		Listings:  listings,
		Searcher:  aggregator,
	})
	router := httpserver.NewRouter(httpserver.RouterDependencies{
		API:            api,
		Logger:         logger,
		AuthToken:      "",
		RateLimitRPS:   20000,
		RateLimitBurst: 20000,
	})

	server := httptest.NewServer(router)
	return integrationRuntime{
		server:   server,
		upstream: upstream,
		close: func() {
			server.Close()
			upstream.closeAll()
		},
	}
}

func getJSON(t *testing.T, client *http.Client, url string, target any) int {
	t.Helper()

	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build get request: %v", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		t.Fatalf("execute get request: %v", err)
	}
	defer response.Body.Close()

	raw, _ := io.ReadAll(response.Body)
	if len(raw) > 0 && target != nil {
		if err := json.Unmarshal(raw, target); err != nil {
			t.Fatalf("decode get response body (%d): %s", response.StatusCode, string(raw))
		}
	}
	return response.StatusCode
}

func postJSON(t *testing.T, client *http.Client, url string, payload any, target any) int {
	t.Helper()

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	request, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		t.Fatalf("execute request: %v", err)
	}
	defer response.Body.Close()

	raw, _ := io.ReadAll(response.Body)
	if len(raw) > 0 && target != nil {
		if err := json.Unmarshal(raw, target); err != nil {
			t.Fatalf("decode response body (%d): %s", response.StatusCode, string(raw))
		}
	}
	return response.StatusCode
}

func TestCriticalFlowsSearchSimilarChat(t *testing.T) {
	runtime := startIntegrationRuntime(t)
	defer runtime.close()

	client := runtime.server.Client()
	baseURL := runtime.server.URL

	var health map[string]any
	if status := getJSON(t, client, baseURL+"/healthz", &health); status != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", status)
	}

	var remoteJobs []map[string]any
	if status := getJSON(t, client, baseURL+"/remote?q=go", &remoteJobs); status != http.StatusOK {
		t.Fatalf("expected 200 from remote search, got %d", status)
	}
	if len(remoteJobs) != 2 {
		t.Fatalf("expected 2 normalized remotive jobs, got %+v", remoteJobs)
	}
	if remoteJobs[1]["location"] != "Remote" {
		t.Fatalf("expected location default on the second job, got %+v", remoteJobs[1])
	}

	var similar struct {
		LocalListing  map[string]any   `json:"local_listing"`
		RemoteMatches []map[string]any `json:"remote_matches"`
	}
	if status := getJSON(t, client, baseURL+"/listings/1/similar", &similar); status != http.StatusOK {
		t.Fatalf("expected 200 from similar listings, got %d", status)
	}
	if similar.LocalListing["title"] != "Go Developer" {
		t.Fatalf("expected the stored listing back, got %+v", similar.LocalListing)
	}
	if len(similar.RemoteMatches) == 0 {
		t.Fatalf("expected remote matches for a known listing")
	}

	if status := getJSON(t, client, baseURL+"/listings/999/similar", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown listing, got %d", status)
	}

	var localResults []map[string]any
	if status := getJSON(t, client, baseURL+"/search?q=scheduler", &localResults); status != http.StatusOK {
		t.Fatalf("expected 200 from local search, got %d", status)
	}
	if len(localResults) != 1 || localResults[0]["company"] != "Acme Robotics" {
		t.Fatalf("unexpected local search results: %+v", localResults)
	}
}

func TestChatFlowCarriesSuggestionsIntoCompletion(t *testing.T) {
	runtime := startIntegrationRuntime(t)
	defer runtime.close()

	client := runtime.server.Client()
	baseURL := runtime.server.URL

	var response struct {
		Reply string `json:"reply"`
		Jobs  []struct {
			Title   string `json:"title"`
			Company string `json:"company"`
			URL     string `json:"url"`
		} `json:"jobs"`
	}
	status := postJSON(t, client, baseURL+"/chat", map[string]any{
		"history": []map[string]string{
			{"role": "user", "content": "anything matching my searches?"},
		},
		"search_history": []string{"golang", "backend", "platform"},
	}, &response)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from chat, got %d", status)
	}

	if strings.TrimSpace(response.Reply) == "" {
		t.Fatalf("expected a non-empty reply")
	}
	if len(response.Jobs) == 0 || len(response.Jobs) > 4 {
		t.Fatalf("expected between 1 and 4 suggested jobs, got %d", len(response.Jobs))
	}
	seenTitles := make(map[string]bool, len(response.Jobs))
	for _, job := range response.Jobs {
		if seenTitles[job.Title] {
			t.Fatalf("duplicate suggestion title %q", job.Title)
		}
		seenTitles[job.Title] = true
	}

	messages := runtime.upstream.lastCompletionMessages
	if len(messages) != 3 {
		t.Fatalf("expected persona, user turn and suggestion note, got %d messages", len(messages))
	}
	if messages[0]["role"] != "system" || !strings.Contains(fmt.Sprintf("%v", messages[0]["content"]), "Jobby") {
		t.Fatalf("expected persona first, got %+v", messages[0])
	}
	note := fmt.Sprintf("%v", messages[2]["content"])
	if !strings.Contains(note, "Recent searches: golang, backend, platform") {
		t.Fatalf("expected suggestion note to list recent searches, got %q", note)
	}
	if !strings.Contains(note, "possible matches") {
		t.Fatalf("expected suggestion note to carry matches, got %q", note)
	}
}

func TestChatFlowFailsClosedWhenCompletionIsDown(t *testing.T) {
	runtime := startIntegrationRuntime(t)
	defer runtime.close()

	runtime.upstream.openai.Close()

	var errorBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
		RequestID string `json:"request_id"`
	}
	status := postJSON(t, runtime.server.Client(), runtime.server.URL+"/chat", map[string]any{
		"history": []map[string]string{{"role": "user", "content": "hi"}},
	}, &errorBody)

	if status != http.StatusBadGateway {
		t.Fatalf("expected 502 when completions are unreachable, got %d", status)
	}
	if errorBody.Error.Code != "completion_failed" {
		t.Fatalf("expected completion_failed, got %q", errorBody.Error.Code)
	}
	if strings.TrimSpace(errorBody.RequestID) == "" {
		t.Fatalf("expected a request id in the error envelope")
	}
}
