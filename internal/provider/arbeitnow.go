package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jobby/job-board-back/internal/domain"
)

const defaultArbeitnowBaseURL = "https://www.arbeitnow.com/api"

// ArbeitnowAdapter queries the Arbeitnow job-board API. The API is keyless
// and paginates; one page is enough for suggestion-sized limits.
type ArbeitnowAdapter struct {
	baseURL    string
	httpClient *http.Client
}

func NewArbeitnowAdapter(config Config) *ArbeitnowAdapter {
	baseURL := strings.TrimSpace(config.ArbeitnowBaseURL)
	if baseURL == "" {
		baseURL = defaultArbeitnowBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &ArbeitnowAdapter{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (a *ArbeitnowAdapter) Source() domain.Source {
	return domain.SourceArbeitnow
}

type arbeitnowJob struct {
	Slug        string `json:"slug"`
	CompanyName string `json:"company_name"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	CreatedAt   int64  `json:"created_at"`
}

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

func (a *ArbeitnowAdapter) Search(ctx context.Context, term string, limit int) ([]domain.Job, error) {
	query := url.Values{}
	query.Set("search", term)
	query.Set("page", "1")

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		a.baseURL+"/job-board-api?"+query.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create arbeitnow request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := a.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("arbeitnow transport error: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{Source: domain.SourceArbeitnow, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read arbeitnow body: %w", err)
	}

	var decoded arbeitnowResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode arbeitnow response: %w", err)
	}

	jobs := make([]domain.Job, 0, min(limit, len(decoded.Data)))
	for _, raw := range decoded.Data {
		if len(jobs) >= limit {
			break
		}
		job, ok := normalizeArbeitnow(raw)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func normalizeArbeitnow(raw arbeitnowJob) (domain.Job, bool) {
	title := strings.TrimSpace(raw.Title)
	company := strings.TrimSpace(raw.CompanyName)
	link := strings.TrimSpace(raw.URL)
	if title == "" || company == "" || link == "" {
		return domain.Job{}, false
	}

	location := strings.TrimSpace(raw.Location)
	if location == "" {
		location = "Remote"
	}

	published := ""
	if raw.CreatedAt > 0 {
		published = time.Unix(raw.CreatedAt, 0).UTC().Format(time.RFC3339)
	}

	return domain.Job{
		ID:              "arbeitnow_" + raw.Slug,
		Title:           title,
		Company:         company,
		Location:        location,
		URL:             link,
		PublicationDate: published,
		Source:          domain.SourceArbeitnow,
	}, true
}
