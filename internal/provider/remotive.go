package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jobby/job-board-back/internal/domain"
)

const defaultRemotiveBaseURL = "https://remotive.com/api"

// RemotiveAdapter queries the Remotive remote-jobs API.
type RemotiveAdapter struct {
	baseURL    string
	httpClient *http.Client
}

func NewRemotiveAdapter(config Config) *RemotiveAdapter {
	baseURL := strings.TrimSpace(config.RemotiveBaseURL)
	if baseURL == "" {
		baseURL = defaultRemotiveBaseURL
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &RemotiveAdapter{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (a *RemotiveAdapter) Source() domain.Source {
	return domain.SourceRemotive
}

type remotiveJob struct {
	ID                        json.Number `json:"id"`
	Title                     string      `json:"title"`
	CompanyName               string      `json:"company_name"`
	CandidateRequiredLocation string      `json:"candidate_required_location"`
	Salary                    string      `json:"salary"`
	URL                       string      `json:"url"`
	PublicationDate           string      `json:"publication_date"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

func (a *RemotiveAdapter) Search(ctx context.Context, term string, limit int) ([]domain.Job, error) {
	query := url.Values{}
	query.Set("search", term)
	query.Set("limit", strconv.Itoa(limit))

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		a.baseURL+"/remote-jobs?"+query.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create remotive request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := a.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("remotive transport error: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{Source: domain.SourceRemotive, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read remotive body: %w", err)
	}

	var decoded remotiveResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode remotive response: %w", err)
	}

	jobs := make([]domain.Job, 0, min(limit, len(decoded.Jobs)))
	for _, raw := range decoded.Jobs {
		if len(jobs) >= limit {
			break
		}
		job, ok := normalizeRemotive(raw)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// normalizeRemotive maps one raw Remotive record into the canonical shape.
// Records missing a required field are skipped, not errored.
func normalizeRemotive(raw remotiveJob) (domain.Job, bool) {
	title := strings.TrimSpace(raw.Title)
	company := strings.TrimSpace(raw.CompanyName)
	link := strings.TrimSpace(raw.URL)
	if title == "" || company == "" || link == "" {
		return domain.Job{}, false
	}

	location := strings.TrimSpace(raw.CandidateRequiredLocation)
	if location == "" {
		location = "Remote"
	}

	return domain.Job{
		ID:              "remotive_" + raw.ID.String(),
		Title:           title,
		Company:         company,
		Location:        location,
		Salary:          strings.TrimSpace(raw.Salary),
		URL:             link,
		PublicationDate: strings.TrimSpace(raw.PublicationDate),
		Source:          domain.SourceRemotive,
	}, true
}
