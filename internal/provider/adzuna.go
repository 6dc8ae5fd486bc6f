package provider

import (
	"bytes"
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

const (
	defaultAdzunaBaseURL = "https://api.adzuna.com/v1/api"
	defaultAdzunaCountry = "us"
)

// AdzunaAdapter queries the Adzuna job-search API. It owns the app
// credentials; they are fixed at construction time.
type AdzunaAdapter struct {
	baseURL    string
	appID      string
	appKey     string
	country    string
	httpClient *http.Client
}

func NewAdzunaAdapter(config Config) *AdzunaAdapter {
	baseURL := strings.TrimSpace(config.AdzunaBaseURL)
	if baseURL == "" {
		baseURL = defaultAdzunaBaseURL
	}
	country := strings.TrimSpace(config.AdzunaCountry)
	if country == "" {
		country = defaultAdzunaCountry
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &AdzunaAdapter{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		appID:      strings.TrimSpace(config.AdzunaAppID),
		appKey:     strings.TrimSpace(config.AdzunaAppKey),
		country:    country,
		httpClient: httpClient,
	}
}

func (a *AdzunaAdapter) Source() domain.Source {
	return domain.SourceAdzuna
}

type adzunaResult struct {
	ID      json.Number `json:"id"`
	Title   string      `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	SalaryMin         *float64        `json:"salary_min"`
	SalaryMax         *float64        `json:"salary_max"`
	SalaryIsPredicted json.RawMessage `json:"salary_is_predicted"`
	RedirectURL       string          `json:"redirect_url"`
	Created           string          `json:"created"`
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

func (a *AdzunaAdapter) Search(ctx context.Context, term string, limit int) ([]domain.Job, error) {
	query := url.Values{}
	query.Set("app_id", a.appID)
	query.Set("app_key", a.appKey)
	query.Set("results_per_page", strconv.Itoa(limit))
	query.Set("what", term)

	endpoint := fmt.Sprintf("%s/jobs/%s/search/1?%s", a.baseURL, a.country, query.Encode())
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create adzuna request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := a.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("adzuna transport error: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &StatusError{Source: domain.SourceAdzuna, StatusCode: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read adzuna body: %w", err)
	}

	var decoded adzunaResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode adzuna response: %w", err)
	}

	jobs := make([]domain.Job, 0, min(limit, len(decoded.Results)))
	for _, raw := range decoded.Results {
		if len(jobs) >= limit {
			break
		}
		job, ok := normalizeAdzuna(raw)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func normalizeAdzuna(raw adzunaResult) (domain.Job, bool) {
	title := strings.TrimSpace(raw.Title)
	company := strings.TrimSpace(raw.Company.DisplayName)
	link := strings.TrimSpace(raw.RedirectURL)
	if title == "" || company == "" || link == "" {
		return domain.Job{}, false
	}

	location := strings.TrimSpace(raw.Location.DisplayName)
	if location == "" {
		location = "Remote"
	}

	return domain.Job{
		ID:              "adzuna_" + raw.ID.String(),
		Title:           title,
		Company:         company,
		Location:        location,
		Salary:          adzunaSalaryDisplay(raw),
		URL:             link,
		PublicationDate: strings.TrimSpace(raw.Created),
		Source:          domain.SourceAdzuna,
	}, true
}

// adzunaSalaryDisplay renders a best-effort salary string. Predicted
// estimates carry no display value; only provider-stated amounts are shown.
func adzunaSalaryDisplay(raw adzunaResult) string {
	if adzunaPredictedFlag(raw.SalaryIsPredicted) {
		return ""
	}
	switch {
	case raw.SalaryMin != nil && raw.SalaryMax != nil && *raw.SalaryMax > *raw.SalaryMin:
		return fmt.Sprintf("$%.0f - $%.0f", *raw.SalaryMin, *raw.SalaryMax)
	case raw.SalaryMin != nil:
		return fmt.Sprintf("$%.0f", *raw.SalaryMin)
	case raw.SalaryMax != nil:
		return fmt.Sprintf("$%.0f", *raw.SalaryMax)
	default:
		return ""
	}
}

// adzunaPredictedFlag tolerates the flag arriving as "1", 1 or true.
func adzunaPredictedFlag(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	switch string(bytes.Trim(trimmed, `"`)) {
	case "1", "true":
		return true
	default:
		return false
	}
}
