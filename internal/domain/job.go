package domain

// Source identifies the external provider that produced a job record.
type Source string

const (
	SourceRemotive  Source = "remotive"
	SourceAdzuna    Source = "adzuna"
	SourceArbeitnow Source = "arbeitnow"
)

// Job is the canonical provider-agnostic job record. Instances live for a
// single request/response cycle and are never persisted.
type Job struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Salary          string `json:"salary,omitempty"`
	URL             string `json:"url"`
	PublicationDate string `json:"publication_date"`
	Source          Source `json:"-"`
}

// JobRef is the minimized projection of a Job exposed to chat callers.
type JobRef struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation with the assistant.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Listing is a job listing stored locally by an employer.
type Listing struct {
	ID          int64  `json:"id"`
	EmployerID  int64  `json:"employer_id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Experience  string `json:"experience"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
}

// ListingWithCompany merges a listing with its employer display name.
type ListingWithCompany struct {
	Listing
	Company string `json:"company"`
}
