package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jobby/job-board-back/internal/ai"
	"github.com/jobby/job-board-back/internal/domain"
)

const assistantPersona = "You are Jobby, a concise, friendly job-search assistant. " +
	"If you see job titles, suggest actions or next steps."

const (
	defaultChatMaxTokens   = 120
	defaultChatTemperature = 0.7
)

// SuggestionBuilder turns recent search terms into a bounded suggestion
// set, reporting the terms it used.
type SuggestionBuilder interface {
	Build(ctx context.Context, history []string) ([]domain.Job, []string)
}

type AssistantDependencies struct {
	Completer   ai.ChatCompleter
	Suggestions SuggestionBuilder
	MaxTokens   int
	Temperature float64
	Logger      *log.Logger
}

// AssistantService assembles the bounded chat-completion request: persona
// prompt, trusted conversation history and an optional system note carrying
// history-derived job suggestions.
type AssistantService struct {
	completer   ai.ChatCompleter
	suggestions SuggestionBuilder
	maxTokens   int
	temperature float64
	logger      *log.Logger
}

func NewAssistantService(deps AssistantDependencies) *AssistantService {
	if deps.MaxTokens <= 0 {
		deps.MaxTokens = defaultChatMaxTokens
	}
	if deps.Temperature <= 0 {
		deps.Temperature = defaultChatTemperature
	}

	return &AssistantService{
		completer:   deps.Completer,
		suggestions: deps.Suggestions,
		maxTokens:   deps.MaxTokens,
		temperature: deps.Temperature,
		logger:      deps.Logger,
	}
}

type AssistantInput struct {
	History       []domain.ChatMessage
	SearchHistory []string
}

type AssistantOutput struct {
	Reply string
	Jobs  []domain.JobRef
}

// Respond builds the message sequence and invokes the completion
// capability. Suggestion gathering degrades to an empty set and never
// blocks the reply; a completion failure is fatal for the request.
func (s *AssistantService) Respond(ctx context.Context, input AssistantInput) (AssistantOutput, error) {
	messages := make([]domain.ChatMessage, 0, len(input.History)+2)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.RoleSystem,
		Content: assistantPersona,
	})
	for _, message := range input.History {
		switch message.Role {
		case domain.RoleUser, domain.RoleAssistant:
			messages = append(messages, message)
		default:
			// Untrusted roles from callers are dropped, not rejected.
		}
	}

	var suggested []domain.Job
	if len(input.SearchHistory) > 0 && s.suggestions != nil {
		jobs, terms := s.suggestions.Build(ctx, input.SearchHistory)
		suggested = jobs
		if len(suggested) > 0 {
			messages = append(messages, domain.ChatMessage{
				Role:    domain.RoleSystem,
				Content: suggestionNote(terms, suggested),
			})
		}
	}

	reply, err := s.completer.Complete(ctx, messages, s.maxTokens, s.temperature)
	if err != nil {
		s.logf("chat completion failed: %v", err)
		return AssistantOutput{}, fmt.Errorf("complete chat: %w", err)
	}

	return AssistantOutput{
		Reply: strings.TrimSpace(reply),
		Jobs:  projectJobs(suggested),
	}, nil
}

// suggestionNote summarizes the recent terms and the suggested titles so
// the model can reference them naturally.
func suggestionNote(terms []string, jobs []domain.Job) string {
	titles := make([]string, 0, len(jobs))
	for _, job := range jobs {
		titles = append(titles, job.Title)
	}
	return fmt.Sprintf(
		"Recent searches: %s. Here are some possible matches: %s",
		strings.Join(terms, ", "),
		strings.Join(titles, ", "),
	)
}

func projectJobs(jobs []domain.Job) []domain.JobRef {
	refs := make([]domain.JobRef, 0, len(jobs))
	for _, job := range jobs {
		refs = append(refs, domain.JobRef{
			Title:   job.Title,
			Company: job.Company,
			URL:     job.URL,
		})
	}
	return refs
}

func (s *AssistantService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
