package handlers

import (
	"net/http"

	"github.com/jobby/job-board-back/internal/domain"
	"github.com/jobby/job-board-back/internal/service"
)

type chatRequest struct {
	History       []domain.ChatMessage `json:"history"`
	SearchHistory []string             `json:"search_history,omitempty"`
}

type chatResponse struct {
	Reply string          `json:"reply"`
	Jobs  []domain.JobRef `json:"jobs"`
}

// Chat serves POST /chat: the conversational assistant with history-derived
// job suggestions.
func (api *API) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}

	var request chatRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid JSON payload")
		return
	}

	output, err := api.assistant.Respond(r.Context(), service.AssistantInput{
		History:       request.History,
		SearchHistory: request.SearchHistory,
	})
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "completion_failed", "assistant is unavailable")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply: output.Reply,
		Jobs:  output.Jobs,
	})
}
