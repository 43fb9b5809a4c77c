package dto

import "github.com/noah-isme/program-workboard-api/internal/assistant"

// ChatMessageRequest captures POST /assistant/chats/:id/messages payload.
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// ChatResponse returns a chat session and its visible history.
type ChatResponse struct {
	SessionID string              `json:"sessionId"`
	Reply     string              `json:"reply,omitempty"`
	Messages  []assistant.Message `json:"messages"`
}

// SummaryResponse returns the generated priority summary.
type SummaryResponse struct {
	Summary  string                   `json:"summary"`
	Requests []assistant.SummaryEntry `json:"requests"`
}
