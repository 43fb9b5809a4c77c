package assistant

import (
	"context"
	"errors"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider produces a reply for a conversation.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ErrEmptyReply is returned when the provider answers without any choice.
var ErrEmptyReply = errors.New("assistant returned no reply")
