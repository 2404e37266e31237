package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTitle is the placeholder title a conversation carries until the
// first user message overwrites it.
const DefaultTitle = "New Conversation"

type Message struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"` // user or assistant
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Provider       string    `json:"provider,omitempty"` // set on assistant messages only
}

type Conversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}
