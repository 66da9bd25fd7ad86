// Package domain defines the chat messages exchanged with completion providers.
package domain

// Role is the author of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry of a chat-completion conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
