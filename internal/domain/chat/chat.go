// Package chat holds the message types exchanged with chat completion endpoints.
package chat

import "fmt"

// Roles accepted from clients.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxMessageLength bounds a single message's content.
const MaxMessageLength = 32 * 1024

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Validate checks the role and content size.
func (m Message) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("unknown role %q", m.Role)
	}
	if len(m.Content) > MaxMessageLength {
		return fmt.Errorf("message too long (max %d bytes)", MaxMessageLength)
	}
	return nil
}

// UserPrompt wraps text as a single user message.
func UserPrompt(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}
