// Package message defines the Message type used in LLM conversations.
package message

import "github.com/germanamz/mpipe/pkg/chats/role"

// Message represents a single message in a conversation. It is a value type
// that copies cheaply. The field order mirrors the chat-completions wire
// format so a slice of messages can be marshaled directly.
type Message struct {
	Role    role.Role `json:"role"`
	Content string    `json:"content"`
}

// New creates a message with the given role and content.
func New(r role.Role, content string) Message {
	return Message{Role: r, Content: content}
}

// System creates a system message.
func System(content string) Message {
	return New(role.System, content)
}

// User creates a user message.
func User(content string) Message {
	return New(role.User, content)
}
