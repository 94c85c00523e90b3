package ask

import (
	"strings"

	"github.com/germanamz/mpipe/pkg/chats/message"
)

// ComposePrompt joins the optional pre-prompt, the main prompt, and the
// optional post-prompt with blank lines, skipping segments that trim to
// empty.
func ComposePrompt(pre, main, post string) string {
	parts := make([]string, 0, 3)

	if strings.TrimSpace(pre) != "" {
		parts = append(parts, pre)
	}

	parts = append(parts, main)

	if strings.TrimSpace(post) != "" {
		parts = append(parts, post)
	}

	return strings.Join(parts, "\n\n")
}

// BuildMessages builds the canonical conversation: the system message, when
// non-blank, always precedes the single user message.
func BuildMessages(system, prompt string) []message.Message {
	msgs := make([]message.Message, 0, 2)

	if trimmed := strings.TrimSpace(system); trimmed != "" {
		msgs = append(msgs, message.System(trimmed))
	}

	msgs = append(msgs, message.User(prompt))

	return msgs
}
