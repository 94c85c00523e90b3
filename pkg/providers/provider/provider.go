// Package provider defines the closed set of supported LLM providers and the
// canonical request/response shapes shared by all wire adapters.
package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/germanamz/mpipe/pkg/chats/message"
)

// ID identifies a supported provider. The set is closed: adding a provider
// means adding a constant here, its registry entries below, and one adapter
// package.
type ID string

const (
	OpenAI    ID = "openai"
	Fireworks ID = "fireworks"
)

// IDs returns the supported providers in a stable order.
func IDs() []ID {
	return []ID{OpenAI, Fireworks}
}

// Parse matches raw case-insensitively against the known providers. The
// source label (e.g. "--provider", "MP_PROVIDER") names the offending tier
// in the error.
func Parse(raw, source string) (ID, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return OpenAI, nil
	case "fireworks":
		return Fireworks, nil
	}
	return "", fmt.Errorf("invalid %s %q: supported values are openai, fireworks", source, strings.TrimSpace(raw))
}

// String returns the canonical lowercase name.
func (id ID) String() string {
	return string(id)
}

// Endpoint returns the provider's chat-completions URL.
func (id ID) Endpoint() string {
	switch id {
	case Fireworks:
		return "https://api.fireworks.ai/inference/v1/chat/completions"
	default:
		return "https://api.openai.com/v1/chat/completions"
	}
}

// KeyEnv returns the name of the environment variable holding the provider's
// API key.
func (id ID) KeyEnv() string {
	switch id {
	case Fireworks:
		return "FIREWORKS_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// Key reads the provider's API key from the environment. The second return
// is false when the variable is absent or blank.
func (id ID) Key() (string, bool) {
	key := strings.TrimSpace(os.Getenv(id.KeyEnv()))
	return key, key != ""
}

// KeyPresent reports whether the credential variable is set to a non-blank
// value without exposing it. Used by dry-run/verbose diagnostics.
func (id ID) KeyPresent() bool {
	_, ok := id.Key()
	return ok
}

// AskOptions carries the per-request generation and transport settings.
// Nil pointer fields are omitted from the wire request.
type AskOptions struct {
	Temperature *float64
	MaxTokens   *int
	Timeout     time.Duration // per attempt; zero means none
	Retries     int
	RetryDelay  time.Duration
}

// Usage is the provider-reported token accounting. Fields the provider did
// not report stay nil.
type Usage struct {
	PromptTokens     *int
	CompletionTokens *int
	TotalTokens      *int
}

// AskResponse is the canonical result of one ask call.
type AskResponse struct {
	Content string
	Usage   *Usage
}

// Asker is implemented by each provider's wire adapter.
type Asker interface {
	Ask(ctx context.Context, msgs []message.Message, opts AskOptions) (AskResponse, error)
}
