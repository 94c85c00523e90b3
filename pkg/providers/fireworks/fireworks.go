// Package fireworks provides the wire adapter for the Fireworks AI
// chat-completions API, plus an embeddings client and function-calling tool
// schema helpers.
package fireworks

import (
	"context"
	"net/http"

	"github.com/germanamz/mpipe/pkg/chats/message"
	"github.com/germanamz/mpipe/pkg/modeladapter"
	"github.com/germanamz/mpipe/pkg/providers/provider"
)

var _ provider.Asker = (*Adapter)(nil)

// Adapter implements provider.Asker for the Fireworks chat-completions API.
// The API is OpenAI-compatible; Fireworks additionally accepts bound tool
// definitions on the request.
type Adapter struct {
	modeladapter.ModelAdapter

	tools []ToolDef
}

// New creates an Adapter for the given endpoint, key, and model.
// A nil client falls back to http.DefaultClient.
func New(endpoint, apiKey, model string, client *http.Client) *Adapter {
	a := &Adapter{
		ModelAdapter: modeladapter.New(endpoint, modeladapter.Auth{Key: apiKey}, client),
	}
	a.Provider = provider.Fireworks.String()
	a.Name = model

	return a
}

// NewFromEnv creates an Adapter against the production endpoint using the
// FIREWORKS_API_KEY environment variable.
func NewFromEnv(model string) (*Adapter, error) {
	key, ok := provider.Fireworks.Key()
	if !ok {
		return nil, &modeladapter.MissingKeyError{
			Provider: provider.Fireworks.String(),
			EnvVar:   provider.Fireworks.KeyEnv(),
		}
	}

	return New(provider.Fireworks.Endpoint(), key, model, nil), nil
}

// BindTools returns a copy of the adapter that declares the given tools on
// every request. The receiver is left untouched.
func (a *Adapter) BindTools(tools []ToolDef) *Adapter {
	bound := *a
	bound.tools = tools
	return &bound
}

// Ask sends the conversation to the chat-completions endpoint under the
// options' retry policy and returns the assistant's reply.
func (a *Adapter) Ask(ctx context.Context, msgs []message.Message, opts provider.AskOptions) (provider.AskResponse, error) {
	a.Timeout = opts.Timeout
	a.Retry = modeladapter.Policy{Retries: opts.Retries, BaseDelay: opts.RetryDelay}

	req := apiRequest{
		Model:       a.Name,
		Messages:    msgs,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Tools:       a.tools,
	}

	var resp apiResponse
	if err := a.PostJSON(ctx, req, &resp); err != nil {
		return provider.AskResponse{}, err
	}

	return parseResponse(a.Provider, resp)
}

func parseResponse(providerName string, resp apiResponse) (provider.AskResponse, error) {
	if len(resp.Choices) == 0 {
		return provider.AskResponse{}, &modeladapter.EmptyResponseError{Provider: providerName}
	}

	content := resp.Choices[0].Message.Content
	if content == nil || *content == "" {
		return provider.AskResponse{}, &modeladapter.EmptyResponseError{Provider: providerName}
	}

	out := provider.AskResponse{Content: *content}
	if resp.Usage != nil {
		out.Usage = &provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out, nil
}

// --- request types ---

type apiRequest struct {
	Model       string            `json:"model"`
	Messages    []message.Message `json:"messages"`
	Temperature *float64          `json:"temperature,omitempty"`
	MaxTokens   *int              `json:"max_tokens,omitempty"`
	Tools       []ToolDef         `json:"tools,omitempty"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   *apiUsage   `json:"usage"`
}

type apiChoice struct {
	Message apiRespMessage `json:"message"`
}

type apiRespMessage struct {
	Content *string `json:"content"`
}

type apiUsage struct {
	PromptTokens     *int `json:"prompt_tokens"`
	CompletionTokens *int `json:"completion_tokens"`
	TotalTokens      *int `json:"total_tokens"`
}
