package ask

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/germanamz/mpipe/pkg/chats/message"
	"github.com/germanamz/mpipe/pkg/config"
	"github.com/germanamz/mpipe/pkg/providers/provider"
)

// redactedAuth is what dry-run output shows instead of a credential. The
// real key is never read on that path.
const redactedAuth = "Bearer ***REDACTED***"

// requestJSON is the echoed request options sub-object. It is shared by the
// dry-run and live envelopes so their shapes stay identical.
type requestJSON struct {
	Temperature  *float64 `json:"temperature"`
	MaxTokens    *int     `json:"max_tokens"`
	TimeoutSecs  *int     `json:"timeout_secs"`
	Retries      int      `json:"retries"`
	RetryDelayMS int      `json:"retry_delay_ms"`
}

type liveJSON struct {
	Provider  string      `json:"provider"`
	Model     string      `json:"model"`
	Answer    string      `json:"answer"`
	LatencyMS int64       `json:"latency_ms"`
	Request   requestJSON `json:"request"`
	Usage     *usageJSON  `json:"usage,omitempty"`
}

type usageJSON struct {
	PromptTokens     *int `json:"prompt_tokens"`
	CompletionTokens *int `json:"completion_tokens"`
	TotalTokens      *int `json:"total_tokens"`
}

type dryRunJSON struct {
	DryRun        bool              `json:"dry_run"`
	Provider      string            `json:"provider"`
	Endpoint      string            `json:"endpoint"`
	Model         string            `json:"model"`
	Messages      []message.Message `json:"messages"`
	Request       requestJSON       `json:"request"`
	Output        string            `json:"output"`
	ShowUsage     bool              `json:"show_usage"`
	Authorization string            `json:"authorization"`
}

func requestOf(req config.Request) requestJSON {
	return requestJSON{
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		TimeoutSecs:  req.Timeout,
		Retries:      req.Retries,
		RetryDelayMS: req.RetryDelay,
	}
}

// usageOf drops a usage block whose fields are all absent, so the JSON
// envelope omits it entirely.
func usageOf(u *provider.Usage) *usageJSON {
	if u == nil {
		return nil
	}
	if u.PromptTokens == nil && u.CompletionTokens == nil && u.TotalTokens == nil {
		return nil
	}

	return &usageJSON{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

func renderDryRun(req config.Request, msgs []message.Message) (string, error) {
	out := dryRunJSON{
		DryRun:        true,
		Provider:      req.Provider.String(),
		Endpoint:      req.Provider.Endpoint(),
		Model:         req.Model,
		Messages:      msgs,
		Request:       requestOf(req),
		Output:        string(req.Output),
		ShowUsage:     req.ShowUsage,
		Authorization: redactedAuth,
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to serialize dry-run output: %w", err)
	}

	return string(raw) + "\n", nil
}

func renderLive(req config.Request, resp provider.AskResponse, latencyMS int64) (string, error) {
	if req.Output == config.Text {
		return resp.Content, nil
	}

	out := liveJSON{
		Provider:  req.Provider.String(),
		Model:     req.Model,
		Answer:    resp.Content,
		LatencyMS: latencyMS,
		Request:   requestOf(req),
		Usage:     usageOf(resp.Usage),
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to serialize JSON output: %w", err)
	}

	return string(raw) + "\n", nil
}

// renderMarkdown formats a text answer for the terminal. Rendering failures
// fall back to the raw answer; the primary channel never breaks over
// styling.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}

	rendered, err := r.Render(text)
	if err != nil {
		return text
	}

	return rendered
}

// printUsage reports token usage and latency on the side channel, separate
// from the primary answer so piped output stays clean.
func printUsage(w io.Writer, usage *provider.Usage, latencyMS int64) {
	if u := usageOf(usage); u != nil {
		fmt.Fprintf(w, "usage: prompt_tokens=%s completion_tokens=%s total_tokens=%s latency_ms=%d\n",
			naInt(u.PromptTokens), naInt(u.CompletionTokens), naInt(u.TotalTokens), latencyMS)
		return
	}

	fmt.Fprintf(w, "usage: unavailable latency_ms=%d\n", latencyMS)
}

func naInt(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}

func naFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%v", *v)
}
