// Package ask implements the single-shot ask use case: prompt composition,
// configuration resolution, provider dispatch, and output rendering.
package ask

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/germanamz/mpipe/pkg/chats/message"
	"github.com/germanamz/mpipe/pkg/config"
	"github.com/germanamz/mpipe/pkg/fileout"
	"github.com/germanamz/mpipe/pkg/providers/fireworks"
	"github.com/germanamz/mpipe/pkg/providers/openai"
	"github.com/germanamz/mpipe/pkg/providers/provider"
)

// Options carries everything one invocation needs. Stdout/Stderr and
// NewAsker default to the real ones; tests inject their own.
type Options struct {
	Inputs       config.Inputs
	ProfileName  string
	Prompt       string // main prompt text
	PrePrompt    string
	PostPrompt   string
	PromptSource string // "argument" or "stdin", for diagnostics only

	DryRun      bool
	Verbose     bool
	FailOnEmpty bool
	Render      bool // render a text answer as terminal markdown
	SavePath    string

	Stdout io.Writer
	Stderr io.Writer

	// NewAsker builds the wire adapter for the resolved provider. Nil means
	// the default registry dispatch.
	NewAsker func(id provider.ID, model string) (provider.Asker, error)
}

func (o *Options) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

func (o *Options) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

// newAsker is the provider dispatch: one switch, one adapter per variant.
func newAsker(id provider.ID, model string) (provider.Asker, error) {
	switch id {
	case provider.OpenAI:
		return openai.NewFromEnv(model)
	case provider.Fireworks:
		return fireworks.NewFromEnv(model)
	}
	return nil, fmt.Errorf("unsupported provider %q", id)
}

// Run performs one ask invocation end to end. Every failure is returned to
// the caller; nothing is swallowed.
func Run(ctx context.Context, opts Options) error {
	prof, file, err := config.LoadProfile(opts.ProfileName)
	if err != nil {
		return err
	}

	req, err := config.Resolve(opts.Inputs, prof, file)
	if err != nil {
		return err
	}

	prompt := ComposePrompt(opts.PrePrompt, opts.Prompt, opts.PostPrompt)
	msgs := BuildMessages(req.System, prompt)

	if opts.Verbose {
		logVerbose(opts, req, msgs)
	}

	if opts.DryRun {
		rendered, err := renderDryRun(req, msgs)
		if err != nil {
			return err
		}

		if err := emit(opts, rendered); err != nil {
			return err
		}

		if req.ShowUsage {
			fmt.Fprintln(opts.stderr(), "usage: unavailable latency_ms=0 (dry-run)")
		}

		return nil
	}

	dispatch := opts.NewAsker
	if dispatch == nil {
		dispatch = newAsker
	}

	asker, err := dispatch(req.Provider, req.Model)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := asker.Ask(ctx, msgs, askOptions(req))
	if err != nil {
		return err
	}
	latencyMS := time.Since(start).Milliseconds()

	if opts.FailOnEmpty && strings.TrimSpace(resp.Content) == "" {
		return fmt.Errorf("model response is empty and --fail-on-empty is enabled")
	}

	if req.ShowUsage {
		printUsage(opts.stderr(), resp.Usage, latencyMS)
	}

	rendered, err := renderLive(req, resp, latencyMS)
	if err != nil {
		return err
	}

	display := rendered
	if opts.Render && req.Output == config.Text {
		display = renderMarkdown(rendered)
	}

	if _, err := io.WriteString(opts.stdout(), display); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if opts.SavePath != "" {
		// The saved copy is always the unstyled rendering.
		return fileout.Write(opts.SavePath, []byte(rendered))
	}

	return nil
}

// emit writes the rendered output to stdout and, when requested, to the
// save path.
func emit(opts Options, rendered string) error {
	if _, err := io.WriteString(opts.stdout(), rendered); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if opts.SavePath != "" {
		return fileout.Write(opts.SavePath, []byte(rendered))
	}

	return nil
}

// askOptions converts a resolved Request into the canonical adapter options.
func askOptions(req config.Request) provider.AskOptions {
	opts := provider.AskOptions{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Retries:     req.Retries,
		RetryDelay:  time.Duration(req.RetryDelay) * time.Millisecond,
	}

	if req.Timeout != nil {
		opts.Timeout = time.Duration(*req.Timeout) * time.Second
	}

	return opts
}

// logVerbose emits two diagnostic events on the side channel. Credentials
// are reduced to a presence boolean, never a value.
func logVerbose(opts Options, req config.Request, msgs []message.Message) {
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:          opts.stderr(),
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	})

	chars := 0
	for _, m := range msgs {
		chars += len([]rune(m.Content))
	}

	log.Info().
		Str("provider", req.Provider.String()).
		Str("endpoint", req.Provider.Endpoint()).
		Str("model", req.Model).
		Str("output", string(req.Output)).
		Bool("dry_run", opts.DryRun).
		Bool("show_usage", req.ShowUsage).
		Str("prompt_source", opts.PromptSource).
		Int("messages", len(msgs)).
		Int("chars", chars).
		Bool("api_key_present", req.Provider.KeyPresent()).
		Msg("request")

	log.Info().
		Str("temperature", naFloat(req.Temperature)).
		Str("max_tokens", naInt(req.MaxTokens)).
		Str("timeout_secs", naInt(req.Timeout)).
		Int("retries", req.Retries).
		Int("retry_delay_ms", req.RetryDelay).
		Str("backoff", "exponential").
		Msg("options")
}
