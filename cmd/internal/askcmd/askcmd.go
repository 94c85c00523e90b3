// Package askcmd implements the ask command surface shared by the mpipe and
// mpask binaries: flag parsing, prompt acquisition, and the handoff to the
// ask orchestrator.
package askcmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/germanamz/mpipe/cmd/internal/buildinfo"
	"github.com/germanamz/mpipe/pkg/ask"
	"github.com/germanamz/mpipe/pkg/config"
	"github.com/germanamz/mpipe/pkg/providers/provider"
)

// Run parses args for the ask surface and executes it. withVersion adds the
// -V/--version flag (the mpask binary carries it; `mpipe ask` does not).
func Run(name string, args []string, withVersion bool) error {
	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))

	opts, showVersion, err := Parse(name, args, os.Stdin, stdinTTY, withVersion)
	if err != nil {
		return err
	}

	if showVersion {
		fmt.Println(buildinfo.Render())
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return ask.Run(ctx, opts)
}

// Parse builds ask options from the command line. stdin and stdinTTY are
// injectable so tests can script piped input.
func Parse(name string, args []string, stdin io.Reader, stdinTTY, withVersion bool) (ask.Options, bool, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [PROMPT]\n\nAsk a question to an LLM provider. With no PROMPT argument the prompt is\nread from piped stdin.\n\nFlags:\n", name)
		fs.PrintDefaults()
	}

	var showVersion bool
	if withVersion {
		fs.BoolVar(&showVersion, "V", false, "print version information")
		fs.BoolVar(&showVersion, "version", false, "print version information")
	}

	profile := fs.String("profile", "", "profile name from the config file")
	providerFlag := fs.String("provider", "", "provider to use (openai, fireworks)")
	model := fs.String("model", "", "model identifier")
	temperature := fs.Float64("temperature", 0, "sampling temperature in [0.0, 2.0]")
	maxTokens := fs.Int("max-tokens", 0, "maximum output tokens")
	timeout := fs.Int("timeout", 0, "per-attempt request timeout in seconds")
	retries := fs.Int("retries", 0, "retry attempts after the first failure")
	retryDelay := fs.Int("retry-delay", 0, "retry backoff base in milliseconds")
	output := fs.String("output", "", "output format (text, json)")
	jsonOut := fs.Bool("json", false, "shorthand for --output json")
	showUsage := fs.Bool("show-usage", false, "report token usage and latency on stderr")
	verbose := fs.Bool("verbose", false, "log request diagnostics on stderr")
	dryRun := fs.Bool("dry-run", false, "render the would-be request without network I/O")
	failOnEmpty := fs.Bool("fail-on-empty", false, "fail when the answer is empty after trimming")
	save := fs.String("save", "", "also write the output to this file atomically")
	system := fs.String("system", "", "system prompt")
	prePrompt := fs.String("prompt", "", "text prepended to the main prompt")
	postPrompt := fs.String("postprompt", "", "text appended to the main prompt")
	render := fs.Bool("render", false, "render a text answer as terminal markdown")
	envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")

	if err := fs.Parse(args); err != nil {
		return ask.Options{}, false, err
	}

	if showVersion {
		return ask.Options{}, true, nil
	}

	if err := loadDotEnv(*envFile); err != nil {
		return ask.Options{}, false, err
	}

	// Only flags the user actually set participate in the precedence chain.
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	in := config.Inputs{ShowUsage: *showUsage}

	if set["provider"] {
		id, err := provider.Parse(*providerFlag, "--provider")
		if err != nil {
			return ask.Options{}, false, err
		}
		in.Provider = &id
	}

	if set["model"] && strings.TrimSpace(*model) != "" {
		in.Model = model
	}
	if set["temperature"] {
		in.Temperature = temperature
	}
	if set["max-tokens"] {
		in.MaxTokens = maxTokens
	}
	if set["timeout"] {
		in.Timeout = timeout
	}
	if set["retries"] {
		in.Retries = retries
	}
	if set["retry-delay"] {
		in.RetryDelay = retryDelay
	}
	if set["system"] {
		in.System = system
	}

	switch {
	case *jsonOut:
		f := config.JSON
		in.Output = &f
	case set["output"]:
		f, err := config.ParseFormat(*output, "--output")
		if err != nil {
			return ask.Options{}, false, err
		}
		in.Output = &f
	}

	prompt, source, err := resolvePrompt(fs.Arg(0), stdin, stdinTTY)
	if err != nil {
		return ask.Options{}, false, err
	}

	return ask.Options{
		Inputs:       in,
		ProfileName:  *profile,
		Prompt:       prompt,
		PrePrompt:    *prePrompt,
		PostPrompt:   *postPrompt,
		PromptSource: source,
		DryRun:       *dryRun,
		Verbose:      *verbose,
		FailOnEmpty:  *failOnEmpty,
		Render:       *render,
		SavePath:     *save,
	}, false, nil
}

// resolvePrompt takes the positional argument when present, otherwise reads
// piped stdin. An interactive stdin with no argument is an error.
func resolvePrompt(arg string, stdin io.Reader, stdinTTY bool) (string, string, error) {
	if arg != "" {
		return arg, "argument", nil
	}

	if stdinTTY {
		return "", "", errors.New("no prompt provided: pass an argument or pipe stdin")
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", "", errors.New("prompt is empty")
	}

	return text, "stdin", nil
}

// loadDotEnv preloads environment variables from path. A missing file is
// fine; any other failure is not.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}

	return nil
}
