// Command mpipe is the multi-provider LLM CLI: ask a question, check the
// local config, or generate shell completions.
package main

import (
	"fmt"
	"os"

	"github.com/germanamz/mpipe/cmd/internal/askcmd"
	"github.com/germanamz/mpipe/cmd/internal/buildinfo"
	"github.com/germanamz/mpipe/cmd/internal/completions"
	"github.com/germanamz/mpipe/cmd/internal/configcmd"
)

func usage() {
	fmt.Fprint(os.Stderr, `Usage: mpipe <command> [flags]

Commands:
  ask         Ask a question to an LLM provider
  config      Manage local config (config check)
  completion  Generate shell completion script (bash, zsh, fish)
  version     Print version information

Examples:
  mpipe ask --provider fireworks --model accounts/fireworks/models/kimi-k2-instruct-0905 "2+2?"
  echo "2+2?" | mpipe ask --provider openai --model gpt-4o-mini
  mpipe config check
  mpipe completion bash > ~/.local/share/bash-completion/completions/mpipe
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error

	switch os.Args[1] {
	case "ask":
		err = askcmd.Run("mpipe ask", os.Args[2:], false)
	case "config":
		err = configcmd.Run(os.Args[2:], os.Stdout)
	case "completion":
		err = runCompletion(os.Args[2:])
	case "version":
		fmt.Println(buildinfo.Render())
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCompletion(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: mpipe completion <bash|zsh|fish>")
	}

	script, err := completions.Script(args[0])
	if err != nil {
		return err
	}

	fmt.Print(script)

	return nil
}
