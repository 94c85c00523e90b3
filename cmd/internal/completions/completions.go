// Package completions generates shell completion scripts for the mpipe
// binary. The scripts are handwritten; the command surface is small and
// stable.
package completions

import "fmt"

// askFlags are the long options of the ask command, shared by all scripts.
const askFlags = "--profile --provider --model --temperature --max-tokens --timeout --retries --retry-delay --output --json --show-usage --verbose --dry-run --fail-on-empty --save --system --prompt --postprompt --render --env"

const bashScript = `# bash completion for mpipe
_mpipe() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="ask config completion version"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
        return 0
    fi

    case "${COMP_WORDS[1]}" in
        ask)
            case "${prev}" in
                --provider)
                    COMPREPLY=( $(compgen -W "openai fireworks" -- "${cur}") )
                    return 0 ;;
                --output)
                    COMPREPLY=( $(compgen -W "text json" -- "${cur}") )
                    return 0 ;;
                --save|--env)
                    COMPREPLY=( $(compgen -f -- "${cur}") )
                    return 0 ;;
            esac
            COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
            ;;
        config)
            COMPREPLY=( $(compgen -W "check --profile" -- "${cur}") )
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )
            ;;
    esac
    return 0
}
complete -F _mpipe mpipe
`

const zshScript = `#compdef mpipe

_mpipe() {
    local -a commands
    commands=(
        'ask:Ask a question to an LLM provider'
        'config:Manage local config'
        'completion:Generate shell completion script'
        'version:Print version information'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case ${words[2]} in
        ask)
            _arguments \
                '--provider[provider to use]:provider:(openai fireworks)' \
                '--output[output format]:format:(text json)' \
                '--save[write output to file]:file:_files' \
                '--env[.env file to preload]:file:_files' \
                '*:flag:(%s)'
            ;;
        config)
            _values 'subcommand' check
            ;;
        completion)
            _values 'shell' bash zsh fish
            ;;
    esac
}

_mpipe "$@"
`

const fishScript = `# fish completion for mpipe
complete -c mpipe -f
complete -c mpipe -n '__fish_use_subcommand' -a ask -d 'Ask a question to an LLM provider'
complete -c mpipe -n '__fish_use_subcommand' -a config -d 'Manage local config'
complete -c mpipe -n '__fish_use_subcommand' -a completion -d 'Generate shell completion script'
complete -c mpipe -n '__fish_use_subcommand' -a version -d 'Print version information'
complete -c mpipe -n '__fish_seen_subcommand_from ask' -l provider -xa 'openai fireworks'
complete -c mpipe -n '__fish_seen_subcommand_from ask' -l output -xa 'text json'
complete -c mpipe -n '__fish_seen_subcommand_from ask' -l save -r
complete -c mpipe -n '__fish_seen_subcommand_from ask' -l env -r
%s
complete -c mpipe -n '__fish_seen_subcommand_from config' -a check
complete -c mpipe -n '__fish_seen_subcommand_from completion' -xa 'bash zsh fish'
`

// Script returns the completion script for the given shell (bash, zsh, or
// fish).
func Script(shell string) (string, error) {
	switch shell {
	case "bash":
		return fmt.Sprintf(bashScript, askFlags), nil
	case "zsh":
		return fmt.Sprintf(zshScript, askFlags), nil
	case "fish":
		return fmt.Sprintf(fishScript, fishAskFlagLines()), nil
	}
	return "", fmt.Errorf("unsupported shell %q: supported values are bash, zsh, fish", shell)
}

// fishAskFlagLines renders one complete line per plain ask flag.
func fishAskFlagLines() string {
	flags := []string{
		"profile", "model", "temperature", "max-tokens", "timeout",
		"retries", "retry-delay", "json", "show-usage", "verbose",
		"dry-run", "fail-on-empty", "system", "prompt", "postprompt", "render",
	}

	lines := ""
	for i, f := range flags {
		if i > 0 {
			lines += "\n"
		}
		lines += fmt.Sprintf("complete -c mpipe -n '__fish_seen_subcommand_from ask' -l %s", f)
	}

	return lines
}
