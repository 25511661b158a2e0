package command

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/joeycumines/listbox/internal/config"
)

// CompletionCommand generates shell completion scripts.
type CompletionCommand struct {
	*BaseCommand
	registry *Registry
}

// NewCompletionCommand creates a new completion command.
func NewCompletionCommand(registry *Registry) *CompletionCommand {
	return &CompletionCommand{
		BaseCommand: NewBaseCommand(
			"completion",
			"Generate shell completion scripts",
			"completion [bash|zsh|fish]",
		),
		registry: registry,
	}
}

// Execute writes the completion script for the requested shell.
func (c *CompletionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 1 {
		_, _ = fmt.Fprintf(stderr, "Too many arguments: %v\n", args[1:])
		return fmt.Errorf("too many arguments")
	}

	shell := "bash"
	if len(args) > 0 {
		shell = strings.ToLower(args[0])
	}

	switch shell {
	case "bash":
		return c.generateBash(stdout)
	case "zsh":
		return c.generateZsh(stdout)
	case "fish":
		return c.generateFish(stdout)
	default:
		_, _ = fmt.Fprintf(stderr, "Unsupported shell: %s\n", shell)
		_, _ = fmt.Fprintln(stderr, "Supported shells: bash, zsh, fish")
		return fmt.Errorf("unsupported shell: %s", shell)
	}
}

// flagNames returns the "--name" form of every flag cmd registers.
func flagNames(cmd Command) []string {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetupFlags(fs)
	var names []string
	fs.VisitAll(func(f *flag.Flag) {
		names = append(names, "--"+f.Name)
	})
	return names
}

// configWords lists the arguments config accepts in first position.
func configWords() []string {
	words := []string{"validate", "schema"}
	for _, opt := range config.DefaultSchema().GlobalOptions() {
		words = append(words, opt.Key)
	}
	return words
}

func (c *CompletionCommand) generateBash(w io.Writer) error {
	var cases strings.Builder
	for _, name := range c.registry.List() {
		cmd, err := c.registry.Get(name)
		if err != nil {
			continue
		}
		words := flagNames(cmd)
		switch name {
		case "help":
			words = append(words, c.registry.List()...)
		case "completion":
			words = append(words, "bash", "zsh", "fish")
		case "config":
			words = append(words, configWords()...)
		}
		if len(words) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n            ;;\n",
			name, strings.Join(words, " "))
	}

	_, err := fmt.Fprintf(w, `#!/bin/bash
# Bash completion script for listbox

_listbox_completion() {
    local cur cmd
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=($(compgen -W %q -- "${cur}"))
        return 0
    fi

    cmd="${COMP_WORDS[1]}"
    case "${cmd}" in
%s        *)
            COMPREPLY=($(compgen -f -- "${cur}"))
            ;;
    esac
    return 0
}

complete -F _listbox_completion listbox

# Install: source <(listbox completion bash)
`, strings.Join(c.registry.List(), " "), cases.String())
	return err
}

func (c *CompletionCommand) generateZsh(w io.Writer) error {
	var commands strings.Builder
	for _, name := range c.registry.List() {
		if cmd, err := c.registry.Get(name); err == nil {
			_, _ = fmt.Fprintf(&commands, "                %s\n", zshQuote(name+":"+cmd.Description()))
		}
	}

	_, err := fmt.Fprintf(w, `#compdef listbox

# Zsh completion script for listbox

_listbox() {
    local state
    _arguments -C \
        '1: :->commands' \
        '*: :->args' && return 0

    case "$state" in
        commands)
            local commands
            commands=(
%s            )
            _describe 'commands' commands
            ;;
        args)
            case ${words[2]} in
                completion)
                    _values 'shell' 'bash' 'zsh' 'fish'
                    ;;
                config)
                    _values 'key' %s
                    ;;
                *)
                    _files
                    ;;
            esac
            ;;
    esac
}

_listbox "$@"

# Install: copy to a directory in $fpath, or source <(listbox completion zsh)
`, commands.String(), zshQuoteAll(configWords()))
	return err
}

func (c *CompletionCommand) generateFish(w io.Writer) error {
	var b strings.Builder
	for _, name := range c.registry.List() {
		cmd, err := c.registry.Get(name)
		if err != nil {
			continue
		}
		_, _ = fmt.Fprintf(&b, "complete -c listbox -n '__fish_use_subcommand' -a '%s' -d %s\n",
			name, fishQuote(cmd.Description()))
		for _, f := range flagNames(cmd) {
			_, _ = fmt.Fprintf(&b, "complete -c listbox -n '__fish_seen_subcommand_from %s' -l '%s'\n",
				name, strings.TrimPrefix(f, "--"))
		}
	}

	_, err := fmt.Fprintf(w, `# Fish completion script for listbox

%s
complete -c listbox -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish' -d 'Shell'
complete -c listbox -n '__fish_seen_subcommand_from config' -a '%s'

# Install: listbox completion fish > ~/.config/fish/completions/listbox.fish
`, b.String(), strings.Join(configWords(), " "))
	return err
}

// fishQuote single-quotes s for fish, escaping embedded quotes.
func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

// zshQuote single-quotes s for zsh.
func zshQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func zshQuoteAll(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = zshQuote(w)
	}
	return strings.Join(quoted, " ")
}
