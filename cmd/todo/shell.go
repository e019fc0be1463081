package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const shellPrompt = "todo> "

const shellHelp = "# Available commands\n\n" +
	"| Command | Description |\n" +
	"|---|---|\n" +
	"| `add \"description\" [--priority high\\|medium\\|low] [--tags tag1,tag2]` | Add a new task (default priority: medium) |\n" +
	"| `list [--filter completed\\|pending]` | List tasks, optionally by status |\n" +
	"| `done <id>` | Mark a task as completed |\n" +
	"| `delete <id>` | Delete a task |\n" +
	"| `help` | Show this help message |\n" +
	"| `exit` | Quit the application |\n\n" +
	"## Examples\n\n" +
	"```\n" +
	"add \"Buy milk\" --priority high --tags shopping,food\n" +
	"list --filter pending\n" +
	"done 3\n" +
	"delete 5\n" +
	"```\n"

func shellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive to-do shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runShell(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runShell reads one command per line until exit or end of input.
func (c *cli) runShell(in io.Reader, out, errOut io.Writer) error {
	_, _ = fmt.Fprintln(out, "=== Command-Line To-Do App ===")
	_, _ = fmt.Fprintln(out, "Type 'help' for available commands or 'exit' to quit.")
	_, _ = fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, shellPrompt)
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !c.dispatch(line, out, errOut) {
			return nil
		}
	}
}

// dispatch runs one shell line and reports whether the shell should keep going.
func (c *cli) dispatch(line string, out, errOut io.Writer) bool {
	words, err := shellquote.Split(line)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		return true
	}
	if len(words) == 0 {
		return true
	}
	words[0] = strings.ToLower(words[0])

	switch words[0] {
	case "exit", "quit":
		_, _ = fmt.Fprintln(out, "Goodbye!")
		return false
	case "help":
		printShellHelp(out)
		return true
	}

	cmd := shellLineCmd(c)
	sub, rest, err := cmd.Find(words)
	if err != nil || sub == cmd {
		_, _ = fmt.Fprintf(out, "Unknown command: %s. Type 'help' for available commands.\n", words[0])
		return true
	}
	if len(rest) == 0 && sub.Args != nil && sub.Args(sub, rest) != nil {
		_, _ = fmt.Fprintf(out, "No arguments provided for command: %s. Type 'help' for available commands.\n", sub.Name())
		return true
	}

	cmd.SetArgs(append([]string{sub.Name()}, positionalAfterFlags(sub, rest)...))
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if err := cmd.Execute(); err != nil {
		log.Debug().Err(err).Str("line", line).Msg("shell command failed")
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return true
}

// positionalAfterFlags moves every word that is not one of sub's flags behind
// "--", so a description such as "-5 degrees" stays an argument.
func positionalAfterFlags(sub *cobra.Command, args []string) []string {
	sub.InitDefaultHelpFlag()
	flags := make([]string, 0, len(args)+1)
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		f, inline := lookupFlag(sub.Flags(), arg)
		if f == nil {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		if !inline && f.NoOptDefVal == "" && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(append(flags, "--"), positional...)
}

// lookupFlag resolves arg as a long or shorthand flag and reports whether its
// value is attached to the same word.
func lookupFlag(fs *pflag.FlagSet, arg string) (*pflag.Flag, bool) {
	switch {
	case strings.HasPrefix(arg, "--") && len(arg) > 2:
		name, _, inline := strings.Cut(arg[2:], "=")
		return fs.Lookup(name), inline
	case strings.HasPrefix(arg, "-") && len(arg) > 1 && arg[1] != '-':
		return fs.ShorthandLookup(arg[1:2]), len(arg) > 2
	}
	return nil, false
}

// shellLineCmd builds a fresh command tree so flag values never leak between lines.
func shellLineCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo>",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	for _, sub := range taskCmds(c) {
		cmd.AddCommand(sub)
	}
	return cmd
}

func printShellHelp(out io.Writer) {
	rendered, err := glamour.Render(shellHelp, "auto")
	if err != nil {
		log.Debug().Err(err).Msg("render help")
		rendered = shellHelp
	}
	_, _ = io.WriteString(out, rendered)
}
