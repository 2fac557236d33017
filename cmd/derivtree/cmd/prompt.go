package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Derive strings interactively, one per line",
	Long:  "Shows the grammar, then reads one string per line and reports each outcome. Enter :q or EOF to quit.",
	Args:  cobra.NoArgs,
	RunE:  runPrompt,
}

func runPrompt(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	p := palette(useColor())
	in := cmd.InOrStdin()
	interactive := in == os.Stdin && !isStdinPipe()

	fmt.Fprintln(w, "Enter a string to derive under the grammar:")
	fmt.Fprint(w, formatGrammar(a.GrammarText(), a.Grammar.Start(),
		len(a.Grammar.Nonterminals()), len(a.Grammar.Terminals()), len(a.Grammar.Rules()), p))

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(w, p.wrap(colorYellow, "> "))
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == ":q" {
			break
		}

		out, err := a.Generate(cmd.Context(), line)
		if err != nil {
			// One failed render does not end the session.
			fmt.Fprintf(w, "%s\n", p.wrap(colorRed, "error: "+err.Error()))
			continue
		}
		fmt.Fprint(w, formatOutcome(out, true, p))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if interactive {
		fmt.Fprintln(w)
	}
	return nil
}
