package cmd

import (
	"fmt"

	"github.com/corey/derivtree/internal/app"
	"github.com/spf13/cobra"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Print the grammar rules",
	Long:  "Prints the rules in effect (built-in or --grammar). Validates a rules file without rendering anything.",
	Args:  cobra.NoArgs,
	RunE:  runGrammar,
}

func runGrammar(cmd *cobra.Command, args []string) error {
	g, err := app.LoadGrammar(grammarFlag)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatGrammar(g.String(), g.Start(),
		len(g.Nonterminals()), len(g.Terminals()), len(g.Rules()), palette(useColor())))
	return nil
}
