package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/corey/derivtree/internal/adapters/graphviz"
	"github.com/corey/derivtree/internal/app"
	"github.com/spf13/cobra"
)

var (
	generateTree     bool
	generateJSON     bool
	generatePrintDOT bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [string]",
	Short: "Derive one string and render its tree",
	Long: "Parses the string against the grammar and writes the derivation tree image.\n" +
		"With no argument the string is read from stdin. Exits 1 when no derivation exists.",
	Example: "  derivtree generate aAbC\n  echo abc | derivtree generate --tree\n  derivtree generate '' -o empty.svg",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.BoolVarP(&generateTree, "tree", "t", false, "Also print the derivation as text")
	f.BoolVar(&generateJSON, "json", false, "Print the outcome as JSON")
	f.BoolVar(&generatePrintDOT, "print-dot", false, "Print the DOT graph to stdout instead of rendering")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	input, err := generateInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var overrides []func(*app.Config)
	if generatePrintDOT {
		// Printing DOT never rasterizes, so no layout engine is needed.
		overrides = append(overrides, func(c *app.Config) { c.Format = graphviz.FormatDOT })
	}
	a, err := newApp(cmd.ErrOrStderr(), overrides...)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()

	if generatePrintDOT {
		tree, err := a.Builder.BuildContext(cmd.Context(), input)
		if err != nil {
			return err
		}
		if tree == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), app.MsgNoDerivation)
			return exitError{1}
		}
		dot, err := a.DOT(tree)
		if err != nil {
			return err
		}
		fmt.Fprint(w, dot)
		return nil
	}

	out, err := a.Generate(cmd.Context(), input)
	if err != nil {
		return err
	}

	if generateJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		fmt.Fprint(w, formatOutcome(out, generateTree, palette(useColor())))
	}

	if !out.Derived {
		return exitError{1}
	}
	return nil
}

// generateInput takes the string from args, or from stdin when stdin is not
// a terminal. A trailing newline from the pipe is dropped.
func generateInput(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if f, ok := in.(*os.File); ok && isCharDevice(f) {
		return "", fmt.Errorf("no input: pass a string argument or pipe one on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
