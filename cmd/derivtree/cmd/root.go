package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/corey/derivtree/internal/app"
	"github.com/spf13/cobra"
)

// Persistent flags shared by every command.
var (
	outFlag         string
	formatFlag      string
	engineFlag      string
	dotPathFlag     string
	rankDirFlag     string
	grammarFlag     string
	strictEmptyFlag bool
	historyFlag     bool
	maxTreesFlag    int
	verboseFlag     bool
	colorFlag       string
	noColorFlag     bool
)

var rootCmd = &cobra.Command{
	Use:           "derivtree",
	Short:         "derivtree ⚡ derivation trees for a context-free grammar",
	Long:          "Parses a string with an Earley chart parser and renders its derivation tree with Graphviz.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newApp builds an App from the persistent flags. Each override runs on the
// config after the flags are applied.
func newApp(log io.Writer, overrides ...func(*app.Config)) (*app.App, error) {
	root := projectRoot()
	cfg := app.Config{
		ProjectRoot: root,
		Output:      outFlag,
		Format:      formatFlag,
		Engine:      engineFlag,
		DotPath:     dotPathFlag,
		RankDir:     rankDirFlag,
		GrammarFile: grammarFlag,
		StrictEmpty: strictEmptyFlag,
		MaxTrees:    maxTreesFlag,
		History:     historyFlag,
		Log:         log,
		Verbose:     verboseFlag,
	}
	for _, o := range overrides {
		o(&cfg)
	}
	a, err := app.New(cfg)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%w\n%s", err, diagnoseDBLock(app.NewPaths(root)))
		}
		return nil, err
	}
	return a, nil
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&outFlag, "out", "o", "", "Output file (default derivation_tree.<format>)")
	f.StringVarP(&formatFlag, "format", "T", "", "Output format: png, svg, pdf, dot (default from --out, else png)")
	f.StringVar(&engineFlag, "engine", "auto", "Layout engine: auto, dot, libgvc, wasm")
	f.StringVar(&dotPathFlag, "dot", "", "Path to the Graphviz dot binary")
	f.StringVar(&rankDirFlag, "rankdir", "TB", "Rank direction: TB, BT, LR, RL")
	f.StringVarP(&grammarFlag, "grammar", "g", "", "Rules file (default built-in grammar)")
	f.BoolVar(&strictEmptyFlag, "strict-empty", false, "Treat empty input as having no derivation")
	f.BoolVar(&historyFlag, "history", false, "Record each outcome in .derivtree/history.db")
	f.IntVar(&maxTreesFlag, "max-trees", 0, "Cap on enumerated derivations (0 = default)")
	f.BoolVarP(&verboseFlag, "verbose", "v", false, "Log every render to stderr")
	f.StringVar(&colorFlag, "color", "auto", "Color output: auto, always, never")
	f.BoolVar(&noColorFlag, "no-color", false, "Suppress color output")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(grammarCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
