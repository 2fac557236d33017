package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/corey/derivtree/internal/adapters/graphviz"
	"github.com/corey/derivtree/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the resolved output, format, layout engine, grammar, and project paths.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	p := palette(useColor())
	root := projectRoot()
	paths := app.NewPaths(root)

	engine := p.wrap(colorYellow, "none (dot format)")
	output := outFlag
	format := formatFlag

	a, err := app.New(app.Config{
		ProjectRoot: root,
		Output:      outFlag,
		Format:      formatFlag,
		Engine:      engineFlag,
		DotPath:     dotPathFlag,
		RankDir:     rankDirFlag,
		GrammarFile: grammarFlag,
		Log:         cmd.ErrOrStderr(),
	})
	if err != nil {
		engine = p.wrap(colorRed, "✗ "+err.Error())
	} else {
		defer a.Close()
		output, format = a.Output(), a.Format()
		if a.Raster != nil {
			engine = p.wrap(colorGreen, "✓ "+a.Raster.Name())
			if d, ok := a.Raster.(*graphviz.DotCommand); ok {
				engine += "  " + d.Path()
			}
		}
	}

	grammarSrc := "built-in"
	if grammarFlag != "" {
		grammarSrc = grammarFlag
	}
	historyState := "off"
	if historyFlag {
		historyState = "on"
	}

	fmt.Fprintf(w, "%s\n", p.wrap(colorBold, "⚡ derivtree config"))
	fmt.Fprintf(w, "  Root:       %s\n", root)
	fmt.Fprintf(w, "  Output:     %s\n", output)
	fmt.Fprintf(w, "  Format:     %s\n", format)
	fmt.Fprintf(w, "  Engine:     %s\n", engine)
	fmt.Fprintf(w, "  Rankdir:    %s\n", rankDirFlag)
	fmt.Fprintf(w, "  Grammar:    %s\n", grammarSrc)
	fmt.Fprintf(w, "  History:    %s  %s\n", historyState, paths.DB)

	if portData, err := os.ReadFile(paths.PortFile); err == nil {
		fmt.Fprintf(w, "  Serving:    http://localhost:%s\n", strings.TrimSpace(string(portData)))
	}
	if libs := graphviz.DefaultLibPaths(); len(libs) > 0 {
		fmt.Fprintf(w, "  Lib paths:  %s\n", strings.Join(libs, string(filepath.ListSeparator)))
	}
	return nil
}
