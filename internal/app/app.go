// Package app wires together all adapters and domain logic.
// It owns the generate pipeline: build a derivation, render it, compose the
// status message, and optionally record the outcome.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/corey/derivtree/internal/adapters/ahocorasick"
	"github.com/corey/derivtree/internal/adapters/bbolt"
	"github.com/corey/derivtree/internal/adapters/chart"
	"github.com/corey/derivtree/internal/adapters/graphviz"
	"github.com/corey/derivtree/internal/domain/derivation"
	"github.com/corey/derivtree/internal/domain/grammar"
	"github.com/corey/derivtree/internal/domain/graph"
	"github.com/corey/derivtree/internal/ports"
)

// Status messages shown by every shell.
const (
	MsgSaved        = "Derivation tree saved as '%s'."
	MsgNoDerivation = "No valid derivation tree could be generated."
)

// DefaultOutputBase is the output filename without extension.
const DefaultOutputBase = "derivation_tree"

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string           // base for .derivtree/ (default: cwd)
	Output      string           // image path (default: derivation_tree.<format>)
	Format      string           // png, svg, pdf, dot (default: png)
	Engine      string           // auto, dot, libgvc (default: auto)
	DotPath     string           // dot binary (default: $PATH lookup)
	LibPaths    []string         // extra libgvc search dirs (default: graphviz.DefaultLibPaths)
	RankDir     string           // TB, BT, LR, RL (default: TB)
	GrammarFile string           // rules file (default: built-in grammar)
	Grammar     *grammar.Grammar // optional: overrides GrammarFile
	StrictEmpty bool             // empty input yields no derivation
	MaxTrees    int              // derivation enumeration cap (default: chart.DefaultMaxTrees)
	History     bool             // record outcomes in bbolt
	DBPath      string           // history database (default: .derivtree/history.db)
	Log         io.Writer        // log destination (default: stderr)
	Verbose     bool             // log every render, not just warnings

	Rasterizer ports.Rasterizer   // optional: skips engine selection
	Store      ports.HistoryStore // optional: used instead of opening DBPath
}

// App is the top-level container wiring all components together.
type App struct {
	Paths   *Paths
	Grammar *grammar.Grammar
	Parser  *chart.Parser
	Builder *derivation.Builder
	Raster  ports.Rasterizer   // nil when Format is dot
	History ports.HistoryStore // nil = history disabled

	cfg     Config
	log     io.Writer
	gen     chan struct{}  // one Generate at a time: the output file is shared
	mu      sync.Mutex     // guards last
	last    *ports.Outcome // most recent successful outcome
	closers []func() error
}

// New creates an App with all dependencies wired.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("project root: %w", err)
		}
		cfg.ProjectRoot = wd
	}
	if cfg.Format == "" {
		cfg.Format = formatFromPath(cfg.Output)
	}
	if !graphviz.ValidFormat(cfg.Format) {
		return nil, fmt.Errorf("unknown format %q (want %s)", cfg.Format, graphviz.Formats())
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutputBase + "." + cfg.Format
	}
	if cfg.Engine == "" {
		cfg.Engine = graphviz.EngineAuto
	}
	if cfg.LibPaths == nil {
		cfg.LibPaths = graphviz.DefaultLibPaths()
	}
	if cfg.RankDir == "" {
		cfg.RankDir = graphviz.DefaultRankDir
	}
	if !graphviz.ValidRankDir(cfg.RankDir) {
		return nil, fmt.Errorf("invalid rankdir %q (want TB, BT, LR, or RL)", cfg.RankDir)
	}
	if cfg.Log == nil {
		cfg.Log = os.Stderr
	}

	paths := NewPaths(cfg.ProjectRoot)
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}

	g := cfg.Grammar
	if g == nil {
		var err error
		if g, err = LoadGrammar(cfg.GrammarFile); err != nil {
			return nil, err
		}
	}
	parser := chart.New(g, chart.WithMaxTrees(cfg.MaxTrees))

	a := &App{
		Paths:   paths,
		Grammar: g,
		Parser:  parser,
		Builder: derivation.NewBuilder(parser, g.Start(),
			derivation.WithTokenizer(ahocorasick.NewTokenizer(g.Terminals())),
			derivation.WithStrictEmpty(cfg.StrictEmpty)),
		Raster:  cfg.Rasterizer,
		History: cfg.Store,
		cfg:     cfg,
		log:     cfg.Log,
		gen:     make(chan struct{}, 1),
	}

	if a.Raster == nil && cfg.Format != graphviz.FormatDOT {
		r, err := graphviz.Open(context.Background(), graphviz.Options{
			Engine:   cfg.Engine,
			Format:   cfg.Format,
			DotPath:  cfg.DotPath,
			LibPaths: cfg.LibPaths,
		})
		if err != nil {
			return nil, fmt.Errorf("layout engine: %w", err)
		}
		switch c := r.(type) {
		case *graphviz.LibGVC:
			a.closers = append(a.closers, func() error { c.Close(); return nil })
		case io.Closer:
			a.closers = append(a.closers, c.Close)
		}
		a.Raster = r
	}

	if a.History == nil && cfg.History {
		store, err := bbolt.NewStore(cfg.DBPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.History = store
		a.closers = append(a.closers, store.Close)
	}

	return a, nil
}

// LoadGrammar reads a rules file. An empty path returns the built-in grammar.
func LoadGrammar(path string) (*grammar.Grammar, error) {
	if path == "" {
		return grammar.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	g, err := grammar.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("load grammar %s: %w", filepath.Base(path), err)
	}
	return g, nil
}

// formatFromPath picks the format named by path's extension, or png.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if graphviz.ValidFormat(ext) {
		return ext
	}
	return graphviz.FormatPNG
}

// Close releases the history store and any loaded engine.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// Output returns the configured image path.
func (a *App) Output() string { return a.cfg.Output }

// Format returns the configured output format.
func (a *App) Format() string { return a.cfg.Format }

// EngineName returns the active layout engine, or "none" for DOT output.
func (a *App) EngineName() string {
	if a.Raster == nil {
		return "none"
	}
	return a.Raster.Name()
}

// GrammarText returns the rules as displayed to the user. It is generated
// from the parsing grammar, so the two cannot disagree.
func (a *App) GrammarText() string {
	return a.Grammar.String()
}

// Last returns the most recent successful outcome, or nil.
func (a *App) Last() *ports.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Generate runs the full pipeline for one input. A string with no derivation
// is a normal outcome (Derived == false), not an error; errors come from
// rendering, or from ctx ending while the call waits its turn or parses.
func (a *App) Generate(ctx context.Context, input string) (*ports.Outcome, error) {
	select {
	case a.gen <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-a.gen }()

	out := &ports.Outcome{Input: input, Stall: -1}

	tree, err := a.Builder.BuildContext(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if tree == nil {
		out.Message = MsgNoDerivation
		out.Stall = a.Builder.Stall(input)
		a.record(out)
		return out, nil
	}

	file, err := a.Render(ctx, tree)
	if err != nil {
		return nil, err
	}

	internal, leaves := ports.Count(tree)
	out.Derived = true
	out.Tree = tree
	out.File = file
	out.Nodes = internal + leaves
	out.Edges = out.Nodes - 1
	out.Yield = ports.Yield(tree)
	out.Message = fmt.Sprintf(MsgSaved, file)

	a.mu.Lock()
	a.last = out
	a.mu.Unlock()
	a.record(out)
	a.logf("rendered %q: %d nodes, %d edges -> %s", input, out.Nodes, out.Edges, file)
	return out, nil
}

// DOT returns the DOT description of tree without writing anything.
// A nil tree returns "".
func (a *App) DOT(tree *ports.Node) (string, error) {
	g := graph.FromTree(tree)
	if g == nil {
		return "", nil
	}
	return graphviz.Encode(g, a.cfg.RankDir)
}

// Render writes tree to the configured output, overwriting any existing
// file, and returns the path. A nil tree writes nothing and returns "".
func (a *App) Render(ctx context.Context, tree *ports.Node) (string, error) {
	dot, err := a.DOT(tree)
	if err != nil {
		return "", err
	}
	if dot == "" {
		return "", nil
	}

	path := a.cfg.Output
	if a.cfg.Format == graphviz.FormatDOT {
		if err := os.WriteFile(path, []byte(dot), 0644); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return path, nil
	}
	if err := a.Raster.Rasterize(ctx, dot, a.cfg.Format, path); err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}
	return path, nil
}

func (a *App) record(out *ports.Outcome) {
	if a.History == nil {
		return
	}
	entry := &ports.HistoryEntry{
		Input:   out.Input,
		Derived: out.Derived,
		File:    out.File,
		Format:  a.cfg.Format,
		Engine:  a.EngineName(),
		Nodes:   out.Nodes,
		Edges:   out.Edges,
	}
	if _, err := a.History.Record(entry); err != nil {
		a.warnf("history: %v", err)
	}
}

func (a *App) logf(format string, args ...any) {
	if !a.cfg.Verbose {
		return
	}
	fmt.Fprintf(a.log, "[%s] %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}

func (a *App) warnf(format string, args ...any) {
	fmt.Fprintf(a.log, "[warning] %s\n", strings.TrimSpace(fmt.Sprintf(format, args...)))
}
