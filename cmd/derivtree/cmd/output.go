package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/derivtree/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// palette wraps text in ANSI codes, or passes it through when color is off.
type palette bool

func (p palette) wrap(code, s string) string {
	if !p {
		return s
	}
	return code + s + colorReset
}

// formatOutcome formats one generate result for the terminal.
//
//	⚡ Derivation tree saved as 'derivation_tree.png'.
//	  3 nodes │ 2 edges │ yield "a"
func formatOutcome(out *ports.Outcome, showTree bool, p palette) string {
	var sb strings.Builder
	if !out.Derived {
		sb.WriteString(p.wrap(colorBold+colorRed, "⚡ "+out.Message) + "\n")
		if hint := stallHint(out); hint != "" {
			sb.WriteString("  " + p.wrap(colorGray, hint) + "\n")
		}
		return sb.String()
	}

	sb.WriteString(p.wrap(colorBold+colorGreen, "⚡ "+out.Message) + "\n")
	sb.WriteString(fmt.Sprintf("  %d nodes │ %d edges │ yield %s\n",
		out.Nodes, out.Edges, p.wrap(colorCyan, fmt.Sprintf("%q", out.Yield))))
	if showTree && out.Tree != nil {
		sb.WriteString(indent(formatTree(out.Tree, p), "  "))
	}
	return sb.String()
}

// stallHint explains where parsing stopped.
func stallHint(out *ports.Outcome) string {
	runes := []rune(out.Input)
	switch {
	case len(runes) == 0:
		return "empty input"
	case out.Stall >= 0 && out.Stall < len(runes):
		return fmt.Sprintf("no rule accepts %q at position %d", string(runes[out.Stall]), out.Stall)
	default:
		return "every character was read but no rule completes the string"
	}
}

// formatTree draws a derivation tree with box connectors. Leaves are quoted.
//
//	S
//	├── A
//	│   └── 'a'
//	└── B
//	    └── 'b'
func formatTree(root *ports.Node, p palette) string {
	var sb strings.Builder
	sb.WriteString(p.wrap(colorMagenta, root.Label) + "\n")
	walkTree(&sb, root, "", p)
	return sb.String()
}

func walkTree(sb *strings.Builder, n *ports.Node, prefix string, p palette) {
	for i, child := range n.Children {
		isLast := i == len(n.Children)-1
		connector := "├── "
		next := prefix + "│   "
		if isLast {
			connector = "└── "
			next = prefix + "    "
		}
		switch c := child.(type) {
		case *ports.Node:
			sb.WriteString(prefix + connector + p.wrap(colorMagenta, c.Label) + "\n")
			walkTree(sb, c, next, p)
		case ports.Leaf:
			sb.WriteString(prefix + connector + p.wrap(colorCyan, "'"+c.Token+"'") + "\n")
		}
	}
}

// formatGrammar prints the rules with a one-line summary.
func formatGrammar(text string, start string, nonterminals, terminals, rules int, p palette) string {
	var sb strings.Builder
	sb.WriteString(p.wrap(colorBold, "⚡ grammar") + "\n")
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString(p.wrap(colorGray, fmt.Sprintf("  start %s │ %d nonterminals │ %d terminals │ %d rules",
		start, nonterminals, terminals, rules)) + "\n")
	return sb.String()
}

// formatHistory prints entries newest first.
//
//	⚡ 2 entries
//	  #2  2026-10-18 14:03:11  ✓ "aAb"  7 nodes  png  derivation_tree.png
//	  #1  2026-10-18 14:02:50  ✗ "xyz"
func formatHistory(entries []*ports.HistoryEntry, p palette) string {
	var sb strings.Builder
	sb.WriteString(p.wrap(colorBold, fmt.Sprintf("⚡ %d entries", len(entries))) + "\n")
	for _, e := range entries {
		at := time.Unix(e.At, 0).Format("2006-01-02 15:04:05")
		sb.WriteString(fmt.Sprintf("  %s  %s  ", p.wrap(colorGray, fmt.Sprintf("#%d", e.ID)), at))
		if e.Derived {
			sb.WriteString(p.wrap(colorGreen, "✓") + " " + p.wrap(colorCyan, fmt.Sprintf("%q", e.Input)))
			sb.WriteString(fmt.Sprintf("  %d nodes  %s  %s", e.Nodes, e.Format, e.File))
		} else {
			sb.WriteString(p.wrap(colorRed, "✗") + " " + p.wrap(colorCyan, fmt.Sprintf("%q", e.Input)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l != "" {
			sb.WriteString(prefix + l)
		}
	}
	return sb.String()
}
