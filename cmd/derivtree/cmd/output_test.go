package cmd

import (
	"errors"
	"testing"

	"github.com/corey/derivtree/internal/ports"
	"github.com/stretchr/testify/assert"
)

func sampleTree() *ports.Node {
	return &ports.Node{Label: "S", Children: []ports.Tree{
		&ports.Node{Label: "A", Children: []ports.Tree{ports.Leaf{Token: "a"}}},
		&ports.Node{Label: "B", Children: []ports.Tree{ports.Leaf{Token: "b"}}},
	}}
}

func TestFormatTree(t *testing.T) {
	want := "S\n" +
		"├── A\n" +
		"│   └── 'a'\n" +
		"└── B\n" +
		"    └── 'b'\n"
	assert.Equal(t, want, formatTree(sampleTree(), false))
}

func TestFormatTree_Placeholder(t *testing.T) {
	assert.Equal(t, "S\n", formatTree(&ports.Node{Label: "S"}, false))
}

func TestFormatOutcome_Derived(t *testing.T) {
	out := &ports.Outcome{
		Input: "ab", Derived: true, Message: "Derivation tree saved as 'x.png'.",
		File: "x.png", Nodes: 5, Edges: 4, Yield: "ab", Stall: -1, Tree: sampleTree(),
	}
	got := formatOutcome(out, false, false)
	assert.Equal(t, "⚡ Derivation tree saved as 'x.png'.\n  5 nodes │ 4 edges │ yield \"ab\"\n", got)

	got = formatOutcome(out, true, false)
	assert.Contains(t, got, "  S\n  ├── A\n")
}

func TestFormatOutcome_NoDerivationHints(t *testing.T) {
	msg := "No valid derivation tree could be generated."
	cases := []struct {
		input string
		stall int
		hint  string
	}{
		{"xyz", 0, `no rule accepts "x" at position 0`},
		{"abx", 2, `no rule accepts "x" at position 2`},
		{"ba", -1, "every character was read but no rule completes the string"},
		{"", -1, "empty input"},
	}
	for _, tc := range cases {
		got := formatOutcome(&ports.Outcome{Input: tc.input, Message: msg, Stall: tc.stall}, true, false)
		assert.Equal(t, "⚡ "+msg+"\n  "+tc.hint+"\n", got, tc.input)
	}
}

func TestPalette(t *testing.T) {
	assert.Equal(t, "x", palette(false).wrap(colorRed, "x"))
	assert.Equal(t, colorRed+"x"+colorReset, palette(true).wrap(colorRed, "x"))
}

func TestFormatHistory(t *testing.T) {
	entries := []*ports.HistoryEntry{
		{ID: 2, Input: "ab", Derived: true, File: "t.png", Format: "png", Nodes: 5, At: 0},
		{ID: 1, Input: "xyz", At: 0},
	}
	got := formatHistory(entries, false)
	assert.Contains(t, got, "⚡ 2 entries\n")
	assert.Contains(t, got, `#2`)
	assert.Contains(t, got, `✓ "ab"  5 nodes  png  t.png`)
	assert.Contains(t, got, `✗ "xyz"`)
}

func TestResolveColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.False(t, resolveColor("always", true))
	assert.True(t, resolveColor("always", false))
	assert.False(t, resolveColor("never", false))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, resolveColor("auto", false))
	assert.True(t, resolveColor("always", false))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, ExitCode(exitError{1}))
	assert.Equal(t, -1, ExitCode(errors.New("boom")))
	assert.Equal(t, "no derivation", exitError{1}.Error())
}

func TestIsDBLockError(t *testing.T) {
	assert.False(t, isDBLockError(nil))
	assert.True(t, isDBLockError(errors.New("open history: bbolt open: timeout")))
	assert.False(t, isDBLockError(errors.New("permission denied")))
}
