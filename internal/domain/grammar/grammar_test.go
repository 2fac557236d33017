package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Shape(t *testing.T) {
	g := Default()
	assert.Equal(t, "S", g.Start())
	assert.Equal(t, []string{"S", "A", "B", "C"}, g.Nonterminals())
	assert.Equal(t, []string{"a", "A", "b", "B", "c", "C"}, g.Terminals())
	assert.Len(t, g.Rules(), 7+4+4+4)
	assert.Len(t, g.RulesFor("S"), 7)
	assert.Nil(t, g.RulesFor("D"))
	assert.True(t, g.IsNonterminal("A"))
	assert.False(t, g.IsNonterminal("a"))
}

func TestDefault_StringRoundTrip(t *testing.T) {
	// The displayed grammar text is generated from the rules, so it must
	// parse back to an identical grammar.
	g := Default()
	assert.Equal(t, DefaultText, g.String())

	again, err := Parse(g.String())
	require.NoError(t, err)
	assert.Equal(t, g.Rules(), again.Rules())
}

func TestParse_RuleOrderAndIDs(t *testing.T) {
	g, err := Parse(`
# comment line
E -> E '+' T | T   # trailing comment
T -> 'x'
  | 'y'
`)
	require.NoError(t, err)
	assert.Equal(t, "E", g.Start())

	rules := g.Rules()
	require.Len(t, rules, 4)
	for i, r := range rules {
		assert.Equal(t, i, r.ID)
	}
	assert.Equal(t, "E -> E '+' T", rules[0].String())
	assert.Equal(t, "E -> T", rules[1].String())
	assert.Equal(t, "T -> 'x'", rules[2].String())
	assert.Equal(t, "T -> 'y'", rules[3].String())
	assert.Equal(t, []int{2, 3}, g.RuleIDs("T"))
}

func TestParse_DoubleQuotedTerminal(t *testing.T) {
	g, err := Parse(`Q -> "'" Q | "'"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"'"}, g.Terminals())
	assert.Equal(t, "Q -> \"'\" Q | \"'\"\n", g.String())
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"no rules", "\n# nothing\n", "grammar has no rules"},
		{"missing arrow", "S 'a'", `line 1: expected "NAME ->"`},
		{"empty alternative", "S -> 'a' | | 'b'", "line 1: empty alternative"},
		{"trailing bar", "S -> 'a' |", "line 1: empty alternative"},
		{"epsilon rule", "S ->", "line 1: empty alternative"},
		{"unterminated quote", "S -> 'a", "line 1: unterminated quote at column 6"},
		{"stray character", "S -> 'a' ;", `line 1: unexpected ';' at column 10`},
		{"dangling continuation", "| 'a'", "line 1: continuation with no rule to continue"},
		{"undefined nonterminal", "S -> A", `rule "S -> A": undefined nonterminal A`},
		{"empty terminal", "S -> ''", `rule "S -> ''": empty terminal`},
		{"double arrow", "S -> 'a' -> 'b'", `line 1: unexpected "->"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Parse(tc.text)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New("S", []Rule{{LHS: "S"}})
	assert.EqualError(t, err, "empty production for S is not supported")

	_, err = New("X", []Rule{{LHS: "S", RHS: []Symbol{{Name: "a", Terminal: true}}}})
	assert.EqualError(t, err, `start symbol "X" has no rules`)

	_, err = New("1S", []Rule{{LHS: "1S", RHS: []Symbol{{Name: "a", Terminal: true}}}})
	assert.EqualError(t, err, `rule left-hand side "1S" is not an identifier`)
}

func TestRules_ReturnsCopy(t *testing.T) {
	g := Default()
	rules := g.Rules()
	rules[0].LHS = "mutated"
	assert.Equal(t, "S", g.Rules()[0].LHS)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("S ->") })
}
