// Package grammar holds an immutable context-free grammar and a parser for
// its textual form:
//
//	S -> A B | A
//	A -> 'a' A | 'a'
//
// Quoted items are terminals, bare identifiers are nonterminals, and the
// left-hand side of the first rule is the start symbol.
package grammar

import (
	"fmt"
	"strings"
)

// Symbol is one item on the right-hand side of a rule.
type Symbol struct {
	Name     string
	Terminal bool
}

func (s Symbol) String() string {
	if s.Terminal {
		if strings.ContainsRune(s.Name, '\'') {
			return `"` + s.Name + `"`
		}
		return "'" + s.Name + "'"
	}
	return s.Name
}

// Rule is a single production LHS -> RHS.
type Rule struct {
	ID  int
	LHS string
	RHS []Symbol
}

func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.LHS)
	sb.WriteString(" ->")
	for _, s := range r.RHS {
		sb.WriteByte(' ')
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Grammar is a validated, read-only set of rules. Construct it with New,
// Parse, or Default; the zero value is not usable.
type Grammar struct {
	start        string
	rules        []Rule
	byLHS        map[string][]int
	nonterminals []string // declaration order
	terminals    []string // first-use order
}

// New validates rules and builds a Grammar rooted at start.
// Every nonterminal referenced on a right-hand side must have a rule,
// and no rule may have an empty right-hand side.
func New(start string, rules []Rule) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("grammar has no rules")
	}
	g := &Grammar{
		start: start,
		byLHS: make(map[string][]int),
	}
	for _, r := range rules {
		if !isIdentifier(r.LHS) {
			return nil, fmt.Errorf("rule left-hand side %q is not an identifier", r.LHS)
		}
		if len(r.RHS) == 0 {
			return nil, fmt.Errorf("empty production for %s is not supported", r.LHS)
		}
		if _, seen := g.byLHS[r.LHS]; !seen {
			g.nonterminals = append(g.nonterminals, r.LHS)
		}
		rule := Rule{ID: len(g.rules), LHS: r.LHS, RHS: append([]Symbol(nil), r.RHS...)}
		g.byLHS[r.LHS] = append(g.byLHS[r.LHS], rule.ID)
		g.rules = append(g.rules, rule)
	}

	if _, ok := g.byLHS[start]; !ok {
		return nil, fmt.Errorf("start symbol %q has no rules", start)
	}

	seenT := make(map[string]bool)
	for _, r := range g.rules {
		for _, s := range r.RHS {
			if s.Terminal {
				if s.Name == "" {
					return nil, fmt.Errorf("rule %q: empty terminal", r.String())
				}
				if !seenT[s.Name] {
					seenT[s.Name] = true
					g.terminals = append(g.terminals, s.Name)
				}
				continue
			}
			if _, ok := g.byLHS[s.Name]; !ok {
				return nil, fmt.Errorf("rule %q: undefined nonterminal %s", r.String(), s.Name)
			}
		}
	}
	return g, nil
}

// Start returns the start symbol.
func (g *Grammar) Start() string { return g.start }

// Rules returns a copy of all rules in declaration order.
func (g *Grammar) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// Rule returns the rule with the given ID.
func (g *Grammar) Rule(id int) Rule { return g.rules[id] }

// RulesFor returns the rules for lhs in declaration order, or nil.
func (g *Grammar) RulesFor(lhs string) []Rule {
	ids := g.byLHS[lhs]
	if len(ids) == 0 {
		return nil
	}
	out := make([]Rule, len(ids))
	for i, id := range ids {
		out[i] = g.rules[id]
	}
	return out
}

// RuleIDs returns the IDs of the rules for lhs. The slice must not be modified.
func (g *Grammar) RuleIDs(lhs string) []int { return g.byLHS[lhs] }

// IsNonterminal reports whether name has at least one rule.
func (g *Grammar) IsNonterminal(name string) bool {
	_, ok := g.byLHS[name]
	return ok
}

// Nonterminals returns nonterminal names in declaration order.
func (g *Grammar) Nonterminals() []string {
	return append([]string(nil), g.nonterminals...)
}

// Terminals returns terminal literals in order of first use.
func (g *Grammar) Terminals() []string {
	return append([]string(nil), g.terminals...)
}

// String renders the grammar in the same text format Parse accepts,
// one line per nonterminal with alternatives joined by " | ".
func (g *Grammar) String() string {
	var sb strings.Builder
	for _, nt := range g.nonterminals {
		sb.WriteString(nt)
		sb.WriteString(" ->")
		for i, id := range g.byLHS[nt] {
			if i > 0 {
				sb.WriteString(" |")
			}
			for _, s := range g.rules[id].RHS {
				sb.WriteByte(' ')
				sb.WriteString(s.String())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
