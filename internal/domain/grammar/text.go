package grammar

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultText is the built-in derivation grammar: a start symbol over three
// independent letter classes, each a right-recursive run of one case-insensitive
// letter.
const DefaultText = `S -> A B C | A B | A C | B C | A | B | C
A -> 'a' A | 'A' A | 'a' | 'A'
B -> 'b' B | 'B' B | 'b' | 'B'
C -> 'c' C | 'C' C | 'c' | 'C'
`

var defaultGrammar = MustParse(DefaultText)

// Default returns the built-in grammar. The value is shared and read-only.
func Default() *Grammar {
	return defaultGrammar
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(text string) *Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("grammar: %v", err))
	}
	return g
}

// Parse reads rules in "LHS -> alt | alt" form. A line beginning with "|"
// continues the alternatives of the previous rule. "#" outside quotes starts
// a comment.
func Parse(text string) (*Grammar, error) {
	var rules []Rule
	var start, lhs string

	for n, line := range strings.Split(text, "\n") {
		lineNo := n + 1
		toks, err := lexLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(toks) == 0 {
			continue
		}

		var body []lexeme
		switch {
		case len(toks) >= 2 && toks[0].kind == lexIdent && toks[1].kind == lexArrow:
			lhs = toks[0].text
			if start == "" {
				start = lhs
			}
			body = toks[2:]
		case toks[0].kind == lexBar:
			if lhs == "" {
				return nil, fmt.Errorf("line %d: continuation with no rule to continue", lineNo)
			}
			body = toks[1:]
		default:
			return nil, fmt.Errorf("line %d: expected \"NAME ->\"", lineNo)
		}

		alts, err := splitAlternatives(body)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		for _, rhs := range alts {
			rules = append(rules, Rule{LHS: lhs, RHS: rhs})
		}
	}

	return New(start, rules)
}

func splitAlternatives(toks []lexeme) ([][]Symbol, error) {
	var alts [][]Symbol
	var cur []Symbol
	for _, t := range toks {
		switch t.kind {
		case lexBar:
			if len(cur) == 0 {
				return nil, fmt.Errorf("empty alternative")
			}
			alts = append(alts, cur)
			cur = nil
		case lexIdent:
			cur = append(cur, Symbol{Name: t.text})
		case lexQuoted:
			cur = append(cur, Symbol{Name: t.text, Terminal: true})
		case lexArrow:
			return nil, fmt.Errorf("unexpected \"->\"")
		}
	}
	if len(cur) == 0 {
		return nil, fmt.Errorf("empty alternative")
	}
	return append(alts, cur), nil
}

type lexKind int

const (
	lexIdent lexKind = iota
	lexQuoted
	lexArrow
	lexBar
)

type lexeme struct {
	kind lexKind
	text string
}

func lexLine(line string) ([]lexeme, error) {
	var out []lexeme
	rs := []rune(line)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '#':
			return out, nil
		case r == '|':
			out = append(out, lexeme{lexBar, "|"})
			i++
		case r == '-' && i+1 < len(rs) && rs[i+1] == '>':
			out = append(out, lexeme{lexArrow, "->"})
			i += 2
		case r == '\'' || r == '"':
			j := i + 1
			for j < len(rs) && rs[j] != r {
				j++
			}
			if j == len(rs) {
				return nil, fmt.Errorf("unterminated quote at column %d", i+1)
			}
			out = append(out, lexeme{lexQuoted, string(rs[i+1 : j])})
			i = j + 1
		case isIdentStart(r):
			j := i + 1
			for j < len(rs) && isIdentPart(rs[j]) {
				j++
			}
			out = append(out, lexeme{lexIdent, string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected %q at column %d", r, i+1)
		}
	}
	return out, nil
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return isIdentStart(r) || unicode.IsDigit(r) }

func isIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !isIdentStart(r) || i > 0 && !isIdentPart(r) {
			return false
		}
	}
	return s != ""
}
