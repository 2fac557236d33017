// Package ahocorasick tokenizes input against a grammar's terminals using an
// Aho-Corasick automaton. It wraps the petar-dambovaliev/aho-corasick library
// for O(n + m + z) matching.
package ahocorasick

import (
	"unicode/utf8"

	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Tokenizer implements ports.Tokenizer with leftmost-longest matching:
// at each position the longest terminal wins ("==" over "="). Text that
// starts no terminal is emitted one character per token.
type Tokenizer struct {
	automaton aho.AhoCorasick
	terminals []string
	multi     bool // some terminal is longer than one character
}

// NewTokenizer compiles the automaton for terminals. Empty strings are ignored.
func NewTokenizer(terminals []string) *Tokenizer {
	t := &Tokenizer{}
	for _, term := range terminals {
		if term == "" {
			continue
		}
		t.terminals = append(t.terminals, term)
		if utf8.RuneCountInString(term) > 1 {
			t.multi = true
		}
	}
	if t.multi {
		builder := aho.NewAhoCorasickBuilder(aho.Opts{
			MatchKind: aho.LeftMostLongestMatch,
			DFA:       true,
		})
		t.automaton = builder.Build(t.terminals)
	}
	return t
}

// Terminals returns the patterns the automaton was built from.
func (t *Tokenizer) Terminals() []string {
	out := make([]string, len(t.terminals))
	copy(out, t.terminals)
	return out
}

// Tokenize splits input into terminal tokens.
func (t *Tokenizer) Tokenize(input string) []string {
	toks := make([]string, 0, len(input))
	if !t.multi {
		// Every terminal is one character: the automaton cannot change the split.
		for _, r := range input {
			toks = append(toks, string(r))
		}
		return toks
	}

	// FindAll reports a leftmost-longest match for every start position, so
	// matches overlap when one terminal is a prefix of another. Keep the
	// first one at or after the end of the last token taken.
	pos := 0
	for _, m := range t.automaton.FindAll(input) {
		if m.Start() < pos {
			continue
		}
		toks = appendRunes(toks, input[pos:m.Start()])
		toks = append(toks, input[m.Start():m.End()])
		pos = m.End()
	}
	return appendRunes(toks, input[pos:])
}

func appendRunes(toks []string, s string) []string {
	for _, r := range s {
		toks = append(toks, string(r))
	}
	return toks
}
