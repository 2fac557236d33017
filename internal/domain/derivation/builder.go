// Package derivation turns an input string into a derivation tree by
// tokenizing it (one token per character unless a tokenizer is injected) and
// taking the first derivation the parser enumerates.
package derivation

import (
	"context"
	"unicode/utf8"

	"github.com/corey/derivtree/internal/ports"
)

// Builder produces derivation trees for a fixed start symbol. It is a pure
// function of its input and the injected parser.
type Builder struct {
	parser      ports.Parser
	tokenizer   ports.Tokenizer
	start       string
	strictEmpty bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithStrictEmpty makes empty input yield no derivation instead of the
// childless start node.
func WithStrictEmpty(strict bool) Option {
	return func(b *Builder) { b.strictEmpty = strict }
}

// WithTokenizer replaces per-character tokenization.
func WithTokenizer(t ports.Tokenizer) Option {
	return func(b *Builder) {
		if t != nil {
			b.tokenizer = t
		}
	}
}

// NewBuilder creates a builder that asks parser for derivations rooted at start.
func NewBuilder(parser ports.Parser, start string, opts ...Option) *Builder {
	b := &Builder{parser: parser, tokenizer: runeTokenizer{}, start: start}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Tokenize splits input into one token per character.
func Tokenize(input string) []string {
	toks := make([]string, 0, len(input))
	for _, r := range input {
		toks = append(toks, string(r))
	}
	return toks
}

type runeTokenizer struct{}

func (runeTokenizer) Tokenize(input string) []string { return Tokenize(input) }

// Build returns the first derivation of input, or false if there is none.
//
// Empty input returns the start symbol with no children without consulting
// the parser. The grammar has no empty production, so this tree is a
// placeholder rather than a real derivation; WithStrictEmpty disables it.
func (b *Builder) Build(input string) (*ports.Node, bool) {
	tree, err := b.BuildContext(context.Background(), input)
	return tree, err == nil && tree != nil
}

// BuildContext is Build for callers that need to bound the parse. A nil tree
// with a nil error means input has no derivation; an error comes only from
// ctx, or from a parser that failed outright.
func (b *Builder) BuildContext(ctx context.Context, input string) (*ports.Node, error) {
	if input == "" {
		if b.strictEmpty {
			return nil, nil
		}
		return &ports.Node{Label: b.start}, nil
	}

	toks := b.tokenizer.Tokenize(input)
	var trees []*ports.Node
	var err error
	if cp, ok := b.parser.(ports.ContextParser); ok {
		trees, err = cp.ParseContext(ctx, toks)
	} else {
		trees, err = b.parser.Parse(toks)
	}
	if err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, nil
	}
	return trees[0], nil
}

// Stall reports the character offset where input stopped being consumable,
// or -1 if the parser cannot say or the input was fully scanned.
func (b *Builder) Stall(input string) int {
	sr, ok := b.parser.(ports.StallReporter)
	if !ok {
		return -1
	}
	toks := b.tokenizer.Tokenize(input)
	n := sr.Stall(toks)
	if n >= len(toks) {
		return -1
	}
	offset := 0
	for _, t := range toks[:n] {
		offset += utf8.RuneCountInString(t)
	}
	return offset
}
