package ports

import "context"

// Parser enumerates derivations of a token sequence under a fixed grammar.
// The concrete implementation (Earley chart) lives in internal/adapters/chart.
type Parser interface {
	// Parse returns every derivation of the grammar's start symbol that
	// yields tokens, in the parser's deterministic enumeration order.
	// An unparseable sequence returns an empty slice and a nil error.
	Parse(tokens []string) ([]*Node, error)
}

// ContextParser is optionally implemented by parsers that can abandon a
// long parse when ctx is done.
type ContextParser interface {
	ParseContext(ctx context.Context, tokens []string) ([]*Node, error)
}

// StallReporter is optionally implemented by parsers that can say where
// a failed parse stopped consuming input.
type StallReporter interface {
	// Stall returns the index of the first token that could not be
	// consumed, or len(tokens) if the whole input was scanned.
	Stall(tokens []string) int
}

// Tokenizer splits input into the terminal tokens the parser consumes.
// Characters that start no terminal become single-character tokens, so an
// unknown character still fails the parse at its own position.
type Tokenizer interface {
	Tokenize(input string) []string
}
