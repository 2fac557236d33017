// Package chart implements ports.Parser with an Earley chart recognizer
// followed by exhaustive enumeration of parse trees from the completed chart.
//
// Rules with an empty right-hand side are rejected by the grammar package, so
// every symbol spans at least one token. That keeps both the completer and the
// enumerator simple: a completed item always has origin < end.
package chart

import (
	"context"

	"github.com/corey/derivtree/internal/domain/grammar"
	"github.com/corey/derivtree/internal/ports"
)

// DefaultMaxTrees bounds how many derivations Parse enumerates.
const DefaultMaxTrees = 64

// checkEvery is how many chart sets or enumeration steps pass between
// context checks.
const checkEvery = 256

// Option configures a Parser.
type Option func(*Parser)

// WithMaxTrees caps the number of derivations Parse returns. n <= 0 keeps the default.
func WithMaxTrees(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxTrees = n
		}
	}
}

// Parser is an Earley parser bound to one grammar. It holds no per-parse
// state and is safe for concurrent use.
type Parser struct {
	g        *grammar.Grammar
	maxTrees int
}

// New creates a parser for g.
func New(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{g: g, maxTrees: DefaultMaxTrees}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Grammar returns the grammar the parser was built with.
func (p *Parser) Grammar() *grammar.Grammar { return p.g }

// Parse is ParseContext with a background context.
func (p *Parser) Parse(tokens []string) ([]*ports.Node, error) {
	return p.ParseContext(context.Background(), tokens)
}

// ParseContext returns every derivation of the start symbol over tokens, up
// to the configured maximum. Alternatives are tried in declaration order and
// split points in ascending order, so the result order is deterministic.
// It returns ctx.Err() if ctx is done before the parse finishes.
func (p *Parser) ParseContext(ctx context.Context, tokens []string) ([]*ports.Node, error) {
	n := len(tokens)
	if n == 0 {
		return nil, nil
	}
	c, err := p.recognize(ctx, tokens)
	if err != nil {
		return nil, err
	}
	if !c.spans[symSpan{p.g.Start(), 0, n}] {
		return nil, nil
	}
	e := &enumerator{
		ctx:    ctx,
		c:      c,
		max:    p.maxTrees,
		memo:   make(map[symSpan][]*ports.Node),
		active: make(map[symSpan]bool),
		fit:    make(map[suffixSpan]bool),
	}
	trees := e.trees(p.g.Start(), 0, n)
	if e.err != nil {
		return nil, e.err
	}
	return trees, nil
}

// Stall returns the index of the first token the chart could not scan,
// or len(tokens) if every token was scanned.
func (p *Parser) Stall(tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	c, _ := p.recognize(context.Background(), tokens)
	return c.stall
}

// item is a dotted rule: rule ID, dot position, and origin chart index.
type item struct {
	rule, dot, origin int
}

type itemSet struct {
	items   []item
	seen    map[item]struct{}
	waiting map[string][]item // items whose dot is before that nonterminal
}

// add puts it in set i, indexing it under the nonterminal after its dot.
func (c *chart) add(i int, it item) {
	s := c.sets[i]
	if _, ok := s.seen[it]; ok {
		return
	}
	s.seen[it] = struct{}{}
	s.items = append(s.items, it)
	if rhs := c.g.Rule(it.rule).RHS; it.dot < len(rhs) && !rhs[it.dot].Terminal {
		name := rhs[it.dot].Name
		s.waiting[name] = append(s.waiting[name], it)
	}
}

type ruleSpan struct {
	rule, start, end int
}

type symSpan struct {
	sym        string
	start, end int
}

// suffixSpan asks whether rule's RHS from symbol k on derives tokens[start:end].
type suffixSpan struct {
	rule, k, start, end int
}

type chart struct {
	g      *grammar.Grammar
	tokens []string
	sets   []*itemSet
	done   map[ruleSpan]bool // rule completed over [start, end)
	spans  map[symSpan]bool  // nonterminal derives tokens[start:end]
	stall  int
}

func (p *Parser) recognize(ctx context.Context, tokens []string) (*chart, error) {
	n := len(tokens)
	c := &chart{
		g:      p.g,
		tokens: tokens,
		sets:   make([]*itemSet, n+1),
		done:   make(map[ruleSpan]bool),
		spans:  make(map[symSpan]bool),
		stall:  n,
	}
	for i := range c.sets {
		c.sets[i] = &itemSet{seen: make(map[item]struct{}), waiting: make(map[string][]item)}
	}
	for _, id := range p.g.RuleIDs(p.g.Start()) {
		c.add(0, item{id, 0, 0})
	}

	for i := 0; i <= n; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		set := c.sets[i]
		for k := 0; k < len(set.items); k++ {
			it := set.items[k]
			r := p.g.Rule(it.rule)
			if it.dot == len(r.RHS) {
				c.complete(i, it, r.LHS)
				continue
			}
			next := r.RHS[it.dot]
			if next.Terminal {
				if i < n && tokens[i] == next.Name {
					c.add(i+1, item{it.rule, it.dot + 1, it.origin})
				}
				continue
			}
			for _, id := range p.g.RuleIDs(next.Name) {
				c.add(i, item{id, 0, i})
			}
		}
		if i < n && len(c.sets[i+1].items) == 0 {
			c.stall = i
			break
		}
	}
	return c, nil
}

// complete advances every item in the origin set that was waiting on lhs.
func (c *chart) complete(end int, it item, lhs string) {
	c.done[ruleSpan{it.rule, it.origin, end}] = true
	c.spans[symSpan{lhs, it.origin, end}] = true
	for _, parent := range c.sets[it.origin].waiting[lhs] {
		c.add(end, item{parent.rule, parent.dot + 1, parent.origin})
	}
}

// enumerator walks the completed chart top-down, building trees.
// Results are memoized per (symbol, span) unless a unit-rule cycle was cut
// while computing them, since a cut result depends on the current path.
// A split is only descended into once the rest of the rule is known to
// cover the remaining span, so dead ends cost a map lookup, not a subtree.
type enumerator struct {
	ctx    context.Context
	err    error
	steps  int
	c      *chart
	max    int
	memo   map[symSpan][]*ports.Node
	active map[symSpan]bool
	fit    map[suffixSpan]bool
	cuts   int
}

func (e *enumerator) trees(sym string, start, end int) []*ports.Node {
	if e.err != nil {
		return nil
	}
	if e.steps++; e.steps%checkEvery == 0 {
		if e.err = e.ctx.Err(); e.err != nil {
			return nil
		}
	}
	key := symSpan{sym, start, end}
	if !e.c.spans[key] {
		return nil
	}
	if ts, ok := e.memo[key]; ok {
		return ts
	}
	if e.active[key] {
		e.cuts++
		return nil
	}
	e.active[key] = true
	cutsBefore := e.cuts

	var out []*ports.Node
	for _, id := range e.c.g.RuleIDs(sym) {
		if !e.c.done[ruleSpan{id, start, end}] {
			continue
		}
		e.expand(id, 0, start, end, nil, func(children []ports.Tree) bool {
			out = append(out, &ports.Node{Label: sym, Children: children})
			return len(out) < e.max
		})
		if len(out) >= e.max || e.err != nil {
			break
		}
	}

	delete(e.active, key)
	if e.cuts == cutsBefore && e.err == nil {
		e.memo[key] = out
	}
	return out
}

// expand matches the RHS of rule from symbol k on against tokens[pos:end]
// and calls emit with each complete child sequence. It returns false once
// emit asks to stop.
func (e *enumerator) expand(rule, k, pos, end int, acc []ports.Tree, emit func([]ports.Tree) bool) bool {
	rhs := e.c.g.Rule(rule).RHS
	if k == len(rhs) {
		if pos != end {
			return true
		}
		return emit(append([]ports.Tree(nil), acc...))
	}
	if e.err != nil {
		return false
	}

	s := rhs[k]
	if s.Terminal {
		if pos < end && e.c.tokens[pos] == s.Name {
			return e.expand(rule, k+1, pos+1, end, append(acc, ports.Leaf{Token: e.c.tokens[pos]}), emit)
		}
		return true
	}

	// Every remaining symbol needs at least one token; the last one takes
	// whatever is left.
	first, last := pos+1, end-(len(rhs)-k-1)
	if k == len(rhs)-1 {
		first = end
	}
	for mid := first; mid <= last; mid++ {
		if !e.c.spans[symSpan{s.Name, pos, mid}] || !e.fits(rule, k+1, mid, end) {
			continue
		}
		for _, sub := range e.trees(s.Name, pos, mid) {
			if !e.expand(rule, k+1, mid, end, append(acc, sub), emit) {
				return false
			}
		}
	}
	return true
}

// fits reports whether the RHS of rule from symbol k on derives
// tokens[pos:end].
func (e *enumerator) fits(rule, k, pos, end int) bool {
	rhs := e.c.g.Rule(rule).RHS
	if k == len(rhs) {
		return pos == end
	}
	if end-pos < len(rhs)-k {
		return false
	}
	key := suffixSpan{rule, k, pos, end}
	if ok, seen := e.fit[key]; seen {
		return ok
	}

	var ok bool
	s := rhs[k]
	switch {
	case s.Terminal:
		ok = e.c.tokens[pos] == s.Name && e.fits(rule, k+1, pos+1, end)
	case k == len(rhs)-1:
		ok = e.c.spans[symSpan{s.Name, pos, end}]
	default:
		last := end - (len(rhs) - k - 1)
		for mid := pos + 1; mid <= last && !ok; mid++ {
			ok = e.c.spans[symSpan{s.Name, pos, mid}] && e.fits(rule, k+1, mid, end)
		}
	}
	e.fit[key] = ok
	return ok
}
