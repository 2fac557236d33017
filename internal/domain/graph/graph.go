// Package graph converts a derivation tree into a flat arena of vertices and
// parent-to-child edges. Vertex IDs come from a counter during a pre-order
// walk, so they are stable only within one conversion.
package graph

import (
	"fmt"

	"github.com/corey/derivtree/internal/ports"
)

// Kind distinguishes internal (nonterminal) vertices from leaf tokens.
type Kind int

const (
	Internal Kind = iota
	Leaf
)

func (k Kind) String() string {
	switch k {
	case Internal:
		return "internal"
	case Leaf:
		return "leaf"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Vertex is one tree node or leaf.
type Vertex struct {
	ID    int
	Label string
	Kind  Kind
}

// Edge connects a parent to its Order'th child.
type Edge struct {
	From, To int
	Order    int
}

// Graph is the directed graph for one derivation tree. Vertex i has ID i;
// vertex 0 is the root.
type Graph struct {
	Vertices []Vertex
	Edges    []Edge
}

// FromTree builds the graph for root. A nil root yields a nil graph.
func FromTree(root *ports.Node) *Graph {
	if root == nil {
		return nil
	}
	g := &Graph{}
	g.add(root)
	return g
}

func (g *Graph) add(t ports.Tree) int {
	id := len(g.Vertices)
	switch n := t.(type) {
	case *ports.Node:
		g.Vertices = append(g.Vertices, Vertex{ID: id, Label: n.Label, Kind: Internal})
		for i, c := range n.Children {
			child := g.add(c)
			g.Edges = append(g.Edges, Edge{From: id, To: child, Order: i})
		}
	case ports.Leaf:
		g.Vertices = append(g.Vertices, Vertex{ID: id, Label: n.Token, Kind: Leaf})
	default:
		panic(fmt.Sprintf("graph: unexpected tree type %T", t))
	}
	return id
}

// Children returns the IDs of v's children in order.
func (g *Graph) Children(v int) []int {
	var out []int
	for _, e := range g.Edges {
		if e.From == v {
			out = append(out, e.To)
		}
	}
	return out
}
