package graph

import (
	"testing"

	"github.com/corey/derivtree/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(label string, children ...ports.Tree) *ports.Node {
	return &ports.Node{Label: label, Children: children}
}

func l(tok string) ports.Leaf { return ports.Leaf{Token: tok} }

func TestFromTree_Nil(t *testing.T) {
	assert.Nil(t, FromTree(nil))
}

func TestFromTree_SingleLetter(t *testing.T) {
	// S -> A -> 'a': three vertices, two edges.
	g := FromTree(n("S", n("A", l("a"))))
	require.NotNil(t, g)

	assert.Equal(t, []Vertex{
		{ID: 0, Label: "S", Kind: Internal},
		{ID: 1, Label: "A", Kind: Internal},
		{ID: 2, Label: "a", Kind: Leaf},
	}, g.Vertices)
	assert.Equal(t, []Edge{
		{From: 1, To: 2, Order: 0},
		{From: 0, To: 1, Order: 0},
	}, g.Edges)
}

func TestFromTree_EmptyPlaceholder(t *testing.T) {
	g := FromTree(n("S"))
	require.NotNil(t, g)
	assert.Len(t, g.Vertices, 1)
	assert.Empty(t, g.Edges)
}

func TestFromTree_CountsMatchTree(t *testing.T) {
	trees := []*ports.Node{
		n("S", n("A", l("a"), n("A", l("A"))), n("B", l("b"))),
		n("S", n("A", l("a")), n("B", l("b")), n("C", l("c"), n("C", l("C")))),
		n("E", n("E", l("n")), l("+"), n("E", l("n"))),
	}
	for _, tr := range trees {
		g := FromTree(tr)
		internal, leaves := ports.Count(tr)
		assert.Len(t, g.Vertices, internal+leaves)
		assert.Len(t, g.Edges, len(g.Vertices)-1)
		for i, v := range g.Vertices {
			assert.Equal(t, i, v.ID)
		}
	}
}

func TestFromTree_ChildOrderPreserved(t *testing.T) {
	g := FromTree(n("E", n("E", l("n")), l("+"), n("E", l("m"))))

	kids := g.Children(0)
	require.Len(t, kids, 3)
	assert.Equal(t, "E", g.Vertices[kids[0]].Label)
	assert.Equal(t, "+", g.Vertices[kids[1]].Label)
	assert.Equal(t, Leaf, g.Vertices[kids[1]].Kind)
	assert.Equal(t, "E", g.Vertices[kids[2]].Label)

	for _, e := range g.Edges {
		if e.From == 0 {
			assert.Equal(t, kids[e.Order], e.To)
		}
	}
}

func TestFromTree_SharedSubtreesGetDistinctVertices(t *testing.T) {
	// The chart parser may share subtrees between derivations; each
	// occurrence still becomes its own vertex.
	shared := n("A", l("a"))
	g := FromTree(n("S", shared, shared))
	assert.Len(t, g.Vertices, 5)
	assert.Len(t, g.Edges, 4)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "internal", Internal.String())
	assert.Equal(t, "leaf", Leaf.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
