// Package graphviz turns derivation graphs into Graphviz DOT text and
// rasterizes DOT into image files, either through the dot binary or
// in-process through libgvc.
package graphviz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/corey/derivtree/internal/domain/graph"
)

// GraphName is the name of the emitted digraph.
const GraphName = "derivation"

// DefaultRankDir lays the tree out top to bottom.
const DefaultRankDir = "TB"

var validRankDirs = map[string]bool{"TB": true, "BT": true, "LR": true, "RL": true}

// ValidRankDir reports whether dir is a Graphviz rank direction.
func ValidRankDir(dir string) bool { return validRankDirs[dir] }

// Encode renders g as a DOT digraph. Child order is kept with ordering=out;
// vertex names are zero-padded so the serializer's name sort matches ID order.
func Encode(g *graph.Graph, rankdir string) (string, error) {
	if g == nil {
		return "", fmt.Errorf("encode: nil graph")
	}
	if rankdir == "" {
		rankdir = DefaultRankDir
	}
	if !validRankDirs[rankdir] {
		return "", fmt.Errorf("encode: invalid rankdir %q", rankdir)
	}

	gv := gographviz.NewGraph()
	if err := gv.SetName(GraphName); err != nil {
		return "", err
	}
	if err := gv.SetDir(true); err != nil {
		return "", err
	}
	if err := gv.AddAttr(GraphName, "rankdir", rankdir); err != nil {
		return "", err
	}
	if err := gv.AddAttr(GraphName, "ordering", "out"); err != nil {
		return "", err
	}

	width := len(strconv.Itoa(len(g.Vertices)))
	for _, v := range g.Vertices {
		attrs := map[string]string{"label": quote(v.Label)}
		if v.Kind == graph.Leaf {
			attrs["shape"] = "plaintext"
		}
		if err := gv.AddNode(GraphName, vertexName(v.ID, width), attrs); err != nil {
			return "", fmt.Errorf("encode vertex %d: %w", v.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := gv.AddEdge(vertexName(e.From, width), vertexName(e.To, width), true, nil); err != nil {
			return "", fmt.Errorf("encode edge %d->%d: %w", e.From, e.To, err)
		}
	}
	return gv.String(), nil
}

func vertexName(id, width int) string {
	return fmt.Sprintf("n%0*d", width, id)
}

// quote produces a DOT double-quoted string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
