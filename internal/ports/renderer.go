package ports

import "context"

// Rasterizer lays out a DOT graph description and writes the image to a file.
// Implementations live in internal/adapters/graphviz.
type Rasterizer interface {
	// Name identifies the engine ("dot", "libgvc").
	Name() string

	// Rasterize renders dot in the given output format ("png", "svg")
	// to path, overwriting any existing file.
	Rasterize(ctx context.Context, dot string, format, path string) error
}

// Outcome is the result of one generate request: parse, render, message.
type Outcome struct {
	Input   string `json:"input"`
	Derived bool   `json:"derived"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
	Yield   string `json:"yield,omitempty"`
	Stall   int    `json:"stall"` // first unconsumed token on failure, -1 otherwise

	Tree *Node `json:"-"`
}
