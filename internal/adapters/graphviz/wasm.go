package graphviz

import (
	"context"
	"fmt"
	"sync"

	gv "github.com/goccy/go-graphviz"
)

// wasmFormats are the formats the WebAssembly build can render. It ships
// without cairo, so pdf is left to libgvc or the dot binary.
var wasmFormats = map[string]gv.Format{
	FormatPNG: gv.PNG,
	FormatSVG: gv.SVG,
}

// WASM rasterizes in-process with github.com/goccy/go-graphviz, which runs
// Graphviz compiled to WebAssembly. It needs no system Graphviz.
type WASM struct {
	mu sync.Mutex
	g  *gv.Graphviz
}

// NewWASM instantiates the Graphviz module.
func NewWASM(ctx context.Context) (*WASM, error) {
	g, err := gv.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("wasm graphviz: %w", err)
	}
	return &WASM{g: g}, nil
}

// SupportsFormat reports whether format can be rendered without cairo.
func SupportsFormat(format string) bool {
	_, ok := wasmFormats[format]
	return ok
}

// Name implements ports.Rasterizer.
func (w *WASM) Name() string { return EngineWASM }

// Rasterize parses dot and renders it to path.
func (w *WASM) Rasterize(ctx context.Context, dot string, format, path string) error {
	f, ok := wasmFormats[format]
	if !ok {
		return fmt.Errorf("wasm graphviz: format %q not supported", format)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	graph, err := gv.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("wasm graphviz: parse: %w", err)
	}
	defer graph.Close()

	if err := w.g.RenderFilename(ctx, graph, f, path); err != nil {
		return fmt.Errorf("wasm graphviz: render %s: %w", format, err)
	}
	return nil
}

// Close releases the WebAssembly runtime.
func (w *WASM) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.g.Close()
}
