//go:build darwin || linux || freebsd

package graphviz

import (
	"context"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

// LibGVC rasterizes in-process by loading the Graphviz C libraries with purego.
// libgvc is not reentrant, so calls are serialized.
type LibGVC struct {
	mu      sync.Mutex
	handles []uintptr
	paths   []string // resolved library paths, cgraph first

	gvContext        func() uintptr
	gvFreeContext    func(gvc uintptr) int32
	gvLayout         func(gvc, g uintptr, engine string) int32
	gvFreeLayout     func(gvc, g uintptr) int32
	gvRenderFilename func(gvc, g uintptr, format, filename string) int32
	agmemread        func(text string) uintptr
	agclose          func(g uintptr) int32
}

// LoadLibGVC opens libcgraph and libgvc, trying each search directory before
// falling back to the system loader's default paths.
func LoadLibGVC(searchPaths []string) (*LibGVC, error) {
	l := &LibGVC{}

	cgraph, cgraphPath, err := dlopenFirst(libCandidates(searchPaths, cgraphNames()))
	if err != nil {
		return nil, fmt.Errorf("libcgraph: %w", err)
	}
	l.handles = append(l.handles, cgraph)

	gvc, gvcPath, err := dlopenFirst(libCandidates(searchPaths, gvcNames()))
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("libgvc: %w", err)
	}
	l.handles = append(l.handles, gvc)
	l.paths = []string{cgraphPath, gvcPath}

	binds := []struct {
		handle uintptr
		name   string
		fn     any
	}{
		{cgraph, "agmemread", &l.agmemread},
		{cgraph, "agclose", &l.agclose},
		{gvc, "gvContext", &l.gvContext},
		{gvc, "gvFreeContext", &l.gvFreeContext},
		{gvc, "gvLayout", &l.gvLayout},
		{gvc, "gvFreeLayout", &l.gvFreeLayout},
		{gvc, "gvRenderFilename", &l.gvRenderFilename},
	}
	for _, b := range binds {
		sym, err := purego.Dlsym(b.handle, b.name)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("libgvc: symbol %s: %w", b.name, err)
		}
		purego.RegisterFunc(b.fn, sym)
	}
	return l, nil
}

func dlopenFirst(candidates []string) (uintptr, string, error) {
	var lastErr error
	for _, c := range candidates {
		h, err := purego.Dlopen(c, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			return h, c, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidates")
	}
	return 0, "", lastErr
}

// Name implements ports.Rasterizer.
func (l *LibGVC) Name() string { return EngineLibGVC }

// Paths returns the library paths that were loaded, cgraph first.
func (l *LibGVC) Paths() []string { return l.paths }

// Rasterize lays out dot with the "dot" engine and renders it to path.
func (l *LibGVC) Rasterize(ctx context.Context, dot string, format, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	gvc := l.gvContext()
	if gvc == 0 {
		return fmt.Errorf("libgvc: gvContext returned null")
	}
	defer l.gvFreeContext(gvc)

	g := l.agmemread(dot)
	if g == 0 {
		return fmt.Errorf("libgvc: could not read graph")
	}
	defer l.agclose(g)

	if rc := l.gvLayout(gvc, g, "dot"); rc != 0 {
		return fmt.Errorf("libgvc: layout failed (%d)", rc)
	}
	defer l.gvFreeLayout(gvc, g)

	if rc := l.gvRenderFilename(gvc, g, format, path); rc != 0 {
		return fmt.Errorf("libgvc: render %s to %s failed (%d)", format, path, rc)
	}
	return nil
}

// Close releases the dlopen handles. The LibGVC must not be used afterwards.
func (l *LibGVC) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.handles) - 1; i >= 0; i-- {
		purego.Dlclose(l.handles[i])
	}
	l.handles = nil
}
