package graphviz

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"png", "svg", "pdf", "dot"} {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("gif"))
	assert.False(t, ValidFormat(""))
	assert.Equal(t, "png, svg, pdf, dot", Formats())
}

func TestOpen_UnknownEngine(t *testing.T) {
	r, err := Open(context.Background(), Options{Engine: "cairo"})
	assert.Nil(t, r)
	assert.EqualError(t, err, `unknown engine "cairo" (want auto, dot, libgvc, or wasm)`)
}

func TestOpen_DotEngine(t *testing.T) {
	bin := fakeDot(t, `cat > "$3"`)
	r, err := Open(context.Background(), Options{Engine: EngineDot, DotPath: bin})
	require.NoError(t, err)
	assert.Equal(t, EngineDot, r.Name())
}

func TestOpen_DotEngineMissingIsNilInterface(t *testing.T) {
	r, err := Open(context.Background(), Options{Engine: EngineDot, DotPath: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestLibCandidates_SearchDirsFirst(t *testing.T) {
	dir := t.TempDir()
	names := []string{"libgvc.so.6", "libgvc.so"}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "libgvc.so"), nil, 0644))

	got := libCandidates([]string{filepath.Join(dir, "missing"), dir}, names)
	assert.Equal(t, []string{filepath.Join(dir, "libgvc.so"), "libgvc.so.6", "libgvc.so"}, got)

	assert.Equal(t, names, libCandidates(nil, names))
}

func TestOpen_WASMEngine(t *testing.T) {
	r, err := Open(context.Background(), Options{Engine: EngineWASM})
	require.NoError(t, err)
	w := r.(*WASM)
	defer w.Close()
	assert.Equal(t, EngineWASM, w.Name())

	out := filepath.Join(t.TempDir(), "tree.svg")
	require.NoError(t, w.Rasterize(context.Background(), "digraph derivation { n0 -> n1 }", FormatSVG, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestWASM_RejectsPDF(t *testing.T) {
	assert.True(t, SupportsFormat(FormatPNG))
	assert.True(t, SupportsFormat(FormatSVG))
	assert.False(t, SupportsFormat(FormatPDF))

	w, err := NewWASM(context.Background())
	require.NoError(t, err)
	defer w.Close()
	err = w.Rasterize(context.Background(), "digraph { a }", FormatPDF, filepath.Join(t.TempDir(), "x.pdf"))
	assert.EqualError(t, err, `wasm graphviz: format "pdf" not supported`)
}

func TestOpen_AutoSkipsWASMForPDF(t *testing.T) {
	bin := fakeDot(t, `cat > "$3"`)
	r, err := Open(context.Background(), Options{
		Engine:   EngineAuto,
		Format:   FormatPDF,
		DotPath:  bin,
		LibPaths: []string{t.TempDir()},
	})
	require.NoError(t, err)
	if r.Name() == EngineLibGVC {
		t.Skip("system libgvc is installed")
	}
	assert.Equal(t, EngineDot, r.Name())
}
