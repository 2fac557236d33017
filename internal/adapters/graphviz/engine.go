package graphviz

import (
	"context"
	"fmt"
	"strings"

	"github.com/corey/derivtree/internal/ports"
)

// Engine names accepted by Open.
const (
	EngineAuto   = "auto"
	EngineDot    = "dot"
	EngineLibGVC = "libgvc"
	EngineWASM   = "wasm"
)

// Output formats. FormatDOT writes the DOT text itself and needs no engine.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

var formats = []string{FormatPNG, FormatSVG, FormatPDF, FormatDOT}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

// Formats returns the supported output formats, comma separated.
func Formats() string { return strings.Join(formats, ", ") }

// Options selects and configures a rasterizer.
type Options struct {
	Engine   string   // auto, dot, libgvc, wasm
	Format   string   // output format; auto skips engines that cannot render it
	DotPath  string   // dot binary; empty searches $PATH
	LibPaths []string // extra directories for libgvc/libcgraph
}

// Open returns the requested rasterizer. "auto" prefers in-process libgvc,
// then the WebAssembly build when it can render opts.Format, then the dot
// binary.
func Open(ctx context.Context, opts Options) (ports.Rasterizer, error) {
	switch opts.Engine {
	case EngineDot:
		dot, err := NewDotCommand(opts.DotPath)
		if err != nil {
			return nil, err
		}
		return dot, nil
	case EngineLibGVC:
		lib, err := LoadLibGVC(opts.LibPaths)
		if err != nil {
			return nil, err
		}
		return lib, nil
	case EngineWASM:
		w, err := NewWASM(ctx)
		if err != nil {
			return nil, err
		}
		return w, nil
	case EngineAuto, "":
		lib, libErr := LoadLibGVC(opts.LibPaths)
		if libErr == nil {
			return lib, nil
		}
		if opts.Format == "" || SupportsFormat(opts.Format) {
			if w, err := NewWASM(ctx); err == nil {
				return w, nil
			}
		}
		dot, dotErr := NewDotCommand(opts.DotPath)
		if dotErr == nil {
			return dot, nil
		}
		return nil, fmt.Errorf("no Graphviz layout engine available: %v; %v", libErr, dotErr)
	default:
		return nil, fmt.Errorf("unknown engine %q (want %s, %s, %s, or %s)", opts.Engine, EngineAuto, EngineDot, EngineLibGVC, EngineWASM)
	}
}
