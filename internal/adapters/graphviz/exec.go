package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DotCommand rasterizes by running the Graphviz dot binary.
type DotCommand struct {
	path string
}

// NewDotCommand resolves the dot binary. An empty path searches $PATH for "dot".
func NewDotCommand(path string) (*DotCommand, error) {
	if path == "" {
		path = "dot"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("graphviz dot not found: %w", err)
	}
	return &DotCommand{path: resolved}, nil
}

// Name implements ports.Rasterizer.
func (d *DotCommand) Name() string { return EngineDot }

// Path returns the resolved binary path.
func (d *DotCommand) Path() string { return d.path }

// Rasterize pipes dot into "dot -T<format> -o <path>".
func (d *DotCommand) Rasterize(ctx context.Context, dot string, format, path string) error {
	cmd := exec.CommandContext(ctx, d.path, "-T"+format, "-o", path)
	cmd.Stdin = strings.NewReader(dot)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("dot -T%s: %w", format, err)
		}
		return fmt.Errorf("dot -T%s: %w: %s", format, err, msg)
	}
	return nil
}
