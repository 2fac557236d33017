//go:build !(darwin || linux || freebsd)

package graphviz

import (
	"context"
	"fmt"
)

// LibGVC is unavailable on this platform.
type LibGVC struct{}

// LoadLibGVC always fails on platforms without dlopen support.
func LoadLibGVC(_ []string) (*LibGVC, error) {
	return nil, fmt.Errorf("libgvc: in-process rendering is not supported on this platform")
}

func (l *LibGVC) Name() string    { return EngineLibGVC }
func (l *LibGVC) Paths() []string { return nil }
func (l *LibGVC) Close()          {}

func (l *LibGVC) Rasterize(_ context.Context, _ string, _, _ string) error {
	return fmt.Errorf("libgvc: in-process rendering is not supported on this platform")
}
