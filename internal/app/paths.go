package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .derivtree/ project directory.
type Paths struct {
	Root string // .derivtree/
	DB   string // .derivtree/history.db

	RunDir   string // .derivtree/run/
	PortFile string // .derivtree/run/http.port
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".derivtree")
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "history.db"),

		RunDir:   filepath.Join(root, "run"),
		PortFile: filepath.Join(root, "run", "http.port"),
	}
}

// EnsureDirs creates all subdirectories under .derivtree/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes runtime files written by serve.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PortFile)
}
