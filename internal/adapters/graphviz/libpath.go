package graphviz

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultLibPaths returns extra directories searched for the Graphviz shared
// libraries before the system loader's own paths.
func DefaultLibPaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/opt/homebrew/lib", "/usr/local/lib"}
	case "freebsd":
		return []string{"/usr/local/lib"}
	}
	return nil
}

func gvcNames() []string {
	if runtime.GOOS == "darwin" {
		return []string{"libgvc.6.dylib", "libgvc.dylib"}
	}
	return []string{"libgvc.so.6", "libgvc.so"}
}

func cgraphNames() []string {
	if runtime.GOOS == "darwin" {
		return []string{"libcgraph.6.dylib", "libcgraph.dylib"}
	}
	return []string{"libcgraph.so.6", "libcgraph.so"}
}

// libCandidates lists the files to try for one library: names found in the
// search directories first (in order), then the bare names for the system loader.
func libCandidates(searchPaths, names []string) []string {
	var out []string
	for _, dir := range searchPaths {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				out = append(out, candidate)
			}
		}
	}
	return append(out, names...)
}
