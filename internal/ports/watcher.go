package ports

// Watcher monitors a single input file and reports content changes.
// The adapter (fsnotify) watches the parent directory so editors that replace
// the file on save (rename + create) are still observed.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with the absolute
	// path after each debounced write, create, or rename onto the file.
	// The callback may be invoked from any goroutine.
	Watch(path string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
