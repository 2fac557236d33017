package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/derivtree/internal/app"
)

// exitError carries a process exit code without an error message,
// grep style: 0 = derived, 1 = no derivation.
type exitError struct{ code int }

func (e exitError) Error() string {
	if e.code == 1 {
		return "no derivation"
	}
	return fmt.Sprintf("exit %d", e.code)
}

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	if ee, ok := err.(exitError); ok {
		return ee.code
	}
	return -1
}

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns guidance when the history database is held by
// another derivtree process, typically a long-running serve or watch.
func diagnoseDBLock(paths *app.Paths) string {
	if data, err := os.ReadFile(paths.PortFile); err == nil {
		return fmt.Sprintf("history is locked by a running 'derivtree serve' (port %s)\n"+
			"  → stop it first, or run without --history", strings.TrimSpace(string(data)))
	}
	return "history is locked by another derivtree process\n" +
		"  → find the process:  ps aux | grep 'derivtree'\n" +
		"  → stop it, or run without --history"
}
