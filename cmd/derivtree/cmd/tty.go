package cmd

import "os"

func isCharDevice(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// isStdoutTTY returns true if stdout is connected to a terminal.
func isStdoutTTY() bool { return isCharDevice(os.Stdout) }

// isStdinPipe returns true if stdin is a pipe or file (not a terminal).
func isStdinPipe() bool { return !isCharDevice(os.Stdin) }

// useColor resolves --color and --no-color against the terminal.
func useColor() bool {
	return resolveColor(colorFlag, noColorFlag)
}

// resolveColor determines whether to use color output based on flags and TTY status.
// colorFlag is "auto", "always", or "never".
func resolveColor(colorFlag string, noColorFlag bool) bool {
	if noColorFlag || os.Getenv("NO_COLOR") != "" && colorFlag != "always" {
		return false
	}
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return isStdoutTTY()
	}
}
