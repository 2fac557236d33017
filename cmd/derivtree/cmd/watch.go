package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/corey/derivtree/internal/adapters/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render whenever a file's content changes",
	Long:  "Derives the file's content (trailing newline trimmed) on start and after every save. Stop with Ctrl-C.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()
	p := palette(useColor())
	var mu sync.Mutex // callbacks and the initial render share w

	render := func(file string) {
		mu.Lock()
		defer mu.Unlock()

		data, err := os.ReadFile(file)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			fmt.Fprintf(w, "%s\n", p.wrap(colorRed, "error: "+err.Error()))
			return
		}
		out, err := a.Generate(cmd.Context(), strings.TrimRight(string(data), "\r\n"))
		if errors.Is(err, context.Canceled) {
			return // shutting down
		}
		if err != nil {
			fmt.Fprintf(w, "%s\n", p.wrap(colorRed, "error: "+err.Error()))
			return
		}
		fmt.Fprint(w, formatOutcome(out, false, p))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	if err := watcher.Watch(path, render); err != nil {
		return err
	}
	fmt.Fprintf(w, "⚡ watching %s\n", path)
	render(path)

	<-cmd.Context().Done()
	return nil
}
