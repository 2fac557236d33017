package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/corey/derivtree/internal/adapters/bbolt"
	"github.com/corey/derivtree/internal/app"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyForce bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded outcomes (see --history)",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded outcomes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all recorded outcomes",
	Args:  cobra.NoArgs,
	RunE:  runHistoryWipe,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 20, "Max entries to show (0 = all)")
	historyWipeCmd.Flags().BoolVar(&historyForce, "force", false, "Skip confirmation prompt")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyWipeCmd)
}

// openHistory opens the store if the database exists. A nil store means
// nothing has been recorded yet.
func openHistory() (*bbolt.Store, error) {
	paths := app.NewPaths(projectRoot())
	if _, err := os.Stat(paths.DB); os.IsNotExist(err) {
		return nil, nil
	}
	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("open history: %w\n%s", err, diagnoseDBLock(paths))
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	store, err := openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(w, "⚡ no history (record with --history)")
		return nil
	}
	defer store.Close()

	entries, err := store.List(historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprint(w, formatHistory(entries, palette(useColor())))
	return nil
}

func runHistoryWipe(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	root := projectRoot()

	if !historyForce {
		fmt.Fprintf(w, "⚠ This will delete the derivtree history for %s. Continue? [y/N] ", root)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(w, "cancelled")
			return nil
		}
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(w, "⚡ no history to wipe")
		return nil
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(w, "⚡ history wiped")
	return nil
}
