package cmd

import (
	"fmt"

	"github.com/corey/derivtree/internal/adapters/web"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the derivation form on localhost",
	Long:  "Serves a text field, a button, and the rendered tree at http://localhost:<port>. Stop with Ctrl-C.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port (default derived from the project path)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create %s: %w", a.Paths.Root, err)
	}

	port := servePort
	if port == 0 {
		port = web.DefaultPort(projectRoot())
	}

	srv := web.NewServer(a, a.Paths.PortFile)
	if err := srv.Start(port); err != nil {
		return err
	}
	defer srv.Stop()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "⚡ derivtree serving at %s (engine %s, format %s)\n", srv.URL(), a.EngineName(), a.Format())

	<-cmd.Context().Done()
	fmt.Fprintln(w, "\n⚡ shutting down...")
	return nil
}
