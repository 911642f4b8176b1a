package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xwui-dev/xwui/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "xwui",
		Short: "Render and serve xwui pages",
		Long: `xwui builds pages from element trees.

The demo site can be rendered to a file or served over HTTP with
Prometheus metrics and a devtools event stream.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory holding xwui.yaml or xwui.json")

	cmd.AddCommand(
		renderCmd(&configDir),
		serveCmd(&configDir),
		initCmd(&configDir),
		versionCmd(),
	)
	return cmd
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
