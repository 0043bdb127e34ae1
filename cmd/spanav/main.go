package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spanav",
		Short: "Serve the expense tracker route table",
		Long: `spanav serves a declarative route table to an htmx front end.

Routes are declared in config.toml. Eager routes render immediately,
lazy routes load their view on first visit and keep it cached.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "config.toml", "configuration file")

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
