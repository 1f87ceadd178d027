package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "captionctl",
		Short: "Caption images through the configured captioning service",
		Long: `captionctl drives the same upload and recaption pipelines as the
HTTP server, using the same configuration file and environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "Path to config file")

	rootCmd.AddCommand(
		captionCmd(opts),
		recaptionCmd(opts),
		uploadsCmd(opts),
		versionCmd(),
	)

	return rootCmd
}
