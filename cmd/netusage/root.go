package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/netusage/internal/version"
)

var configPath string

// rootCmd starts the server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "netusage",
	Short: "netusage - local data-usage accounting service",
	Long: `netusage reports cumulative mobile and total byte counters and trailing
24h usage over a method channel, and manages the usage-access grant.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to configuration file (default: config/$ENV.yaml)")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
