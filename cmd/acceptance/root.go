package main

import (
	"fmt"
	"os"

	"github.com/aretw0/acceptance"
	"github.com/aretw0/acceptance/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "acceptance",
	Short: "Node lifecycle and UI wait helpers for acceptance suites",
	Long: `acceptance waits for test nodes to reboot, probes their reachability and
serves the suite's health and metrics endpoints.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "acceptance.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug, info, warn or error")
}

// loadHarness builds the harness from the --config file, applying --log-level on top.
func loadHarness(cmd *cobra.Command) (*acceptance.Harness, error) {
	path, _ := cmd.Flags().GetString("config")
	levelName, _ := cmd.Flags().GetString("log-level")

	var opts []acceptance.Option
	if levelName != "" {
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			return nil, err
		}
		opts = append(opts, acceptance.WithLogger(logging.New(level)))
	}
	return acceptance.NewFromFile(path, opts...)
}
