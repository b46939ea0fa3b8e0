package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/acceptance"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of acceptance",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "acceptance version %s\n", strings.TrimSpace(acceptance.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
