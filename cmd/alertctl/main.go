// alertctl evaluates balance alert rules offline.
//
// Usage:
//
//	alertctl evaluate --entry entry.json --profile profile.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "alertctl",
		Short:         "Evaluate balance alert rules against ledger entries",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(evaluateCmd())
	return cmd
}
