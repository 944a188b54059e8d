package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/balance-alerts/internal/alerts"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

func evaluateCmd() *cobra.Command {
	var entryFile, profileFile string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Print the messages a ledger entry would produce for a customer",
		Long: `Evaluate reads a ledger entry and an optional customer alert profile
from JSON files and prints the resulting addressed messages as JSON.
Without a profile the result is an empty list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entry models.LedgerEntry
			if err := readJSON(entryFile, &entry); err != nil {
				return fmt.Errorf("read entry: %w", err)
			}

			var profile *models.CustomerAlertProfile
			if profileFile != "" {
				profile = &models.CustomerAlertProfile{}
				if err := readJSON(profileFile, profile); err != nil {
					return fmt.Errorf("read profile: %w", err)
				}
			}

			messages, err := alerts.GenerateAlerts(entry, profile)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(messages)
		},
	}

	cmd.Flags().StringVarP(&entryFile, "entry", "e", "", "Path to the ledger entry JSON file")
	cmd.Flags().StringVarP(&profileFile, "profile", "p", "", "Path to the customer alert profile JSON file")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
