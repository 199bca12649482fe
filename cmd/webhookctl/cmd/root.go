package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "webhookctl",
	Short: "Webhook receiver CLI",
	Long: `webhookctl is the command-line interface for the webhook receiver.

Send payloads, inspect stored records, and manage correlation-keyed state
from your terminal.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("url", "http://localhost:8080", "base URL of the webhook receiver")
	rootCmd.PersistentFlags().String("webhook-path", "/webhooks/tech4", "webhook ingestion path")
}

// printJSON pretty-prints a decoded response.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// keyspaceFlag resolves the --sessions flag into a query keyspace.
func keyspaceFlag(cmd *cobra.Command) string {
	if sessions, _ := cmd.Flags().GetBool("sessions"); sessions {
		return "sessions"
	}
	return "messages"
}
