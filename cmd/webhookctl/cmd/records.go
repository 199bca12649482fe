package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tech4-systems/webhook-receiver/internal/client"
)

var latestCmd = &cobra.Command{
	Use:   "latest <key>",
	Short: "Fetch the latest record for a key",
	Long:  "Fetch the most recent stored payload for a correlation key",
	Example: `  # Open ('to'-keyed) record
  webhookctl latest 5511999999999

  # Structured (serviceId-keyed) record
  webhookctl latest svc1 --sessions`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("url")

		raw, err := client.New(baseURL).Latest(keyspaceFlag(cmd), args[0])
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <key>",
	Short: "Fetch the retained history for a key",
	Long:  "Fetch the retained record sequence for a correlation key, oldest to newest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("url")

		resp, err := client.New(baseURL).History(keyspaceFlag(cmd), args[0])
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete all state for a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("url")

		resp, err := client.New(baseURL).Delete(keyspaceFlag(cmd), args[0])
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List resident session keys",
	Long:  "List resident session keys in first-write order (in-memory backend only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("url")
		limit, _ := cmd.Flags().GetInt("limit")

		resp, err := client.New(baseURL).Sessions(limit)
		if err != nil {
			return fmt.Errorf("session listing failed: %w", err)
		}
		return printJSON(resp)
	},
}

func init() {
	latestCmd.Flags().Bool("sessions", false, "query the serviceId keyspace")
	historyCmd.Flags().Bool("sessions", false, "query the serviceId keyspace")
	deleteCmd.Flags().Bool("sessions", false, "query the serviceId keyspace")
	sessionsCmd.Flags().Int("limit", 50, "maximum keys to list (clamped to 500)")

	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}
