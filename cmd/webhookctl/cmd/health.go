package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tech4-systems/webhook-receiver/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check receiver health",
	Long:  "Fetch the liveness snapshot: backend, reachability, TTL and server time",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("url")

		snapshot, err := client.New(baseURL).Health()
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		return printJSON(snapshot)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
