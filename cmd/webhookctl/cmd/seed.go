package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/tech4-systems/webhook-receiver/internal/client"
)

var (
	seedCount int
	seedTo    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Send generated test payloads",
	Long:  "Generate open-format payloads with fake destinations and messages and post them to the webhook",
	Example: `  # 10 payloads with random destinations
  webhookctl seed

  # 100 payloads for one destination (exercises bounded history)
  webhookctl seed --count 100 --to 5511999999999`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL, _ := cmd.Flags().GetString("url")
		webhookPath, _ := cmd.Flags().GetString("webhook-path")
		c := client.New(baseURL)

		sent := 0
		for i := 0; i < seedCount; i++ {
			to := seedTo
			if to == "" {
				to = gofakeit.Phone()
			}

			payload, err := json.Marshal(map[string]interface{}{
				"to": to,
				"message": map[string]interface{}{
					"text": gofakeit.Sentence(8),
				},
			})
			if err != nil {
				return err
			}

			if _, err := c.Send(webhookPath, payload); err != nil {
				return fmt.Errorf("seed stopped after %d payloads: %w", sent, err)
			}
			sent++
		}

		fmt.Printf("Sent %d payloads\n", sent)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedCount, "count", 10, "number of payloads to send")
	seedCmd.Flags().StringVar(&seedTo, "to", "", "fixed destination key (random when empty)")

	rootCmd.AddCommand(seedCmd)
}
