package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tech4-systems/webhook-receiver/internal/client"
)

var sendCmd = &cobra.Command{
	Use:   "send [file]",
	Short: "Send one payload to the webhook",
	Long:  "Post a JSON payload read from a file, or from stdin when no file is given",
	Example: `  # From a file
  webhookctl send payload.json

  # From stdin
  echo '{"to":"5511999999999","message":{"text":"hi"}}' | webhookctl send`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload []byte
		var err error

		if len(args) == 1 {
			payload, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read payload file: %w", err)
			}
		} else {
			payload, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
		}
		if len(payload) == 0 {
			return fmt.Errorf("no payload provided")
		}

		baseURL, _ := cmd.Flags().GetString("url")
		webhookPath, _ := cmd.Flags().GetString("webhook-path")

		resp, err := client.New(baseURL).Send(webhookPath, payload)
		if err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
		return printJSON(resp)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
