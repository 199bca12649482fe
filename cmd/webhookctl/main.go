package main

import (
	"os"

	"github.com/tech4-systems/webhook-receiver/cmd/webhookctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
