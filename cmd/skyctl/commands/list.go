package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shobhitraaj/skytarget/internal/cli"
	"github.com/shobhitraaj/skytarget/internal/client"
	"github.com/shobhitraaj/skytarget/internal/store"
)

var (
	listEnabledOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all messages",
	Long: `List all targeted messages in the specified environment.

Examples:
  skyctl list --env prod
  skyctl list --env prod --format json
  skyctl list --env prod --enabled-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		envCfg, _, err := cli.Resolve(env, baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		messages, err := c.ListMessages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list messages: %w", err)
		}

		if listEnabledOnly {
			var enabled []store.Message
			for _, m := range messages {
				if m.Enabled {
					enabled = append(enabled, m)
				}
			}
			messages = enabled
		}

		if !quiet {
			if len(messages) == 0 {
				fmt.Println("No messages found")
				return nil
			}
			return cli.PrintMessages(messages, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listEnabledOnly, "enabled-only", false, "Show only enabled messages")
}
