package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shobhitraaj/skytarget/internal/cli"
	"github.com/shobhitraaj/skytarget/internal/client"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a message",
	Long: `Get details of a specific targeted message.

Examples:
  skyctl get welcome --env prod
  skyctl get welcome --env prod --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		envCfg, _, err := cli.Resolve(env, baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		msg, err := c.GetMessage(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to get message: %w", err)
		}

		if !quiet {
			return cli.PrintMessage(msg, cli.OutputFormat(format))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
