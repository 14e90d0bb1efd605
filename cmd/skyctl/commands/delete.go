package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shobhitraaj/skytarget/internal/cli"
	"github.com/shobhitraaj/skytarget/internal/client"
)

var (
	deleteForce bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a message",
	Long: `Delete a targeted message from the specified environment.

Examples:
  skyctl delete welcome --env prod
  skyctl delete welcome --env prod --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		envCfg, effectiveEnv, err := cli.Resolve(env, baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		// Confirm deletion unless --force
		if !deleteForce && !quiet {
			fmt.Printf("Are you sure you want to delete message '%s' from environment '%s'? (y/N): ", key, effectiveEnv)
			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Println("Deletion cancelled")
				return nil
			}
		}

		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		ctx := context.Background()
		if err := c.DeleteMessage(ctx, key); err != nil {
			return fmt.Errorf("failed to delete message: %w", err)
		}

		if !quiet {
			fmt.Printf("Successfully deleted message '%s' from environment '%s'\n", key, effectiveEnv)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
}
