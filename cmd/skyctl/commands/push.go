package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/cli"
	"github.com/shobhitraaj/skytarget/internal/client"
	"github.com/shobhitraaj/skytarget/internal/store"
)

var (
	pushEnabled      bool
	pushDescription  string
	pushAudience     string
	pushAudienceFile string
)

var pushCmd = &cobra.Command{
	Use:   "push <key>",
	Short: "Create or update a message",
	Long: `Create or update a targeted message with the specified key and options.
The audience document is validated locally before it is sent.

Examples:
  skyctl push welcome --enabled --audience '{"new_user": true}' --env prod
  skyctl push promo --enabled --audience-file rule.json --description "Spring promo"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		envCfg, effectiveEnv, err := cli.Resolve(env, baseURL, apiKey)
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		if pushAudience != "" && pushAudienceFile != "" {
			return fmt.Errorf("--audience and --audience-file are mutually exclusive")
		}

		var audienceDoc json.RawMessage
		if pushAudienceFile != "" {
			data, err := os.ReadFile(pushAudienceFile)
			if err != nil {
				return fmt.Errorf("failed to read audience file: %w", err)
			}
			audienceDoc = data
		} else if pushAudience != "" {
			audienceDoc = json.RawMessage(pushAudience)
		}

		// validate locally so a typo fails before the request is sent
		if len(audienceDoc) > 0 {
			if _, err := audience.Parse(audienceDoc); err != nil {
				return fmt.Errorf("invalid audience document: %w", err)
			}
		}

		c := client.NewClient(envCfg.BaseURL, envCfg.APIKey)

		params := store.UpsertParams{
			Key:         key,
			Description: pushDescription,
			Enabled:     pushEnabled,
			Audience:    audienceDoc,
			Env:         effectiveEnv,
		}

		ctx := context.Background()
		if err := c.UpsertMessage(ctx, params); err != nil {
			return fmt.Errorf("failed to push message: %w", err)
		}

		if !quiet {
			fmt.Printf("Successfully pushed message '%s' to environment '%s'\n", key, effectiveEnv)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().BoolVar(&pushEnabled, "enabled", false, "Enable the message")
	pushCmd.Flags().StringVar(&pushDescription, "description", "", "Message description")
	pushCmd.Flags().StringVar(&pushAudience, "audience", "", "Audience document as JSON")
	pushCmd.Flags().StringVar(&pushAudienceFile, "audience-file", "", "Path to a JSON audience document")
}
