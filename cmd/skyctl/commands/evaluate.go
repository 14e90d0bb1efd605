package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/tagselector"
)

var (
	evaluateContextFile string
)

// deviceContext mirrors the evaluate endpoint's context payload so the same
// JSON file works against both the CLI and the server.
type deviceContext struct {
	IsNewUser          bool     `json:"is_new_user"`
	NotificationsOptIn bool     `json:"notifications_opt_in"`
	LocationOptIn      bool     `json:"location_opt_in"`
	Locale             string   `json:"locale,omitempty"`
	AppVersionCode     int      `json:"app_version_code"`
	ChannelTags        []string `json:"channel_tags,omitempty"`
	DeviceHash         string   `json:"device_hash,omitempty"`
	Platform           string   `json:"platform,omitempty"`
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <rule-file>",
	Short: "Evaluate a device context against an audience document",
	Long: `Parse an audience rule document and evaluate a device context against it
locally, without contacting a server.

Examples:
  skyctl evaluate rule.json --context device.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ruleData, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read rule file: %w", err)
		}

		rule, err := audience.Parse(ruleData)
		if err != nil {
			return fmt.Errorf("invalid audience document: %w", err)
		}

		var dev deviceContext
		if evaluateContextFile != "" {
			ctxData, err := os.ReadFile(evaluateContextFile)
			if err != nil {
				return fmt.Errorf("failed to read context file: %w", err)
			}
			if err := json.Unmarshal(ctxData, &dev); err != nil {
				return fmt.Errorf("invalid context JSON: %w", err)
			}
		}

		platform := audience.Platform(dev.Platform)
		if platform == "" {
			platform = audience.PlatformAndroid
		}
		if !platform.Valid() {
			return fmt.Errorf("platform must be android or amazon, got %q", dev.Platform)
		}

		ctx := audience.Context{
			IsNewUser:          dev.IsNewUser,
			NotificationsOptIn: dev.NotificationsOptIn,
			LocationOptIn:      dev.LocationOptIn,
			Locale:             dev.Locale,
			AppVersionCode:     dev.AppVersionCode,
			ChannelTags:        tagselector.NewTagSet(dev.ChannelTags...),
			DeviceHash:         dev.DeviceHash,
			Platform:           platform,
		}

		if rule.Matches(ctx) {
			fmt.Println("matched")
			return nil
		}
		fmt.Println("not matched")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateContextFile, "context", "", "Path to a JSON device context (defaults to an empty context)")
}
