package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shobhitraaj/skytarget/internal/devices"
)

var hashDeviceCmd = &cobra.Command{
	Use:   "hash-device <channel-id>",
	Short: "Hash a channel ID for test_devices",
	Long: `Hash a raw channel identifier into the form stored in an audience
document's test_devices list. Raw channel IDs never appear in rules.

Example:
  skyctl hash-device 6f9aee53-xxxx-xxxx-xxxx-cc8f06389f4c`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(devices.HashChannelID(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashDeviceCmd)
}
