package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shobhitraaj/skytarget/internal/auth"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an API key",
	Long: `Generate a new API key and its bcrypt hash.

The plain key goes to the caller; the hash goes into the server's
ADMIN_KEY_HASHES configuration.

Example:
  skyctl keygen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := auth.GenerateAPIKey()
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}

		hash, err := auth.HashAPIKey(key)
		if err != nil {
			return fmt.Errorf("failed to hash key: %w", err)
		}

		fmt.Printf("API key:  %s\n", key)
		fmt.Printf("Key hash: %s\n", hash)
		fmt.Println("\nStore the hash in the server's ADMIN_KEY_HASHES setting. The plain key is not recoverable.")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
