package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	baseURL string
	apiKey  string
	env     string
	format  string
	quiet   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "skyctl",
	Short: "CLI tool for managing targeted messages",
	Long: `Skyctl is a command-line tool for managing targeted messages in the skytarget service.

It provides commands for creating, reading, updating, and deleting messages,
validating audience rule documents, and evaluating device contexts locally.

Examples:
  skyctl list --env prod
  skyctl push welcome --audience-file rule.json --enabled --env prod
  skyctl get welcome --env prod
  skyctl validate rule.json
  skyctl evaluate rule.json --context device.json
  skyctl export --env prod --output messages.yaml`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the skytarget API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "Environment (dev, staging, prod)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
}
