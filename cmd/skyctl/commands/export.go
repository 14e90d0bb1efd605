package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shobhitraaj/skytarget/internal/cli"
	"github.com/shobhitraaj/skytarget/internal/client"
	"github.com/shobhitraaj/skytarget/internal/store"
)

var (
	exportOutput string
)

// ExportFormat represents the structure for exporting messages
type ExportFormat struct {
	Messages []store.Message `yaml:"messages" json:"messages"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export messages to a file",
	Long: `Export all messages from the specified environment to a YAML or JSON file.

Examples:
  skyctl export --env prod --output messages.yaml
  skyctl export --env prod --output messages.json --format json
  skyctl export --env prod > backup.yaml`,
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

		exportData := ExportFormat{Messages: messages}

		var output *os.File
		if exportOutput == "" || exportOutput == "-" {
			output = os.Stdout
		} else {
			output, err = os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer output.Close()
		}

		switch format {
		case "json":
			encoder := json.NewEncoder(output)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(exportData); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
		case "yaml", "table":
			// Default to YAML for export
			encoder := yaml.NewEncoder(output)
			defer encoder.Close()
			encoder.SetIndent(2)
			if err := encoder.Encode(exportData); err != nil {
				return fmt.Errorf("failed to encode YAML: %w", err)
			}
		default:
			return fmt.Errorf("unsupported export format: %s", format)
		}

		if exportOutput != "" && exportOutput != "-" && !quiet {
			fmt.Fprintf(os.Stderr, "Successfully exported %d message(s) to %s\n", len(messages), exportOutput)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}
