package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shobhitraaj/skytarget/internal/audience"
	"github.com/shobhitraaj/skytarget/internal/document"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate an audience document",
	Long: `Parse an audience rule document and report the first error, if any.
Validation runs entirely locally; no server is contacted.

Examples:
  skyctl validate rule.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if _, err := audience.Parse(data); err != nil {
			var perr *document.ParseError
			if errors.As(err, &perr) {
				if perr.Path != "" {
					return fmt.Errorf("invalid audience document at %s: %s (%s)", perr.Path, perr.Message, perr.Kind)
				}
				return fmt.Errorf("invalid audience document: %s (%s)", perr.Message, perr.Kind)
			}
			return fmt.Errorf("invalid audience document: %w", err)
		}

		if !quiet {
			fmt.Printf("%s is a valid audience document\n", args[0])
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
