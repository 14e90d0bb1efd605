package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/shobhitraaj/skytarget/internal/store"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintMessages outputs messages in the specified format
func PrintMessages(messages []store.Message, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(messages)
	case FormatYAML:
		return printYAML(messages)
	case FormatTable:
		return printTable(messages)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintMessage outputs a single message in the specified format
func PrintMessage(msg *store.Message, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(msg)
	case FormatYAML:
		return printYAML(msg)
	case FormatTable:
		return printTable([]store.Message{*msg})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	// Wrap slices of store.Message in a "messages" key for consistency with documentation
	if messages, ok := data.([]store.Message); ok {
		return encoder.Encode(map[string][]store.Message{"messages": messages})
	}
	return encoder.Encode(data)
}

func printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printTable(messages []store.Message) error {
	table := tablewriter.NewWriter(os.Stdout)

	table.Header("Key", "Enabled", "Env", "Description", "Audience", "Updated At")

	for _, msg := range messages {
		enabled := "false"
		if msg.Enabled {
			enabled = "true"
		}

		description := msg.Description
		if len(description) > 40 {
			description = description[:37] + "..."
		}

		audienceDoc := string(msg.Audience)
		if len(audienceDoc) > 40 {
			audienceDoc = audienceDoc[:37] + "..."
		}

		table.Append(
			msg.Key,
			enabled,
			msg.Env,
			description,
			audienceDoc,
			msg.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}

	return table.Render()
}
