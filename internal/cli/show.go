package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/patterns"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <category/name>",
	Short: "Show the steps of a pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		p, err := catalog.Resolve(args[0])
		if err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, p)
		}

		fmt.Fprintf(os.Stdout, "Pattern:     %s\n", p.Ref())
		if p.Description != "" {
			fmt.Fprintf(os.Stdout, "Description: %s\n", p.Description)
		}
		fmt.Fprintf(os.Stdout, "Tags:        %s\n", formatList(p.Tags))
		fmt.Fprintf(os.Stdout, "Repeat:      %d\n", p.Repeat)
		fmt.Fprintf(os.Stdout, "Host calls:  %d\n", p.HostCalls())
		fmt.Fprintf(os.Stdout, "Max length:  %s\n", formatDuration(p.MaxDuration()))
		fmt.Fprintf(os.Stdout, "Source:      %s\n\n", p.Source)

		return writeTable(os.Stdout, []string{"#", "TYPE", "CALL", "DELAY"}, stepRows(p))
	},
}

func stepRows(p *patterns.Pattern) [][]string {
	rows := make([][]string, 0, len(p.Sequence))
	for i, step := range p.Sequence {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(step.Type),
			stepCall(step),
			step.Delay.String(),
		})
	}
	return rows
}

func stepCall(step patterns.Step) string {
	switch {
	case step.Type.IsNone():
		return "-"
	case step.Notification:
		return "notification"
	default:
		return "impact"
	}
}
