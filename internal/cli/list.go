package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/patterns"
)

var (
	listCategory string
	listTags     []string
	listWide     bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listCategory, "category", "", "only show patterns in this category")
	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "only show patterns with any of these tags")
	listCmd.Flags().BoolVar(&listWide, "wide", false, "show source and full descriptions")
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog patterns",
	Long:    "List the patterns in the catalog, grouped by category in load order.",
	Example: `  haptic list
  haptic list --category notification
  haptic list --tag outcome --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		if listCategory != "" && catalog.Category(listCategory) == nil {
			return fmt.Errorf("unknown category %q", listCategory)
		}

		items := filterPatterns(catalog, listCategory, listTags)
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, items)
		}

		if len(items) == 0 {
			fmt.Fprintln(os.Stdout, "No patterns match.")
			return nil
		}
		return writeTable(os.Stdout, listHeaders(), listRows(items))
	},
}

func listHeaders() []string {
	headers := []string{"PATTERN", "STEPS", "REPEAT", "CALLS", "MAX", "TAGS", "DESCRIPTION"}
	if listWide {
		headers = append(headers, "SOURCE")
	}
	return headers
}

func listRows(items []*patterns.Pattern) [][]string {
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		description := p.Description
		if !listWide {
			description = truncate(description, 48)
		}
		row := []string{
			p.Ref(),
			strconv.Itoa(len(p.Sequence)),
			strconv.Itoa(p.Repeat),
			strconv.Itoa(p.HostCalls()),
			formatDuration(p.MaxDuration()),
			formatList(p.Tags),
			description,
		}
		if listWide {
			row = append(row, p.Source)
		}
		rows = append(rows, row)
	}
	return rows
}
