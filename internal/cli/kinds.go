package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/haptic"
)

func init() {
	rootCmd.AddCommand(kindsCmd)
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List feedback kinds and their effects",
	Long:  "List every feedback kind with its class and the visual effect the demo uses for it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items := kindInfos()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, items)
		}

		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, []string{
				string(item.Kind),
				item.Class,
				formatYesNo(item.InSequence),
				fmt.Sprintf("%gpx", item.Effect.Shake),
				fmt.Sprintf("%g°", item.Effect.Rotate),
				fmt.Sprintf("%.2f", item.Effect.Scale),
				fmt.Sprintf("%.2f", item.Effect.SequenceScale),
				item.Effect.Color,
				fmt.Sprintf("%.2f", item.Effect.Intensity),
			})
		}
		return writeTable(os.Stdout, []string{"KIND", "CLASS", "IN SEQUENCE", "SHAKE", "ROTATE", "SCALE", "SEQ SCALE", "COLOR", "INTENSITY"}, rows)
	},
}

type kindInfo struct {
	Kind       haptic.Kind   `json:"kind"`
	Class      string        `json:"class"`
	InSequence bool          `json:"in_sequence"`
	Effect     haptic.Effect `json:"effect"`
}

func kindInfos() []kindInfo {
	kinds := haptic.Kinds()
	items := make([]kindInfo, 0, len(kinds))
	for _, kind := range kinds {
		items = append(items, kindInfo{
			Kind:       kind,
			Class:      kindClass(kind),
			InSequence: !kind.IsSelection(),
			Effect:     haptic.EffectFor(kind),
		})
	}
	return items
}
