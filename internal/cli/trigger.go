package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/haptic"
)

var triggerInterval time.Duration

func init() {
	rootCmd.AddCommand(triggerCmd)

	triggerCmd.Flags().DurationVar(&triggerInterval, "interval", 150*time.Millisecond, "pause between kinds when several are given")
}

var triggerCmd = &cobra.Command{
	Use:   "trigger <kind> [kind...]",
	Short: "Fire single feedback calls",
	Long: `Fire one host call per kind: impacts (light, medium, heavy, rigid, soft),
notification outcomes (success, warning, error) or selection.`,
	Example: `  haptic trigger heavy
  haptic trigger selection selection success --interval 80ms`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds, err := parseKinds(args)
		if err != nil {
			return err
		}

		cfg := currentConfig()
		h, err := openHost(cfg, hostOutput())
		if err != nil {
			return err
		}
		pl, err := newPlayer(cfg, h)
		if err != nil {
			return err
		}
		defer pl.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		for i, kind := range kinds {
			if i > 0 && triggerInterval > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(triggerInterval):
				}
			}
			if err := pl.Trigger(ctx, kind); err != nil {
				return fmt.Errorf("trigger %s: %w", kind, err)
			}
		}
		if err := haptic.Drain(ctx, h); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, pl.Stats())
		}
		return nil
	},
}

func parseKinds(args []string) ([]haptic.Kind, error) {
	kinds := make([]haptic.Kind, 0, len(args))
	for _, arg := range args {
		kind, err := haptic.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
