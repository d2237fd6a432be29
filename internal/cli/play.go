package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/logging"
	"github.com/opencode-ai/haptic/internal/patterns"
	"github.com/opencode-ai/haptic/internal/player"
)

var (
	playRepeat int
	playEvents bool
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntVar(&playRepeat, "repeat", -1, "override the pattern's repeat count")
	playCmd.Flags().BoolVar(&playEvents, "events", false, "stream lifecycle events to stdout as JSON lines")
}

var playCmd = &cobra.Command{
	Use:   "play <category/name>",
	Short: "Play a pattern",
	Long: `Play a pattern through the configured host and wait for it to finish.

Ctrl-C cancels the session at the next step boundary.`,
	Example: `  haptic play notification/successChain
  haptic play heartbeat --repeat 3 --host log
  haptic play gameFeedback/levelUp --events --speed 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runPlay(ctx, args[0])
	},
}

// PlayResult is the JSON payload of `haptic play`.
type PlayResult struct {
	SessionID string         `json:"session_id"`
	Pattern   string         `json:"pattern"`
	Outcome   player.Outcome `json:"outcome"`
	Calls     int            `json:"calls"`
	Elapsed   time.Duration  `json:"elapsed_ns"`
	Error     string         `json:"error,omitempty"`
}

func runPlay(ctx context.Context, ref string) error {
	cfg := currentConfig()
	logger := logging.Component("play")

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	p, err := catalog.Resolve(ref)
	if err != nil {
		return err
	}
	p = withRepeat(p, playRepeat)

	h, err := openHost(cfg, hostOutput())
	if err != nil {
		return err
	}

	var sinks []player.EventSink
	if playEvents {
		sinks = append(sinks, player.NewJSONLSink(os.Stdout))
	}
	pl, err := newPlayer(cfg, h, sinks...)
	if err != nil {
		return err
	}
	defer pl.Close()

	session, err := pl.Play(ctx, p)
	if err != nil {
		return err
	}
	logger.Info().Str("session_id", session.ID()).Str("pattern", p.Ref()).Msg("playing")

	playErr := session.Wait()
	if err := haptic.Drain(ctx, h); err != nil {
		logger.Debug().Err(err).Msg("host output cut short")
	}
	result := PlayResult{
		SessionID: session.ID(),
		Pattern:   p.Ref(),
		Outcome:   session.Outcome(),
		Calls:     session.Calls(),
		Elapsed:   session.Elapsed(),
	}
	if playErr != nil && !errors.Is(playErr, player.ErrCancelled) {
		result.Error = playErr.Error()
	}

	switch {
	case playEvents:
	case IsJSONOutput() || IsJSONLOutput():
		if err := WriteOutput(os.Stdout, result); err != nil {
			return err
		}
	default:
		fmt.Fprintln(os.Stdout, formatPlayResult(result))
	}

	if result.Error != "" {
		return playErr
	}
	return nil
}

// withRepeat returns p, or a copy with repeat replaced when repeat >= 0.
func withRepeat(p *patterns.Pattern, repeat int) *patterns.Pattern {
	if repeat < 0 || repeat == p.Repeat {
		return p
	}
	clone := *p
	clone.Repeat = repeat
	return &clone
}

func formatPlayResult(r PlayResult) string {
	switch r.Outcome {
	case player.OutcomeCancelled:
		return fmt.Sprintf("Cancelled %s after %d call(s) (%s)", r.Pattern, r.Calls, formatDuration(r.Elapsed))
	case player.OutcomeFailed:
		return fmt.Sprintf("Failed %s after %d call(s): %s", r.Pattern, r.Calls, r.Error)
	default:
		return fmt.Sprintf("Played %s: %d call(s) in %s", r.Pattern, r.Calls, formatDuration(r.Elapsed))
	}
}
