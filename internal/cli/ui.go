package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/config"
	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/logging"
	"github.com/opencode-ai/haptic/internal/player"
	"github.com/opencode-ai/haptic/internal/tui"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive demo",
	Long: `Launch the terminal demo with a button for every single impact and catalog pattern.

Logs are discarded while the demo owns the terminal unless tui.log_file is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "the demo requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or use 'haptic play'",
			NextStep: "haptic --help",
		}
	}

	cfg := currentConfig()
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	// Loggers are captured when the host and player are built, so the
	// redirect has to come first.
	closeLogs, err := redirectLogs(cfg)
	if err != nil {
		return err
	}
	defer closeLogs()

	// The TUI draws every call itself; text hosts must not write over it.
	h, err := openHost(cfg, io.Discard)
	if err != nil {
		return err
	}

	events := player.NewChannelSink(cfg.Player.EventBuffer)
	pl, err := newPlayer(cfg, h, events)
	if err != nil {
		return err
	}
	defer pl.Close()

	return tui.Run(tui.Config{
		Player:   pl,
		Events:   events.Events(),
		Catalog:  catalog,
		Theme:    cfg.TUI.Theme,
		ShowHelp: cfg.TUI.ShowHelp,
		Notice:   hostNotice(context.Background(), h),
	})
}

// redirectLogs sends logs to tui.log_file, or nowhere, while the UI runs.
// The returned func closes the file.
func redirectLogs(cfg *config.Config) (func(), error) {
	var out io.Writer = io.Discard
	closeFn := func() {}

	if path := cfg.TUI.LogFile; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
		closeFn = func() { _ = file.Close() }
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "json",
		Output: out,
	}); err != nil {
		closeFn()
		return nil, err
	}
	return closeFn, nil
}

// hostNotice returns a warning for hosts that cannot produce feedback.
func hostNotice(ctx context.Context, h haptic.Host) string {
	err := haptic.Check(ctx, h)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, haptic.ErrUnsupported):
		return fmt.Sprintf("%v; buttons animate without feedback (try --host bell)", err)
	default:
		return fmt.Sprintf("host check failed: %v", err)
	}
}
