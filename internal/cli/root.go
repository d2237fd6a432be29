// Package cli implements the haptic command line.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/config"
	"github.com/opencode-ai/haptic/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	cfgFile        string
	logLevel       string
	logFormat      string
	jsonOutput     bool
	jsonlOutput    bool
	hostName       string
	nonInteractive bool
	noProgress     bool
	speed          float64

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "haptic",
	Short: "Play haptic feedback patterns",
	Long: `haptic plays haptic feedback patterns through a feedback host.

Patterns are sequences of impacts and notifications with delays between
them. Use 'haptic list' to browse the catalog, 'haptic play' to run a
pattern and 'haptic ui' for the interactive demo.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/haptic/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "log format (auto, console, json)")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	flags.StringVar(&hostName, "host", "", "feedback host (bell, log, audio, recorder, unsupported)")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never prompt; fail instead")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
	flags.Float64Var(&speed, "speed", 0, "playback speed multiplier (default from config)")
}

// SetVersion sets build metadata shown by --version.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetConfig returns the loaded configuration, or nil before setup ran.
func GetConfig() *config.Config {
	return appConfig
}

func setup(cmd *cobra.Command, args []string) error {
	if jsonOutput && jsonlOutput {
		return fmt.Errorf("--json and --jsonl are mutually exclusive")
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Fix the config file or pass --config with a valid path",
			NextStep: "haptic init --force",
		}
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}); err != nil {
		return err
	}

	appConfig = cfg
	logger := logging.Component("cli")
	logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("config", cfg.Source).
		Str("host", cfg.Host.Name).
		Msg("configuration loaded")
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if name := strings.TrimSpace(hostName); name != "" {
		cfg.Host.Name = name
	}
	if speed > 0 {
		cfg.Player.Speed = speed
	}
}

// exitCode maps an error to a process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(*PreflightError); ok {
		return 2
	}
	return 1
}

// Main runs the CLI and exits.
func Main() {
	err := Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
	}
	os.Exit(exitCode(err))
}
