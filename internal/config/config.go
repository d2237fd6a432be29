// Package config loads haptic configuration from defaults, a YAML file and
// HAPTIC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. HAPTIC_HOST_NAME.
const EnvPrefix = "HAPTIC"

// Config is the full configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Player  PlayerConfig  `mapstructure:"player"`
	Host    HostConfig    `mapstructure:"host"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	TUI     TUIConfig     `mapstructure:"tui"`

	// Source is the config file that was read, if any.
	Source string `mapstructure:"-"`
}

// LoggingConfig controls zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PlayerConfig controls playback.
type PlayerConfig struct {
	// Speed divides every step delay. 1 is real time.
	Speed float64 `mapstructure:"speed"`
	// EventBuffer is the size of the channel feeding the TUI.
	EventBuffer int `mapstructure:"event_buffer"`
	// EventsFile, when set, receives lifecycle events as JSON lines.
	EventsFile string `mapstructure:"events_file"`
}

// HostConfig selects the feedback host.
type HostConfig struct {
	Name    string  `mapstructure:"name"`
	Audible bool    `mapstructure:"audible"`
	Volume  float64 `mapstructure:"volume"`
}

// CatalogConfig controls where patterns are loaded from.
type CatalogConfig struct {
	Dirs            []string `mapstructure:"dirs"`
	Files           []string `mapstructure:"files"`
	ProjectDir      string   `mapstructure:"project_dir"`
	SkipSearchPaths bool     `mapstructure:"skip_search_paths"`
	SkipBuiltin     bool     `mapstructure:"skip_builtin"`
}

// TUIConfig controls the terminal UI.
type TUIConfig struct {
	Theme    string `mapstructure:"theme"`
	ShowHelp bool   `mapstructure:"show_help"`
	// LogFile receives logs while the UI owns the terminal. Empty drops them.
	LogFile  string `mapstructure:"log_file"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "auto",
		},
		Player: PlayerConfig{
			Speed:       1,
			EventBuffer: 64,
		},
		Host: HostConfig{
			Name:   "bell",
			Volume: 0.8,
		},
		TUI: TUIConfig{
			Theme:    "default",
			ShowHelp: true,
		},
	}
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/haptic or ~/.config/haptic.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "haptic")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "haptic")
	}
	return filepath.Join(home, ".config", "haptic")
}

// DefaultConfigPath returns the config.yaml path under DefaultConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads configuration. An explicit path must exist; without one the
// default location is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(ExpandPath(path))
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	for i, dir := range cfg.Catalog.Dirs {
		cfg.Catalog.Dirs[i] = ExpandPath(dir)
	}
	for i, file := range cfg.Catalog.Files {
		cfg.Catalog.Files[i] = ExpandPath(file)
	}
	cfg.Catalog.ProjectDir = ExpandPath(cfg.Catalog.ProjectDir)
	cfg.Player.EventsFile = ExpandPath(cfg.Player.EventsFile)
	cfg.TUI.LogFile = ExpandPath(cfg.TUI.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("player.speed", cfg.Player.Speed)
	v.SetDefault("player.event_buffer", cfg.Player.EventBuffer)
	v.SetDefault("player.events_file", cfg.Player.EventsFile)
	v.SetDefault("host.name", cfg.Host.Name)
	v.SetDefault("host.audible", cfg.Host.Audible)
	v.SetDefault("host.volume", cfg.Host.Volume)
	v.SetDefault("catalog.dirs", cfg.Catalog.Dirs)
	v.SetDefault("catalog.files", cfg.Catalog.Files)
	v.SetDefault("catalog.project_dir", cfg.Catalog.ProjectDir)
	v.SetDefault("catalog.skip_search_paths", cfg.Catalog.SkipSearchPaths)
	v.SetDefault("catalog.skip_builtin", cfg.Catalog.SkipBuiltin)
	v.SetDefault("tui.theme", cfg.TUI.Theme)
	v.SetDefault("tui.show_help", cfg.TUI.ShowHelp)
	v.SetDefault("tui.log_file", cfg.TUI.LogFile)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Player.Speed <= 0 {
		errs = append(errs, fmt.Errorf("player.speed must be > 0, got %v", c.Player.Speed))
	}
	if c.Player.EventBuffer < 1 {
		errs = append(errs, fmt.Errorf("player.event_buffer must be >= 1, got %d", c.Player.EventBuffer))
	}
	if strings.TrimSpace(c.Host.Name) == "" {
		errs = append(errs, errors.New("host.name is required"))
	}
	if c.Host.Volume < 0 || c.Host.Volume > 1 {
		errs = append(errs, fmt.Errorf("host.volume must be within 0..1, got %v", c.Host.Volume))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "auto", "console", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of auto, console, json", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
