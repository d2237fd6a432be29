package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opencode-ai/haptic/internal/config"
	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/host"
	_ "github.com/opencode-ai/haptic/internal/host/audio" // registers the "audio" host
	"github.com/opencode-ai/haptic/internal/patterns"
	"github.com/opencode-ai/haptic/internal/player"
)

func currentConfig() *config.Config {
	if cfg := GetConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

func catalogOptions(cfg *config.Config) patterns.LoadOptions {
	projectDir := cfg.Catalog.ProjectDir
	if projectDir == "" {
		if wd, err := os.Getwd(); err == nil {
			projectDir = wd
		}
	}
	return patterns.LoadOptions{
		ProjectDir:      projectDir,
		Dirs:            cfg.Catalog.Dirs,
		Files:           cfg.Catalog.Files,
		SkipSearchPaths: cfg.Catalog.SkipSearchPaths,
		SkipBuiltin:     cfg.Catalog.SkipBuiltin,
	}
}

func loadCatalog() (*patterns.Catalog, error) {
	catalog, err := patterns.Load(catalogOptions(currentConfig()))
	if err != nil {
		return nil, fmt.Errorf("failed to load patterns: %w", err)
	}
	if catalog.Len() == 0 {
		return nil, &PreflightError{
			Message:  "no patterns found",
			Hint:     "Enable the builtin catalog or add pattern files to a catalog directory",
			NextStep: "haptic init",
		}
	}
	return catalog, nil
}

// openHost opens the configured host. Text hosts write to out.
func openHost(cfg *config.Config, out io.Writer) (haptic.Host, error) {
	h, err := host.Open(cfg.Host.Name, host.Options{
		Output:  out,
		Audible: cfg.Host.Audible,
		Volume:  cfg.Host.Volume,
	})
	if err != nil {
		return nil, &PreflightError{
			Message:  err.Error(),
			Hint:     "Pick one of: " + strings.Join(host.Names(), ", "),
			NextStep: "haptic play <pattern> --host bell",
		}
	}
	return h, nil
}

// hostOutput keeps text host output off stdout when stdout carries JSON.
func hostOutput() io.Writer {
	if IsJSONOutput() || IsJSONLOutput() {
		return os.Stderr
	}
	return os.Stdout
}

func newPlayer(cfg *config.Config, h haptic.Host, sinks ...player.EventSink) (*player.Player, error) {
	if cfg.Player.EventsFile != "" {
		fileSink, err := player.OpenJSONLSink(cfg.Player.EventsFile)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fileSink)
	}

	opts := []player.Option{player.WithSpeed(cfg.Player.Speed)}
	switch len(sinks) {
	case 0:
	case 1:
		opts = append(opts, player.WithSink(sinks[0]))
	default:
		opts = append(opts, player.WithSink(player.MultiSink(sinks)))
	}
	return player.New(h, opts...)
}

func filterPatterns(catalog *patterns.Catalog, category string, tags []string) []*patterns.Pattern {
	items := catalog.Filter(tags)
	if category == "" {
		return items
	}
	out := make([]*patterns.Pattern, 0, len(items))
	for _, p := range items {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

func kindClass(kind haptic.Kind) string {
	switch {
	case kind.IsImpact():
		return "impact"
	case kind.IsNotification():
		return "notification"
	case kind.IsSelection():
		return "selection"
	default:
		return "none"
	}
}
