package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/haptic/internal/config"
	"github.com/opencode-ai/haptic/internal/host"
)

var (
	initForce bool

	configDirFunc = config.DefaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and a user pattern directory",
	Long: `Create ~/.config/haptic/config.yaml with documented defaults and the
~/.config/haptic/patterns directory with an example pattern file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{
			createConfigFile(),
			createPatternsDir(),
			checkHost(),
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, results)
		}

		rows := make([][]string, 0, len(results))
		failed := 0
		for _, r := range results {
			if r.status == "failed" {
				failed++
			}
			rows = append(rows, []string{r.name, r.status, r.message})
		}
		if err := writeTable(os.Stdout, []string{"STEP", "STATUS", "DETAILS"}, rows); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d init step(s) failed", failed)
		}
		return nil
	},
}

type initResult struct {
	name    string
	status  string
	message string
}

func (r initResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    string `json:"name"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}{r.name, r.status, r.message})
}

func createConfigFile() initResult {
	result := initResult{name: "Config file"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce {
		result.status = "skipped"
		result.message = fmt.Sprintf("%s already exists (use --force to overwrite)", path)
		return result
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}

	result.status = "done"
	result.message = path
	return result
}

func createPatternsDir() initResult {
	result := initResult{name: "Pattern directory"}
	dir := filepath.Join(configDirFunc(), "patterns")
	path := filepath.Join(dir, "example.yaml")

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		result.status = "skipped"
		result.message = fmt.Sprintf("%s already exists", path)
		return result
	}
	if err := os.WriteFile(path, []byte(examplePatterns), 0644); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}

	result.status = "done"
	result.message = path
	return result
}

func checkHost() initResult {
	result := initResult{name: "Feedback host"}
	name := currentConfig().Host.Name
	if _, err := host.Open(name, host.Options{Output: os.Stderr}); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	result.status = "done"
	result.message = fmt.Sprintf("%s (available: %s)", name, formatList(host.Names()))
	return result
}

const configTemplate = `# Haptic Configuration File
# Values here are overridden by HAPTIC_* environment variables
# (e.g. HAPTIC_HOST_NAME=log) and command line flags.

logging:
  level: warn      # trace, debug, info, warn, error
  format: auto     # auto, console, json

player:
  speed: 1.0       # delays are divided by this
  event_buffer: 64
  # events_file: ~/.local/state/haptic/events.jsonl

host:
  name: bell       # bell, log, audio, recorder, unsupported
  audible: false   # bell host rings the terminal bell
  volume: 0.8      # audio host, 0..1

catalog:
  # Searched before <project>/.haptic/patterns, ~/.config/haptic/patterns
  # and /usr/share/haptic/patterns. The first definition of a pattern wins.
  dirs: []
  files: []
  skip_search_paths: false
  skip_builtin: false

tui:
  theme: default   # default, high-contrast
  show_help: true
  # Logs written while the UI is open. Empty discards them.
  log_file: ""
`

const examplePatterns = `category: custom
description: Your own patterns. Edit or copy this file.
patterns:
  - name: doubleTap
    description: Two quick taps.
    tags: [example]
    repeat: 1
    sequence:
      - {type: medium, delay: 90}
      - {type: medium, delay: 0}
  - name: jitter
    description: Light taps at random intervals.
    tags: [example, random]
    repeat: 4
    sequence:
      - {type: light, delay: "random:120"}
`
