package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opencode-ai/haptic/internal/config"
	"github.com/opencode-ai/haptic/internal/patterns"
)

func withConfigDir(t *testing.T, dir string, force bool) {
	t.Helper()
	originalFunc := configDirFunc
	originalForce := initForce
	configDirFunc = func() string { return dir }
	initForce = force
	t.Cleanup(func() {
		configDirFunc = originalFunc
		initForce = originalForce
	})
}

func TestCreateConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	withConfigDir(t, tempDir, true)

	result := createConfigFile()
	if result.status != "done" {
		t.Errorf("expected status 'done', got %q: %s", result.status, result.message)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, "config.yaml"))
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	if !strings.Contains(string(content), "Haptic Configuration File") {
		t.Error("config file doesn't contain expected header")
	}
}

func TestCreateConfigFile_ExistingNoForce(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("existing"), 0644); err != nil {
		t.Fatalf("failed to create existing config: %v", err)
	}
	withConfigDir(t, tempDir, false)

	result := createConfigFile()
	if result.status != "skipped" {
		t.Errorf("expected status 'skipped', got %q: %s", result.status, result.message)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing" {
		t.Error("existing config was modified")
	}
}

func TestCreatePatternsDir(t *testing.T) {
	tempDir := t.TempDir()
	withConfigDir(t, tempDir, false)

	result := createPatternsDir()
	if result.status != "done" {
		t.Fatalf("expected status 'done', got %q: %s", result.status, result.message)
	}

	categories, err := patterns.LoadDir(filepath.Join(tempDir, "patterns"))
	if err != nil {
		t.Fatalf("example patterns do not load: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "custom" {
		t.Errorf("unexpected example categories: %+v", categories)
	}

	if again := createPatternsDir(); again.status != "skipped" {
		t.Errorf("second run should skip, got %q", again.status)
	}
}

func TestConfigTemplateLoads(t *testing.T) {
	tempDir := t.TempDir()
	withConfigDir(t, tempDir, true)
	if result := createConfigFile(); result.status != "done" {
		t.Fatalf("createConfigFile() = %+v", result)
	}

	for _, section := range []string{"logging:", "player:", "host:", "catalog:", "tui:"} {
		if !strings.Contains(configTemplate, section) {
			t.Errorf("config template missing section: %s", section)
		}
	}

	cfg, err := config.Load(filepath.Join(tempDir, "config.yaml"))
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg.Host.Name != "bell" || cfg.Player.Speed != 1 {
		t.Errorf("template defaults drifted: %+v", cfg)
	}
}

func TestInitResult_Structure(t *testing.T) {
	results := []initResult{
		{name: "Step 1", status: "done", message: "OK"},
		{name: "Step 2", status: "skipped", message: "Already exists"},
		{name: "Step 3", status: "failed", message: "Something went wrong"},
	}

	validStatuses := map[string]bool{"done": true, "skipped": true, "failed": true}
	for i, r := range results {
		if r.name == "" {
			t.Errorf("result %d has empty name", i)
		}
		if !validStatuses[r.status] {
			t.Errorf("result %d has invalid status: %s", i, r.status)
		}
		data, err := r.MarshalJSON()
		if err != nil || !strings.Contains(string(data), `"status":"`+r.status+`"`) {
			t.Errorf("result %d marshals to %s (%v)", i, data, err)
		}
	}
}
