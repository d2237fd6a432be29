package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opencode-ai/haptic/internal/config"
	"github.com/opencode-ai/haptic/internal/haptic"
	"github.com/opencode-ai/haptic/internal/host"
	"github.com/opencode-ai/haptic/internal/logging"
	"github.com/opencode-ai/haptic/internal/patterns"
	"github.com/opencode-ai/haptic/internal/player"
)

func builtinCatalog(t *testing.T) *patterns.Catalog {
	t.Helper()
	catalog, err := patterns.LoadBuiltin()
	if err != nil {
		t.Fatalf("LoadBuiltin() error = %v", err)
	}
	return catalog
}

func useConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	original := appConfig
	appConfig = cfg
	t.Cleanup(func() { appConfig = original })
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Host.Name = "recorder"
	cfg.Catalog.SkipSearchPaths = true
	cfg.Player.Speed = 1000
	return cfg
}

func TestFilterPatterns(t *testing.T) {
	catalog := builtinCatalog(t)

	tests := []struct {
		name     string
		category string
		tags     []string
		check    func([]*patterns.Pattern) bool
	}{
		{"no filter", "", nil, func(items []*patterns.Pattern) bool { return len(items) == catalog.Len() }},
		{"category", "notification", nil, func(items []*patterns.Pattern) bool {
			for _, p := range items {
				if p.Category != "notification" {
					return false
				}
			}
			return len(items) == len(catalog.Patterns("notification"))
		}},
		{"category case insensitive", "NOTIFICATION", nil, func(items []*patterns.Pattern) bool { return len(items) > 0 }},
		{"unknown tag", "", []string{"nonexistent"}, func(items []*patterns.Pattern) bool { return len(items) == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filterPatterns(catalog, tt.category, tt.tags)
			if !tt.check(result) {
				t.Errorf("filterPatterns(%q, %v) returned %d items", tt.category, tt.tags, len(result))
			}
		})
	}
}

func TestWithRepeat(t *testing.T) {
	p := &patterns.Pattern{Name: "x", Repeat: 2}

	if got := withRepeat(p, -1); got != p {
		t.Errorf("negative repeat should keep the pattern")
	}
	got := withRepeat(p, 5)
	if got == p || got.Repeat != 5 || p.Repeat != 2 {
		t.Errorf("withRepeat() must copy: got %d, original %d", got.Repeat, p.Repeat)
	}
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds([]string{"Heavy", " selection ", "success"})
	if err != nil {
		t.Fatalf("parseKinds() error = %v", err)
	}
	want := []haptic.Kind{haptic.KindHeavy, haptic.KindSelection, haptic.KindSuccess}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}

	if _, err := parseKinds([]string{"buzz"}); !errors.Is(err, haptic.ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
}

func TestKindInfos(t *testing.T) {
	items := kindInfos()
	if len(items) != len(haptic.Kinds()) {
		t.Fatalf("kindInfos() = %d items", len(items))
	}
	classes := map[haptic.Kind]string{}
	for _, item := range items {
		classes[item.Kind] = item.Class
		if item.InSequence == (item.Kind == haptic.KindSelection) {
			t.Errorf("%s in sequence = %v", item.Kind, item.InSequence)
		}
	}
	for kind, want := range map[haptic.Kind]string{
		haptic.KindLight:     "impact",
		haptic.KindWarning:   "notification",
		haptic.KindSelection: "selection",
		haptic.KindNone:      "none",
	} {
		if classes[kind] != want {
			t.Errorf("class of %s = %q, want %q", kind, classes[kind], want)
		}
	}
}

func TestStepRows(t *testing.T) {
	p := &patterns.Pattern{Sequence: []patterns.Step{
		{Type: haptic.KindNone, Delay: patterns.Fixed(50)},
		{Type: haptic.KindError, Delay: patterns.RandomUpTo(80), Notification: true},
		{Type: haptic.KindSoft, Delay: patterns.Fixed(0)},
	}}
	rows := stepRows(p)
	want := [][]string{
		{"1", "none", "-", "50"},
		{"2", "error", "notification", "random:80"},
		{"3", "soft", "impact", "0"},
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestFormatPlayResult(t *testing.T) {
	tests := []struct {
		result PlayResult
		want   string
	}{
		{PlayResult{Pattern: "a/b", Outcome: player.OutcomeFinished, Calls: 3, Elapsed: 120 * time.Millisecond}, "Played a/b: 3 call(s) in 120ms"},
		{PlayResult{Pattern: "a/b", Outcome: player.OutcomeCancelled, Calls: 1}, "Cancelled a/b after 1 call(s)"},
		{PlayResult{Pattern: "a/b", Outcome: player.OutcomeFailed, Error: "boom"}, "Failed a/b after 0 call(s): boom"},
	}
	for _, tt := range tests {
		if got := formatPlayResult(tt.result); !strings.HasPrefix(got, tt.want) {
			t.Errorf("formatPlayResult() = %q, want prefix %q", got, tt.want)
		}
	}
}

func TestWriteOutputJSONL(t *testing.T) {
	original := jsonlOutput
	jsonlOutput = true
	defer func() { jsonlOutput = original }()

	var buf bytes.Buffer
	if err := WriteOutput(&buf, []ValidateResult{{File: "a"}, {File: "b"}}); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], `"file":"b"`) {
		t.Errorf("unexpected JSONL output: %q", buf.String())
	}
}

func TestFormatError(t *testing.T) {
	err := &PreflightError{Message: "no tty", Hint: "use a terminal", NextStep: "haptic --help"}
	got := formatError(err)
	for _, want := range []string{"Error: no tty", "Hint: use a terminal", "Next: haptic --help"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatError() missing %q in %q", want, got)
		}
	}
	if exitCode(err) != 2 || exitCode(errors.New("x")) != 1 || exitCode(nil) != 0 {
		t.Errorf("unexpected exit codes")
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte(examplePatterns), 0644); err != nil {
		t.Fatal(err)
	}
	badContent := "category: x\npatterns:\n  - name: oops\n    sequence:\n      - {type: success, delay: 10}\n"
	if err := os.WriteFile(bad, []byte(badContent), 0644); err != nil {
		t.Fatal(err)
	}

	if r := validateFile(good); !r.Valid || r.Patterns != 2 || r.Categories != 1 {
		t.Errorf("validateFile(good) = %+v", r)
	}
	if r := validateFile(bad); r.Valid || r.Error == "" {
		t.Errorf("validateFile(bad) = %+v", r)
	}
	if r := validateFile(filepath.Join(dir, "missing.yaml")); r.Valid {
		t.Errorf("missing file reported valid")
	}
}

func TestRunPlayWithRecorder(t *testing.T) {
	useConfig(t, testConfig())

	if err := runPlay(context.Background(), "notification/successChain"); err != nil {
		t.Fatalf("runPlay() error = %v", err)
	}
	if err := runPlay(context.Background(), "notification/doesNotExist"); !errors.Is(err, patterns.ErrPatternNotFound) {
		t.Errorf("expected ErrPatternNotFound, got %v", err)
	}
}

type drainingHost struct {
	*host.Recorder
	drained chan struct{}
}

func (h drainingHost) Drain(ctx context.Context) error {
	close(h.drained)
	return nil
}

func TestRunPlayDrainsHostOutput(t *testing.T) {
	drained := make(chan struct{})
	err := host.Register("draining-test", func(host.Options) (haptic.Host, error) {
		return drainingHost{Recorder: host.NewRecorder(), drained: drained}, nil
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	cfg := testConfig()
	cfg.Host.Name = "draining-test"
	useConfig(t, cfg)

	if err := runPlay(context.Background(), "notification/successChain"); err != nil {
		t.Fatalf("runPlay() error = %v", err)
	}
	select {
	case <-drained:
	default:
		t.Fatalf("runPlay returned without draining the host")
	}
}

func TestRunPlayUnsupportedHostFails(t *testing.T) {
	cfg := testConfig()
	cfg.Host.Name = "unsupported"
	useConfig(t, cfg)

	err := runPlay(context.Background(), "notification/successChain")
	if !errors.Is(err, haptic.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpenHostUnknown(t *testing.T) {
	cfg := testConfig()
	cfg.Host.Name = "vibrator"

	_, err := openHost(cfg, os.Stderr)
	var pre *PreflightError
	if !errors.As(err, &pre) {
		t.Fatalf("expected PreflightError, got %v", err)
	}
	if !strings.Contains(pre.Hint, "audio") {
		t.Errorf("hint should list the audio host: %q", pre.Hint)
	}
}

func TestNewPlayerWritesEventsFile(t *testing.T) {
	cfg := testConfig()
	cfg.Player.EventsFile = filepath.Join(t.TempDir(), "events.jsonl")

	h, err := openHost(cfg, os.Stderr)
	if err != nil {
		t.Fatal(err)
	}
	pl, err := newPlayer(cfg, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := pl.Trigger(context.Background(), haptic.KindLight); err != nil {
		t.Fatal(err)
	}
	if err := pl.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(cfg.Player.EventsFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"type":"triggered"`) {
		t.Errorf("events file = %q", data)
	}
}

func TestHostNotice(t *testing.T) {
	ctx := context.Background()
	if got := hostNotice(ctx, host.NewRecorder()); got != "" {
		t.Errorf("recorder notice = %q, want none", got)
	}
	got := hostNotice(ctx, host.Unsupported{})
	if !strings.Contains(got, "not supported") || !strings.Contains(got, "--host bell") {
		t.Errorf("unsupported notice = %q", got)
	}
}

func TestRedirectLogsToFile(t *testing.T) {
	t.Cleanup(func() { _ = logging.Init(logging.Config{}) })

	cfg := testConfig()
	cfg.TUI.LogFile = filepath.Join(t.TempDir(), "logs", "ui.log")

	closeLogs, err := redirectLogs(cfg)
	if err != nil {
		t.Fatalf("redirectLogs() error = %v", err)
	}
	logger := logging.Component("player")
	logger.Warn().Msg("trigger failed")
	closeLogs()

	data, err := os.ReadFile(cfg.TUI.LogFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "trigger failed") {
		t.Errorf("log file = %q", data)
	}
}

func TestRedirectLogsDiscardsByDefault(t *testing.T) {
	t.Cleanup(func() { _ = logging.Init(logging.Config{}) })

	closeLogs, err := redirectLogs(testConfig())
	if err != nil {
		t.Fatalf("redirectLogs() error = %v", err)
	}
	closeLogs()
}
