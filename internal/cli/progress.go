package cli

import (
	"fmt"
	"io"
	"os"
	"time"
)

// progressOut receives progress lines; tests swap it.
var progressOut io.Writer = os.Stderr

type progressStep struct {
	label   string
	started time.Time
}

func startProgress(label string) *progressStep {
	if !progressEnabled() {
		return nil
	}
	fmt.Fprintf(progressOut, "%s... ", label)
	return &progressStep{label: label, started: time.Now()}
}

func (p *progressStep) Done(detail string) {
	if p == nil {
		return
	}
	if detail != "" {
		fmt.Fprintf(progressOut, "%s (%s)\n", detail, formatDuration(time.Since(p.started)))
		return
	}
	fmt.Fprintf(progressOut, "done (%s)\n", formatDuration(time.Since(p.started)))
}

func (p *progressStep) Fail(err error) {
	if p == nil {
		return
	}
	if err != nil {
		fmt.Fprintf(progressOut, "failed: %v\n", err)
		return
	}
	fmt.Fprintln(progressOut, "failed")
}

func progressEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() || noProgress {
		return false
	}
	if _, ok := os.LookupEnv("HAPTIC_NO_PROGRESS"); ok {
		return false
	}
	_, ok := os.LookupEnv("NO_PROGRESS")
	return !ok
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	if d < time.Second {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
