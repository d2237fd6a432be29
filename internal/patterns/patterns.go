// Package patterns provides the haptic pattern data model and the catalog
// that patterns are loaded from.
package patterns

import (
	"time"

	"github.com/opencode-ai/haptic/internal/haptic"
)

// Step is a single timed feedback call inside a pattern.
type Step struct {
	Type         haptic.Kind `yaml:"type" json:"type"`
	Delay        Delay       `yaml:"delay" json:"delay"`
	Notification bool        `yaml:"isNotification,omitempty" json:"isNotification,omitempty"`
}

// Pattern is an ordered, repeatable script of steps.
type Pattern struct {
	Name        string   `yaml:"name" json:"name"`
	Category    string   `yaml:"category,omitempty" json:"category"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Sequence    []Step   `yaml:"sequence" json:"sequence"`
	Repeat      int      `yaml:"repeat" json:"repeat"`
	Source      string   `yaml:"-" json:"source,omitempty"` // file path or "builtin"
}

// Ref returns the "category/name" reference for the pattern.
func (p *Pattern) Ref() string {
	if p == nil {
		return ""
	}
	return p.Category + "/" + p.Name
}

// HostCalls returns how many host calls one full playback issues.
func (p *Pattern) HostCalls() int {
	if p == nil {
		return 0
	}
	calls := 0
	for _, step := range p.Sequence {
		if !step.Type.IsNone() {
			calls++
		}
	}
	return calls * p.Repeat
}

// MaxDuration returns the longest possible playback time, taking random
// delays at their upper bound.
func (p *Pattern) MaxDuration() time.Duration {
	if p == nil {
		return 0
	}
	var total time.Duration
	for _, step := range p.Sequence {
		total += step.Delay.Max()
	}
	return total * time.Duration(p.Repeat)
}

// Category groups patterns under a shared theme.
type Category struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Patterns    []*Pattern `json:"patterns"`
	Source      string     `json:"source,omitempty"`
}

// Pattern returns the named pattern in the category, or nil.
func (c *Category) Pattern(name string) *Pattern {
	if c == nil {
		return nil
	}
	for _, p := range c.Patterns {
		if equalName(p.Name, name) {
			return p
		}
	}
	return nil
}
