package patterns

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const randomDelayPrefix = "random:"

// Delay is the wait that follows a step: either a fixed number of
// milliseconds or "random:N", a uniform draw in [0,N) milliseconds.
type Delay struct {
	Millis int
	Random bool
}

// Fixed returns a fixed delay of ms milliseconds.
func Fixed(ms int) Delay {
	return Delay{Millis: ms}
}

// RandomUpTo returns a delay drawn uniformly from [0,ms) milliseconds.
func RandomUpTo(ms int) Delay {
	return Delay{Millis: ms, Random: true}
}

// ParseDelay parses "120", "120ms" or "random:300".
func ParseDelay(value string) (Delay, error) {
	raw := strings.TrimSpace(value)
	lower := strings.ToLower(raw)

	if strings.HasPrefix(lower, randomDelayPrefix) {
		bound := strings.TrimSpace(raw[len(randomDelayPrefix):])
		n, err := strconv.Atoi(bound)
		if err != nil {
			return Delay{}, fmt.Errorf("invalid random delay bound %q", bound)
		}
		if n < 0 {
			return Delay{}, fmt.Errorf("random delay bound must be >= 0, got %d", n)
		}
		return RandomUpTo(n), nil
	}

	lower = strings.TrimSuffix(lower, "ms")
	ms, err := strconv.ParseFloat(strings.TrimSpace(lower), 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return Delay{}, fmt.Errorf("invalid delay %q", value)
	}
	if ms < 0 {
		return Delay{}, fmt.Errorf("delay must be >= 0, got %s", raw)
	}
	return Fixed(int(math.Round(ms))), nil
}

// Resolve returns the effective wait. intN must return a value in [0,n).
func (d Delay) Resolve(intN func(n int) int) time.Duration {
	ms := d.Millis
	if d.Random {
		if d.Millis <= 0 || intN == nil {
			return 0
		}
		ms = intN(d.Millis)
	}
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Max returns the longest wait the delay can resolve to.
func (d Delay) Max() time.Duration {
	if d.Millis <= 0 {
		return 0
	}
	return time.Duration(d.Millis) * time.Millisecond
}

func (d Delay) String() string {
	if d.Random {
		return randomDelayPrefix + strconv.Itoa(d.Millis)
	}
	return strconv.Itoa(d.Millis)
}

// UnmarshalYAML accepts an integer, a numeric string or "random:N".
func (d *Delay) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: delay must be a number or \"random:N\"", node.Line)
	}
	parsed, err := ParseDelay(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = parsed
	return nil
}

// MarshalYAML writes fixed delays as integers and random delays as strings.
func (d Delay) MarshalYAML() (any, error) {
	if d.Random {
		return d.String(), nil
	}
	return d.Millis, nil
}

// MarshalJSON mirrors MarshalYAML.
func (d Delay) MarshalJSON() ([]byte, error) {
	if d.Random {
		return json.Marshal(d.String())
	}
	return json.Marshal(d.Millis)
}

// UnmarshalJSON accepts a number or a string.
func (d *Delay) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		var number float64
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("delay must be a number or \"random:N\"")
		}
		text = strconv.FormatFloat(number, 'f', -1, 64)
	}
	parsed, err := ParseDelay(text)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
