package cli

import (
	"errors"
	"fmt"
	"strings"
)

// PreflightError is a user-facing error with a hint and a next step.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	return e.Message
}

func formatError(err error) string {
	var pre *PreflightError
	if !errors.As(err, &pre) {
		return fmt.Sprintf("Error: %v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s", pre.Message)
	if pre.Hint != "" {
		fmt.Fprintf(&b, "\nHint: %s", pre.Hint)
	}
	if pre.NextStep != "" {
		fmt.Fprintf(&b, "\nNext: %s", pre.NextStep)
	}
	return b.String()
}
