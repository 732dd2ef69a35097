// Package prompt resolves the effective prompt text of an invocation.
package prompt

import (
	"fmt"
	"io"
	"strings"

	"clillm/internal/core"
)

// Sources are the three places a prompt can come from.
// A nil pointer means the argument was not given at all.
type Sources struct {
	Positional *string
	Flag       *string
	// Stdin is the raw standard input content; empty means stdin was absent
	Stdin string
}

// Resolve applies the precedence positional > flag > trimmed stdin.
// Presence, not content, decides for the two arguments: an explicit empty
// argument wins over stdin.
func Resolve(src Sources) (string, error) {
	switch {
	case src.Positional != nil:
		return *src.Positional, nil
	case src.Flag != nil:
		return *src.Flag, nil
	}
	if text := strings.TrimSpace(src.Stdin); text != "" {
		return text, nil
	}
	return "", core.NewNoPromptError()
}

// ReadStdin reads r to completion. No size limit or timeout is applied.
// A nil reader is treated as an absent stdin.
func ReadStdin(r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
