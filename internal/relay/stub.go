package relay

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"clillm/internal/core"
)

// Stub answers with templated text after a fixed delay, without any network.
type Stub struct {
	// Delay is waited before Complete returns
	Delay time.Duration
	// ChunkDelay is waited after every streamed chunk
	ChunkDelay time.Duration
	// ChunkWords is the number of words per streamed chunk, 3 when zero
	ChunkWords int

	// Err, when set, makes every call fail
	Err error
	// FailAfter is the number of chunks streamed before Err is raised
	FailAfter int
}

// NewStub returns a Stub with the delays of the interactive CLI.
func NewStub() *Stub {
	return &Stub{
		Delay:      time.Second,
		ChunkDelay: 200 * time.Millisecond,
		ChunkWords: 3,
	}
}

// CompleteText is the response Complete produces.
func (s *Stub) CompleteText(variant core.ModelVariant, prompt string) string {
	return fmt.Sprintf("Response from %s model for prompt: %s", variant.Family(), prompt)
}

// StreamText is the full response Stream produces.
func (s *Stub) StreamText(prompt string) string {
	return "Streaming response for prompt: " + prompt
}

func (s *Stub) Complete(ctx context.Context, variant core.ModelVariant, prompt string) (string, error) {
	if err := sleep(ctx, s.Delay); err != nil {
		return "", core.NewRequestError(0, "request canceled", err)
	}
	if s.Err != nil {
		return "", core.NewRequestError(0, s.Err.Error(), s.Err)
	}
	return s.CompleteText(variant, prompt), nil
}

func (s *Stub) Stream(ctx context.Context, variant core.ModelVariant, prompt string, onChunk core.ChunkFunc) error {
	words := s.ChunkWords
	if words <= 0 {
		words = 3
	}

	delivered := 0
	for _, chunk := range splitWords(s.StreamText(prompt), words) {
		if s.Err != nil && delivered >= s.FailAfter {
			return core.NewStreamError(delivered, s.Err.Error(), s.Err)
		}
		onChunk(chunk)
		delivered++
		if err := sleep(ctx, s.ChunkDelay); err != nil {
			return core.NewStreamError(delivered, "request canceled", err)
		}
	}
	if s.Err != nil {
		return core.NewStreamError(delivered, s.Err.Error(), s.Err)
	}
	return nil
}

// splitWords cuts text into pieces of n words each. Every piece keeps the
// whitespace that follows its words, so the pieces concatenate back to text.
func splitWords(text string, n int) []string {
	var chunks []string
	start, words := 0, 0
	inWord := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		switch {
		case !space && !inWord:
			if words == n {
				chunks = append(chunks, text[start:i])
				start, words = i, 0
			}
			inWord = true
			words++
		case space:
			inWord = false
		}
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
