// Package relay exchanges a prompt for a model response, either whole or as
// a stream of chunks.
package relay

import (
	"context"
	"time"

	"clillm/internal/core"
)

// Relay is the capability the entry point depends on.
// Both methods block for the duration of the call.
type Relay interface {
	// Complete returns the full response once the call finishes.
	Complete(ctx context.Context, variant core.ModelVariant, prompt string) (string, error)
	// Stream invokes onChunk with successive, non-overlapping pieces of the
	// response in generation order, on the calling goroutine, before returning.
	Stream(ctx context.Context, variant core.ModelVariant, prompt string, onChunk core.ChunkFunc) error
}

// State is the lifecycle of one relay call.
type State int

const (
	StateIdle State = iota
	StateInFlight
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in_flight"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Mode names how a call delivers its response.
type Mode string

const (
	ModeComplete Mode = "complete"
	ModeStream   Mode = "stream"
)

// Call records one relay call.
type Call struct {
	Mode     Mode
	Variant  core.ModelVariant
	State    State
	Chunks   int
	Duration time.Duration
	Err      error
}

// Tracker wraps a Relay and records every call and its state transitions.
// It is not safe for concurrent use.
type Tracker struct {
	next    Relay
	observe func(Call)
	calls   []Call
}

// NewTracker wraps next. observe, if non-nil, is called on every state transition.
func NewTracker(next Relay, observe func(Call)) *Tracker {
	return &Tracker{next: next, observe: observe}
}

// Calls returns the recorded calls in order.
func (t *Tracker) Calls() []Call {
	out := make([]Call, len(t.calls))
	copy(out, t.calls)
	return out
}

func (t *Tracker) Complete(ctx context.Context, variant core.ModelVariant, prompt string) (string, error) {
	i, start := t.begin(ModeComplete, variant)
	resp, err := t.next.Complete(ctx, variant, prompt)
	t.finish(i, start, err)
	return resp, err
}

func (t *Tracker) Stream(ctx context.Context, variant core.ModelVariant, prompt string, onChunk core.ChunkFunc) error {
	i, start := t.begin(ModeStream, variant)
	err := t.next.Stream(ctx, variant, prompt, func(chunk string) {
		t.calls[i].Chunks++
		onChunk(chunk)
	})
	t.finish(i, start, err)
	return err
}

func (t *Tracker) begin(mode Mode, variant core.ModelVariant) (int, time.Time) {
	t.calls = append(t.calls, Call{Mode: mode, Variant: variant, State: StateIdle})
	i := len(t.calls) - 1
	t.transition(i, StateInFlight)
	return i, time.Now()
}

func (t *Tracker) finish(i int, start time.Time, err error) {
	t.calls[i].Duration = time.Since(start)
	t.calls[i].Err = err
	if err != nil {
		t.transition(i, StateFailed)
		return
	}
	t.transition(i, StateCompleted)
}

func (t *Tracker) transition(i int, s State) {
	t.calls[i].State = s
	if t.observe != nil {
		t.observe(t.calls[i])
	}
}
