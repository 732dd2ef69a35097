package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clillm/internal/core"
)

func TestTracker_Complete(t *testing.T) {
	var seen []State
	tracker := NewTracker(&Stub{}, func(c Call) { seen = append(seen, c.State) })

	resp, err := tracker.Complete(context.Background(), core.Chat, "hello")
	require.NoError(t, err)
	assert.Contains(t, resp, "hello")

	calls := tracker.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ModeComplete, calls[0].Mode)
	assert.Equal(t, core.Chat, calls[0].Variant)
	assert.Equal(t, StateCompleted, calls[0].State)
	assert.NoError(t, calls[0].Err)
	assert.Equal(t, []State{StateInFlight, StateCompleted}, seen)
}

func TestTracker_Stream(t *testing.T) {
	stub := &Stub{}
	tracker := NewTracker(stub, nil)

	var got string
	err := tracker.Stream(context.Background(), core.Coder, "a b c d", func(c string) { got += c })
	require.NoError(t, err)
	assert.Equal(t, stub.StreamText("a b c d"), got)

	calls := tracker.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, ModeStream, calls[0].Mode)
	assert.Equal(t, StateCompleted, calls[0].State)
	assert.Equal(t, len(splitWords(got, 3)), calls[0].Chunks)
}

func TestTracker_Failure(t *testing.T) {
	var seen []State
	boom := errors.New("boom")
	tracker := NewTracker(&Stub{Err: boom, FailAfter: 1}, func(c Call) { seen = append(seen, c.State) })

	err := tracker.Stream(context.Background(), core.Chat, "hello", func(string) {})
	require.Error(t, err)

	calls := tracker.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, StateFailed, calls[0].State)
	assert.Equal(t, 1, calls[0].Chunks)
	assert.ErrorIs(t, calls[0].Err, boom)
	assert.Equal(t, []State{StateInFlight, StateFailed}, seen)
}

func TestTracker_CallsIsACopy(t *testing.T) {
	tracker := NewTracker(&Stub{}, nil)
	_, _ = tracker.Complete(context.Background(), core.Chat, "x")

	calls := tracker.Calls()
	calls[0].State = StateIdle
	assert.Equal(t, StateCompleted, tracker.Calls()[0].State)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "in_flight", StateInFlight.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
