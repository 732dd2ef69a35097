package relay

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clillm/internal/core"
)

func TestStub_Complete(t *testing.T) {
	stub := &Stub{}

	tests := []struct {
		variant core.ModelVariant
		want    string
	}{
		{core.Coder, "Response from coder model for prompt: hello"},
		{core.CoderReasoning, "Response from coder model for prompt: hello"},
		{core.Chat, "Response from chat model for prompt: hello"},
		{core.ChatReasoning, "Response from chat model for prompt: hello"},
		{core.Creative, "Response from creative model for prompt: hello"},
		{core.CreativeReasoning, "Response from creative model for prompt: hello"},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			got, err := stub.Complete(context.Background(), tt.variant, "hello")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStub_Stream_ChunksConcatenateToResponse(t *testing.T) {
	stub := &Stub{}

	for _, prompt := range []string{"hello", "write a  quick\tsort\nin Go please", "", "  padded  "} {
		t.Run(prompt, func(t *testing.T) {
			var chunks []string
			err := stub.Stream(context.Background(), core.Chat, prompt, func(chunk string) {
				chunks = append(chunks, chunk)
			})
			require.NoError(t, err)
			require.NotEmpty(t, chunks)
			assert.Equal(t, stub.StreamText(prompt), strings.Join(chunks, ""))
		})
	}
}

func TestStub_Stream_ThreeWordGroups(t *testing.T) {
	var chunks []string
	err := (&Stub{}).Stream(context.Background(), core.Coder, "hello there world", func(chunk string) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Streaming response for ", "prompt: hello there ", "world"}, chunks)
}

func TestStub_InjectedFailure(t *testing.T) {
	boom := errors.New("boom")

	_, err := (&Stub{Err: boom}).Complete(context.Background(), core.Chat, "hi")
	assert.True(t, core.IsKind(err, core.KindRequestFailed))
	assert.ErrorIs(t, err, boom)

	var got []string
	err = (&Stub{Err: boom}).Stream(context.Background(), core.Chat, "hi", func(c string) { got = append(got, c) })
	var coreErr *core.Error
	require.ErrorAs(t, err, &coreErr)
	assert.False(t, coreErr.Partial)
	assert.Empty(t, got)

	got = nil
	err = (&Stub{Err: boom, FailAfter: 1}).Stream(context.Background(), core.Chat, "hi", func(c string) { got = append(got, c) })
	require.ErrorAs(t, err, &coreErr)
	assert.True(t, coreErr.Partial)
	assert.Equal(t, 1, coreErr.Delivered)
	assert.Len(t, got, 1)
}

func TestStub_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Stub{Delay: time.Hour}).Complete(ctx, core.Chat, "hi")
	assert.True(t, core.IsKind(err, core.KindRequestFailed))

	err = (&Stub{ChunkDelay: time.Hour}).Stream(ctx, core.Chat, "hi", func(string) {})
	var coreErr *core.Error
	require.ErrorAs(t, err, &coreErr)
	assert.True(t, coreErr.Partial)
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want []string
	}{
		{"", 3, nil},
		{"one", 3, []string{"one"}},
		{"a b c d e f g", 3, []string{"a b c ", "d e f ", "g"}},
		{"  lead", 1, []string{"  lead"}},
		{"x  y", 1, []string{"x  ", "y"}},
		{"héllo wörld", 1, []string{"héllo ", "wörld"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := splitWords(tt.text, tt.n)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, strings.Join(got, ""))
		})
	}
}
