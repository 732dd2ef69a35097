package prompt

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clillm/internal/core"
)

func ptr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		src  Sources
		want string
	}{
		{
			name: "positional wins over flag and stdin",
			src:  Sources{Positional: ptr("A"), Flag: ptr("B"), Stdin: "C"},
			want: "A",
		},
		{
			name: "flag wins over stdin",
			src:  Sources{Flag: ptr("B"), Stdin: "C"},
			want: "B",
		},
		{
			name: "stdin is trimmed",
			src:  Sources{Stdin: "  \n\tC\n\n"},
			want: "C",
		},
		{
			name: "empty positional is still present",
			src:  Sources{Positional: ptr(""), Flag: ptr("B"), Stdin: "C"},
			want: "",
		},
		{
			name: "empty flag is still present",
			src:  Sources{Flag: ptr(""), Stdin: "C"},
			want: "",
		},
		{
			name: "arguments are not trimmed",
			src:  Sources{Positional: ptr("  spaced  ")},
			want: "  spaced  ",
		},
		{
			name: "inner stdin whitespace is kept",
			src:  Sources{Stdin: "line one\nline two\n"},
			want: "line one\nline two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NoPrompt(t *testing.T) {
	for _, stdin := range []string{"", " ", "\n\t\n"} {
		_, err := Resolve(Sources{Stdin: stdin})
		require.Error(t, err)
		assert.True(t, core.IsKind(err, core.KindNoPromptProvided))
	}
}

func TestReadStdin(t *testing.T) {
	got, err := ReadStdin(strings.NewReader("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", got)

	got, err = ReadStdin(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ReadStdin(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ReadStdin(iotest.ErrReader(errors.New("broken pipe")))
	assert.ErrorContains(t, err, "broken pipe")
}
