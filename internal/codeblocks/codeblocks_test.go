package codeblocks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clillm/internal/core"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Block
	}{
		{
			name: "no fences",
			text: "just prose",
			want: nil,
		},
		{
			name: "single block with language",
			text: "Here:\n```go\nfmt.Println(1)\n```\nDone.",
			want: []Block{{Lang: "go", Code: "fmt.Println(1)"}},
		},
		{
			name: "two blocks keep order and indentation",
			text: "```python\ndef f():\n    return 1\n```\ntext\n```\nplain\n```",
			want: []Block{
				{Lang: "python", Code: "def f():\n    return 1"},
				{Lang: "", Code: "plain"},
			},
		},
		{
			name: "longer fence contains shorter one",
			text: "````md\n```go\nx\n```\n````",
			want: []Block{{Lang: "md", Code: "```go\nx\n```"}},
		},
		{
			name: "unterminated block runs to end",
			text: "```sh\necho hi\necho bye",
			want: []Block{{Lang: "sh", Code: "echo hi\necho bye"}},
		},
		{
			name: "crlf line endings",
			text: "```js\r\nlet a = 1;\r\n```\r\n",
			want: []Block{{Lang: "js", Code: "let a = 1;"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.py")

	n, err := WriteFile(path, "a\n```py\nprint(1)\n```\nb\n```py\nprint(2)\n```")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "print(1)\n\nprint(2)\n", string(data))
}

func TestWriteFile_NoBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	n, err := WriteFile(path, "no code here")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFile_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := WriteFile(filepath.Join(blocker, "out.go"), "```go\nx\n```")
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindOutputFailed))
}
