// Package codeblocks extracts fenced code blocks from a model response.
package codeblocks

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"clillm/internal/core"
)

const fence = "```"

// Block is one fenced code block.
type Block struct {
	// Lang is the info string after the opening fence, possibly empty
	Lang string
	Code string
}

// Extract returns the fenced code blocks of text in order. An unterminated
// block runs to the end of text.
func Extract(text string) []Block {
	var (
		blocks []Block
		cur    *Block
		lines  []string
		marker string
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if cur == nil {
			if strings.HasPrefix(trimmed, fence) {
				marker = openingFence(trimmed)
				cur = &Block{Lang: strings.TrimSpace(trimmed[len(marker):])}
				lines = lines[:0]
			}
			continue
		}

		if strings.HasPrefix(trimmed, marker) && strings.TrimLeft(trimmed, "`") == "" {
			cur.Code = strings.Join(lines, "\n")
			blocks = append(blocks, *cur)
			cur = nil
			continue
		}
		lines = append(lines, line)
	}
	if cur != nil {
		cur.Code = strings.Join(lines, "\n")
		blocks = append(blocks, *cur)
	}
	return blocks
}

// openingFence returns the run of backticks that opens a block.
func openingFence(line string) string {
	n := 0
	for n < len(line) && line[n] == '`' {
		n++
	}
	return line[:n]
}

// Join concatenates the code of blocks, separated by a blank line.
func Join(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Code
	}
	return strings.Join(parts, "\n\n")
}

// WriteFile extracts the code blocks of text into path, creating missing
// parent directories. It returns the number of blocks written; with no
// blocks nothing is written.
func WriteFile(path, text string) (int, error) {
	blocks := Extract(text)
	if len(blocks) == 0 {
		return 0, nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, core.NewOutputError(path, err)
		}
	}

	content := Join(blocks)
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return 0, core.NewOutputError(path, err)
	}
	return len(blocks), nil
}
