package relay

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"clillm/internal/core"
)

// maxEventSize bounds a single SSE line.
const maxEventSize = 1 << 20

var (
	dataPrefix = []byte("data:")
	doneMarker = []byte("[DONE]")
)

// streamStats summarizes a decoded stream.
type streamStats struct {
	delivered      int
	reasoningBytes int
	finishReason   string
	usage          core.Usage
}

// decodeStream reads OpenAI-style chat completion SSE events from r and
// hands every non-empty content delta to onChunk.
//
// The stream ends cleanly at "data: [DONE]", or at EOF once a finish_reason
// was seen. Any other end, an in-band error object or an unreadable event
// fails with a stream error that records how many chunks were delivered.
func decodeStream(r io.Reader, onChunk core.ChunkFunc) (streamStats, error) {
	var stats streamStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	for scanner.Scan() {
		line := bytes.TrimRight(scanner.Bytes(), "\r")
		if !bytes.HasPrefix(line, dataPrefix) {
			// event:, id:, retry:, comments and blank separators
			continue
		}
		payload := bytes.TrimSpace(line[len(dataPrefix):])
		if len(payload) == 0 {
			continue
		}
		if bytes.Equal(payload, doneMarker) {
			return stats, nil
		}

		if !gjson.ValidBytes(payload) {
			return stats, core.NewStreamError(stats.delivered, "malformed stream event", nil)
		}
		if msg := gjson.GetBytes(payload, "error.message"); msg.Exists() {
			return stats, core.NewStreamError(stats.delivered, "upstream error: "+msg.String(), nil)
		}

		// the usage event arrives last, with an empty choices array
		if usage := gjson.GetBytes(payload, "usage"); usage.IsObject() {
			stats.usage = core.Usage{
				PromptTokens:     int(usage.Get("prompt_tokens").Int()),
				CompletionTokens: int(usage.Get("completion_tokens").Int()),
				TotalTokens:      int(usage.Get("total_tokens").Int()),
			}
		}

		choice := gjson.GetBytes(payload, "choices.0")
		if content := choice.Get("delta.content").String(); content != "" {
			onChunk(content)
			stats.delivered++
		}
		stats.reasoningBytes += len(choice.Get("delta.reasoning_content").String())
		if reason := choice.Get("finish_reason").String(); reason != "" {
			stats.finishReason = reason
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return stats, core.NewStreamError(stats.delivered, fmt.Sprintf("stream event larger than %d bytes", maxEventSize), err)
		}
		return stats, core.NewStreamError(stats.delivered, "failed to read stream: "+err.Error(), err)
	}
	if stats.finishReason == "" {
		return stats, core.NewStreamError(stats.delivered, "stream ended unexpectedly", io.ErrUnexpectedEOF)
	}
	return stats, nil
}
