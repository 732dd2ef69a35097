// Package logging builds the slog logger used for diagnostics.
// Diagnostics go to stderr so stdout carries only the model response.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Options configures New.
type Options struct {
	// Debug lowers the level from Info to Debug
	Debug bool
	// Color forces colored output on or off; nil detects a terminal
	Color *bool
}

// New returns a logger writing human-readable lines to w in the format:
//
//	HH:MM:SS.mmm LVL msg key=value key=value
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	color := isTerminal(w)
	if opts.Color != nil {
		color = *opts.Color
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly + ".000",
		NoColor:    !color,
	}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
