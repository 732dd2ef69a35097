// Package app runs one invocation of the client: it resolves the prompt,
// loads configuration, picks the model variant and relays the prompt.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"clillm/config"
	"clillm/internal/codeblocks"
	"clillm/internal/core"
	"clillm/internal/httpclient"
	"clillm/internal/profiles"
	"clillm/internal/prompt"
	"clillm/internal/relay"
)

// Relay names accepted by Options.Relay
const (
	RelayRemote = "remote"
	RelayStub   = "stub"
)

// DefaultModel is the model token used when none is given.
const DefaultModel = "coder"

// Options are the command line choices of one invocation.
type Options struct {
	// Positional is the positional prompt argument, nil when absent
	Positional *string
	// Prompt is the -p argument, nil when absent
	Prompt *string
	// NoStream selects the non-streaming mode
	NoStream bool
	// Model is the model token, DefaultModel when empty
	Model string
	// OutputCodes is the file that receives the fenced code of the response
	OutputCodes string
	// Relay is RelayRemote or RelayStub, RelayRemote when empty
	Relay string
}

// Deps holds the process resources of an invocation.
type Deps struct {
	// Stdin is the standard input; nil means stdin is absent
	Stdin  io.Reader
	Stdout io.Writer
	// Lookup reads environment variables, os.LookupEnv when nil
	Lookup config.LookupFunc
	Logger *slog.Logger
	// Color enables the colored response label
	Color bool

	// HTTPClient replaces the client built from the settings
	HTTPClient *http.Client
	// Stub replaces the stub relay built by relay.NewStub
	Stub *relay.Stub
}

// App is a single invocation. It is not reusable.
type App struct {
	opts    Options
	deps    Deps
	logger  *slog.Logger
	tracker *relay.Tracker
}

// New creates an App
func New(opts Options, deps Deps) *App {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Relay == "" {
		opts.Relay = RelayRemote
	}
	if deps.Lookup == nil {
		deps.Lookup = os.LookupEnv
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{opts: opts, deps: deps, logger: logger}
}

// Calls returns the relay calls made by Run.
func (a *App) Calls() []relay.Call {
	if a.tracker == nil {
		return nil
	}
	return a.tracker.Calls()
}

// Run executes the invocation. Every failure is terminal and returned as a
// *core.Error; nothing is printed to stdout before the relay call starts.
func (a *App) Run(ctx context.Context) error {
	stdin, err := prompt.ReadStdin(a.deps.Stdin)
	if err != nil {
		return err
	}
	text, err := prompt.Resolve(prompt.Sources{
		Positional: a.opts.Positional,
		Flag:       a.opts.Prompt,
		Stdin:      stdin,
	})
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.deps.Lookup)
	if err != nil {
		return err
	}
	if cfg.SettingsPath != "" {
		a.logger.Debug("loaded settings", "path", cfg.SettingsPath)
	}

	variant, err := core.ParseModelVariant(a.opts.Model)
	if err != nil {
		return err
	}

	index, err := a.loadProfiles(cfg.Settings)
	if err != nil {
		return err
	}

	next, err := a.buildRelay(cfg, index)
	if err != nil {
		return err
	}
	a.tracker = relay.NewTracker(next, func(c relay.Call) {
		a.logger.Debug("relay call", "mode", c.Mode, "state", c.State.String(), "chunks", c.Chunks)
	})

	ctx, requestID := core.WithNewRequestID(ctx)
	a.logger.Debug("relaying prompt",
		"request_id", requestID,
		"relay", a.opts.Relay,
		"model", variant.String(),
		"upstream_model", cfg.Settings.UpstreamModel(variant),
	)

	response, err := a.call(ctx, variant, text)
	if calls := a.tracker.Calls(); len(calls) > 0 {
		a.logger.Info("request finished",
			"duration", calls[len(calls)-1].Duration.Round(time.Millisecond),
			"state", calls[len(calls)-1].State.String(),
		)
	}
	if err != nil {
		return err
	}

	return a.writeCodes(response)
}

func (a *App) loadProfiles(settings *config.Settings) (*profiles.Index, error) {
	var (
		index *profiles.Index
		err   error
	)
	if settings.PromptsFile != "" {
		index, err = profiles.LoadFile(settings.PromptsFile)
	} else {
		index, err = profiles.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded system prompts",
		"source", orDefault(settings.PromptsFile, "embedded"),
		"fingerprint", index.Fingerprint(),
		"profiles", len(index.IDs()),
	)
	return index, nil
}

func (a *App) buildRelay(cfg *config.Result, index *profiles.Index) (relay.Relay, error) {
	switch a.opts.Relay {
	case RelayStub:
		if a.deps.Stub != nil {
			return a.deps.Stub, nil
		}
		return relay.NewStub(), nil
	case RelayRemote:
		client := a.deps.HTTPClient
		if client == nil {
			clientCfg := httpclient.DefaultConfig().WithOverrides(cfg.Settings.HTTP.Timeout, cfg.Settings.HTTP.ResponseHeaderTimeout)
			client = httpclient.NewHTTPClient(&clientCfg)
		}
		return relay.NewRemote(relay.RemoteOptions{
			API:        cfg.API,
			Settings:   cfg.Settings,
			Profiles:   index,
			HTTPClient: client,
			Logger:     a.logger,
		}), nil
	}
	return nil, core.NewConfigMalformedError(fmt.Sprintf("unknown relay %q", a.opts.Relay), nil)
}

// call relays the prompt in the selected mode, prints the response and
// returns its full text.
func (a *App) call(ctx context.Context, variant core.ModelVariant, text string) (string, error) {
	out := a.deps.Stdout

	if a.opts.NoStream {
		a.logger.Info("using non-streaming mode")
		response, err := a.tracker.Complete(ctx, variant, text)
		if err != nil {
			return "", err
		}
		label := color.New(color.FgGreen, color.Bold)
		if !a.deps.Color {
			label.DisableColor()
		}
		_, _ = label.Fprint(out, "Response: ")
		_, _ = fmt.Fprintln(out, response)
		return response, nil
	}

	a.logger.Info("using streaming mode")
	var full strings.Builder
	err := a.tracker.Stream(ctx, variant, text, func(chunk string) {
		full.WriteString(chunk)
		_, _ = io.WriteString(out, chunk)
	})
	if full.Len() > 0 || err == nil {
		_, _ = fmt.Fprintln(out)
	}
	if err != nil {
		return "", err
	}
	return full.String(), nil
}

func (a *App) writeCodes(response string) error {
	if a.opts.OutputCodes == "" {
		return nil
	}
	n, err := codeblocks.WriteFile(a.opts.OutputCodes, response)
	if err != nil {
		return err
	}
	if n == 0 {
		a.logger.Warn("no code blocks in response, nothing written", "path", a.opts.OutputCodes)
		return nil
	}
	a.logger.Info("wrote code blocks", "path", a.opts.OutputCodes, "blocks", n)
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
