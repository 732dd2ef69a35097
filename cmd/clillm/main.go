// Package main is the entry point for the clillm command line client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	"clillm/config"
	"clillm/internal/app"
	"clillm/internal/core"
	"clillm/internal/logging"
	"clillm/internal/version"
)

const usage = `Usage: clillm [flags] [prompt]

Sends a prompt to an OpenAI-compatible chat completions API and prints the
response. The prompt is the positional argument, else -p, else standard input.

Flags:
  -p string               input prompt
  -n, --no-stream         disable streaming of the response
  -m, --model string      model to use: coder, chat, creative, or a -R variant (default "coder")
  -o, --output-codes path write the fenced code of the response to path
  -d, --debug             show detailed logs
      --relay string      remote or stub (default "remote")
      --version           print version information

Environment:
  OPENAI_API_KEY, OPENAI_BASE_URL are required. CLILLM_CONFIG names an
  optional settings file (default ./clillm.yaml). A .env file in the working
  directory is loaded first.
`

// cliFlags are the parsed command line arguments
type cliFlags struct {
	options app.Options
	debug   bool
	version bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	var (
		f      cliFlags
		prompt stringFlag
	)

	fs := flag.NewFlagSet("clillm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(stderr, usage) }

	fs.Var(&prompt, "p", "input prompt")
	fs.BoolVar(&f.options.NoStream, "n", false, "disable streaming")
	fs.BoolVar(&f.options.NoStream, "no-stream", false, "disable streaming")
	fs.StringVar(&f.options.Model, "m", app.DefaultModel, "model to use")
	fs.StringVar(&f.options.Model, "model", app.DefaultModel, "model to use")
	fs.StringVar(&f.options.OutputCodes, "o", "", "code output file")
	fs.StringVar(&f.options.OutputCodes, "output-codes", "", "code output file")
	fs.BoolVar(&f.debug, "d", false, "debug logs")
	fs.BoolVar(&f.debug, "debug", false, "debug logs")
	fs.StringVar(&f.options.Relay, "relay", app.RelayRemote, "remote or stub")
	fs.BoolVar(&f.version, "version", false, "print version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	// flags may follow the positional prompt
	if fs.NArg() > 0 {
		positional := fs.Arg(0)
		f.options.Positional = &positional
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return nil, err
		}
		if fs.NArg() > 0 {
			return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
		}
	}
	if prompt.set {
		f.options.Prompt = &prompt.value
	}

	switch f.options.Relay {
	case app.RelayRemote, app.RelayStub:
	default:
		return nil, fmt.Errorf("invalid value %q for flag --relay: want remote or stub", f.options.Relay)
	}
	return &f, nil
}

// stringFlag records whether it was given, so an explicit empty value
// is distinguishable from an absent flag.
type stringFlag struct {
	value string
	set   bool
}

func (s *stringFlag) String() string { return s.value }

func (s *stringFlag) Set(v string) error {
	s.value, s.set = v, true
	return nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if f.version {
		_, _ = fmt.Fprintln(stdout, version.Info())
		return 0
	}

	logger := logging.New(stderr, logging.Options{Debug: f.debug})
	if err := config.LoadDotEnv(); err != nil {
		logger.Warn("ignoring .env file", "error", err)
	}

	a := app.New(f.options, app.Deps{
		Stdin:  stdin,
		Stdout: stdout,
		Lookup: os.LookupEnv,
		Logger: logger,
		Color:  !color.NoColor && stdout == io.Writer(os.Stdout),
	})
	if err := a.Run(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		var coreErr *core.Error
		if errors.As(err, &coreErr) {
			return coreErr.ExitCode()
		}
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// an interactive terminal is not a prompt source
	var stdin io.Reader = os.Stdin
	if term.IsTerminal(int(os.Stdin.Fd())) {
		stdin = nil
	}

	code := run(ctx, os.Args[1:], stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
