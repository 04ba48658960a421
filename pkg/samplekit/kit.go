// Package samplekit is the harness shared by the sample programs. It checks
// the credential, parses the common flags, builds the printer, logger and
// model provider, and reports failures with guidance.
package samplekit

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/browser"
	"github.com/entrhq/act-samples/pkg/config"
	"github.com/entrhq/act-samples/pkg/console"
	"github.com/entrhq/act-samples/pkg/llm"
	"github.com/entrhq/act-samples/pkg/llm/openai"
	"github.com/entrhq/act-samples/pkg/logging"
)

// Exit codes returned by Run.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// Func is the body of a sample.
type Func func(ctx context.Context, k *Kit) error

// Config controls how a sample is run. Zero fields take the process
// defaults.
type Config struct {
	Name   string
	Args   []string
	Getenv config.Getenv
	Stdin  io.Reader
	Stdout io.Writer

	// Provider replaces the model provider built from the environment.
	Provider llm.Provider

	// Options are applied to every client after the kit's defaults.
	Options []act.Option
}

// Kit carries what a sample needs to create clients and talk to the user.
type Kit struct {
	Name     string
	Printer  *console.Printer
	Logger   *logging.Logger
	Env      config.Env
	Prompt   *Prompter
	Headless bool
	LogsDir  string

	// Args are the positional arguments left after flag parsing.
	Args []string

	provider llm.Provider
	options  []act.Option
	getenv   config.Getenv
}

// Main runs a sample and exits the process with its status.
func Main(name string, fn Func) {
	os.Exit(Run(name, fn))
}

// Run runs a sample with the process's arguments and standard streams.
// SIGINT and SIGTERM cancel the sample's context.
func Run(name string, fn Func) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RunConfig(ctx, Config{
		Name:   name,
		Args:   os.Args[1:],
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}, fn)
}

// shutdownBrowser stops the shared Playwright driver that clients launch on.
var shutdownBrowser = func() error { return browser.Default().Shutdown() }

// RunConfig runs a sample. Without an API key it prints the setup message
// and returns ExitOK without doing anything else. A sample error is
// reported with guidance and yields ExitFailed.
func RunConfig(ctx context.Context, cfg Config, fn Func) int {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}

	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}

	rawEnv := config.LoadEnv(cfg.Getenv)
	if !rawEnv.HasAPIKey() {
		fmt.Fprint(cfg.Stdout, config.SetupMessage())
		return ExitOK
	}
	settings, settingsErr := loadSettings(cfg.Getenv)
	env := rawEnv.WithSettings(settings)

	fs := flag.NewFlagSet(cfg.Name, flag.ContinueOnError)
	fs.SetOutput(cfg.Stdout)
	headless := fs.Bool("headless", false, "Run the browser without a window")
	output := fs.String("output", "normal", "Console output: quiet, normal, verbose or debug")
	logsDir := fs.String("logs-dir", env.LogsDir, "Directory for logs, screenshots and videos")
	if err := fs.Parse(cfg.Args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	printer := console.New(console.WithWriter(cfg.Stdout), console.WithLevel(console.ParseLevel(*output)))
	if settingsErr != nil {
		printer.Warningf("Ignoring settings file: %v", settingsErr)
	}

	if env.LogLevel != "" {
		logging.SetLevel(logging.ParseLevel(env.LogLevel))
	}
	logging.SetDirectory(*logsDir)
	logger, err := logging.NewLogger(cfg.Name)
	if err != nil {
		printer.Warningf("File logging unavailable: %v", err)
	}
	defer logger.Close()
	defer func() {
		if err := shutdownBrowser(); err != nil {
			logger.Warnf("Browser shutdown failed: %v", err)
		}
	}()

	provider := cfg.Provider
	if provider == nil {
		p, err := openai.NewProvider(env.APIKey, openai.WithModel(env.Model), openai.WithBaseURL(env.BaseURL))
		if err != nil {
			printer.Errorf("Failed to create model provider: %v", err)
			return ExitFailed
		}
		provider = p
	}

	options := cfg.Options
	if len(rawEnv.BrowserArgs) == 0 && len(env.BrowserArgs) > 0 {
		// Clients add NOVA_ACT_BROWSER_ARGS themselves; only file args are passed here.
		options = append([]act.Option{act.WithBrowserArgs(env.BrowserArgs...)}, options...)
	}

	k := &Kit{
		Name:     cfg.Name,
		Printer:  printer,
		Logger:   logger,
		Env:      env,
		Prompt:   NewPrompter(cfg.Stdin, cfg.Stdout),
		Headless: *headless,
		LogsDir:  *logsDir,
		Args:     fs.Args(),
		provider: provider,
		options:  options,
		getenv:   cfg.Getenv,
	}

	logger.Infof("Starting sample %s (headless=%t, model=%s)", cfg.Name, k.Headless, provider.GetModel())
	if err := fn(ctx, k); err != nil {
		k.Report(err)
		return ExitFailed
	}
	logger.Infof("Sample %s finished", cfg.Name)
	return ExitOK
}

func loadSettings(getenv config.Getenv) (*config.Settings, error) {
	f, err := config.NewSettingsFile("", getenv)
	if err != nil {
		return nil, err
	}
	return f.Load()
}

// Getenv reads an environment variable through the kit's lookup.
func (k *Kit) Getenv(key string) string {
	if k.getenv == nil {
		return os.Getenv(key)
	}
	return k.getenv(key)
}

// ClientOptions returns the options every client of this sample shares,
// followed by extra.
func (k *Kit) ClientOptions(extra ...act.Option) []act.Option {
	opts := []act.Option{
		act.WithHeadless(k.Headless),
		act.WithLogger(k.Logger),
		act.WithProvider(k.provider),
	}
	if k.LogsDir != "" {
		opts = append(opts, act.WithLogsDirectory(k.LogsDir))
	}
	opts = append(opts, k.options...)
	return append(opts, extra...)
}

// NewClient creates a client for startingPage with the shared options.
func (k *Kit) NewClient(startingPage string, extra ...act.Option) (*act.Client, error) {
	return act.New(startingPage, k.ClientOptions(extra...)...)
}

// Report prints an error with a hint when one is known.
func (k *Kit) Report(err error) {
	k.Printer.Errorf("Error: %v", err)
	k.Logger.Errorf("%v", err)

	var actErr *act.ActError
	switch {
	case errors.As(err, &actErr):
		if hint := actErr.Guidance(); hint != "" {
			k.Printer.Tipf("%s", hint)
		}
	case errors.Is(err, context.Canceled):
		k.Printer.Tipf("Interrupted before finishing")
	default:
		k.Printer.Tipf("Check your internet connection and that the site is reachable")
	}
}

// PrintResult shows an act result and its metadata.
func (k *Kit) PrintResult(label string, res *act.Result) {
	k.Printer.Successf("%s", label)
	if res.Response != "" {
		k.Printer.KeyValue("Response", res.Response)
	}
	k.Printer.Verbosef("%s", res.Metadata)
}
