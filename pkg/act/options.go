package act

import (
	"time"

	"github.com/entrhq/act-samples/pkg/browser"
	"github.com/entrhq/act-samples/pkg/llm"
	"github.com/entrhq/act-samples/pkg/logging"
	"github.com/entrhq/act-samples/pkg/types"
)

// Defaults applied by New.
const (
	DefaultMaxSteps          = 30
	DefaultObservationTokens = 6000
	DefaultMaxInvalidReplies = 3
	DefaultMaxActionFailures = 3
	DefaultHistoryMessages   = 12
)

// Options configures a Client. Use the With* functions rather than filling
// it directly.
type Options struct {
	Headless          bool
	UserDataDir       string
	CloneUserDataDir  bool
	LogsDirectory     string
	RecordVideo       bool
	Proxy             *browser.ProxyConfig
	UserAgent         string
	BrowserArgs       []string
	Viewport          *browser.Viewport
	NavigationTimeout time.Duration
	MaxSteps          int
	ObservationTokens int

	provider  llm.Provider
	launcher  Launcher
	logger    *logging.Logger
	observer  func(*types.ActEvent)
	stopHooks []StopHook
}

// Option configures Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		CloneUserDataDir:  true,
		MaxSteps:          DefaultMaxSteps,
		ObservationTokens: DefaultObservationTokens,
	}
}

// WithHeadless runs the browser without a window.
func WithHeadless(headless bool) Option {
	return func(o *Options) { o.Headless = headless }
}

// WithUserDataDir keeps browser state (cookies, local storage) in dir.
// When clone is true the session works on a temporary copy of dir, so
// changes made during the session are not written back.
func WithUserDataDir(dir string, clone bool) Option {
	return func(o *Options) {
		o.UserDataDir = dir
		o.CloneUserDataDir = clone
	}
}

// WithLogsDirectory sets where session logs, screenshots and videos go.
// A temporary directory is created when unset.
func WithLogsDirectory(dir string) Option {
	return func(o *Options) { o.LogsDirectory = dir }
}

// WithRecordVideo records the session into <logs>/<session>/videos.
func WithRecordVideo(record bool) Option {
	return func(o *Options) { o.RecordVideo = record }
}

// WithProxy routes browser traffic through a proxy.
func WithProxy(p *browser.ProxyConfig) Option {
	return func(o *Options) { o.Proxy = p }
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(o *Options) { o.UserAgent = ua }
}

// WithBrowserArgs appends Chromium switches to those from NOVA_ACT_BROWSER_ARGS.
func WithBrowserArgs(args ...string) Option {
	return func(o *Options) { o.BrowserArgs = append(o.BrowserArgs, args...) }
}

// WithViewport sets the page size.
func WithViewport(width, height int) Option {
	return func(o *Options) { o.Viewport = &browser.Viewport{Width: width, Height: height} }
}

// WithNavigationTimeout sets the default timeout for page operations.
func WithNavigationTimeout(d time.Duration) Option {
	return func(o *Options) { o.NavigationTimeout = d }
}

// WithMaxSteps caps the number of model actions per act call.
func WithMaxSteps(n int) Option {
	return func(o *Options) { o.MaxSteps = n }
}

// WithObservationTokens caps the page text sent to the model per step.
func WithObservationTokens(n int) Option {
	return func(o *Options) { o.ObservationTokens = n }
}

// WithProvider sets the model that plans actions. Without it New builds an
// OpenAI-compatible provider from the environment.
func WithProvider(p llm.Provider) Option {
	return func(o *Options) { o.provider = p }
}

// WithLauncher replaces the Playwright launcher.
func WithLauncher(l Launcher) Option {
	return func(o *Options) { o.launcher = l }
}

// WithLogger sets the file logger for the session.
func WithLogger(l *logging.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithObserver receives progress events. It is called synchronously.
func WithObserver(fn func(*types.ActEvent)) Option {
	return func(o *Options) { o.observer = fn }
}

// WithStopHooks registers hooks run by Stop after the browser closes.
func WithStopHooks(hooks ...StopHook) Option {
	return func(o *Options) { o.stopHooks = append(o.stopHooks, hooks...) }
}

// ActOption configures a single act call.
type ActOption func(*actOptions)

type actOptions struct {
	schema   Schema
	maxSteps int
	timeout  time.Duration
}

// WithSchema asks the model to return a value matching s. The result's
// MatchesSchema reports whether it did.
func WithSchema(s Schema) ActOption {
	return func(o *actOptions) { o.schema = s }
}

// WithActMaxSteps overrides the client's step limit for one call.
func WithActMaxSteps(n int) ActOption {
	return func(o *actOptions) { o.maxSteps = n }
}

// WithTimeout bounds one act call.
func WithTimeout(d time.Duration) ActOption {
	return func(o *actOptions) { o.timeout = d }
}
