package act

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/act-samples/pkg/browser"
	"github.com/entrhq/act-samples/pkg/config"
	"github.com/entrhq/act-samples/pkg/llm"
	"github.com/entrhq/act-samples/pkg/llm/openai"
	"github.com/entrhq/act-samples/pkg/llm/tokenizer"
	"github.com/entrhq/act-samples/pkg/logging"
	"github.com/entrhq/act-samples/pkg/types"
)

// Client is one browser session driven by natural-language act calls.
// Act calls on a client run one at a time; use separate clients for
// parallel work.
type Client struct {
	startingPage string
	opts         Options
	sessionID    string
	provider     llm.Provider
	launcher     Launcher
	tokenizer    *tokenizer.Tokenizer

	mu         sync.Mutex
	actMu      sync.Mutex
	started    bool
	startedAt  time.Time
	page       Page
	logger     *logging.Logger
	ownsLogger bool
	logsDir    string
	sessionDir string
	videoPath  string
}

// Result is the outcome of a successful act call.
type Result struct {
	// Response is the model's final answer as text.
	Response string

	// ParsedResponse holds the schema-validated value when MatchesSchema.
	ParsedResponse any

	// MatchesSchema reports whether the answer matched the requested schema.
	// It is false when no schema was requested.
	MatchesSchema bool

	Metadata Metadata
}

// Metadata describes how an act call ran.
type Metadata struct {
	SessionID string
	ActID     string
	Prompt    string
	NumSteps  int
	StartTime time.Time
	EndTime   time.Time
}

func (m Metadata) String() string {
	return fmt.Sprintf("session=%s act=%s steps=%d duration=%s",
		m.SessionID, m.ActID, m.NumSteps, m.EndTime.Sub(m.StartTime).Round(time.Millisecond))
}

// New prepares a client that will open startingPage. Nothing is launched
// until Start.
func New(startingPage string, opts ...Option) (*Client, error) {
	u, err := url.Parse(startingPage)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("invalid starting page %q: must be an absolute URL", startingPage)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive, got %d", o.MaxSteps)
	}

	env := config.LoadEnv(os.Getenv)
	o.BrowserArgs = append(append([]string(nil), env.BrowserArgs...), o.BrowserArgs...)

	provider := o.provider
	if provider == nil {
		if !env.HasAPIKey() {
			return nil, fmt.Errorf("%w: set %s", errNoProvider, config.EnvAPIKey)
		}
		provider, err = openai.NewProvider(env.APIKey, openai.WithModel(env.Model), openai.WithBaseURL(env.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to create model provider: %w", err)
		}
	}

	launcher := o.launcher
	if launcher == nil {
		launcher = NewPlaywrightLauncher(nil)
	}

	return &Client{
		startingPage: startingPage,
		opts:         o,
		sessionID:    uuid.NewString(),
		provider:     provider,
		launcher:     launcher,
		tokenizer:    sharedTokenizer(),
		logger:       o.logger,
	}, nil
}

// SessionID identifies this client's session in logs and hook output.
func (c *Client) SessionID() string { return c.sessionID }

// LogsDirectory is the session's log directory, set once started.
func (c *Client) LogsDirectory() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionDir
}

// VideoPath is the recording of the last stopped session, empty when video
// was not recorded.
func (c *Client) VideoPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoPath
}

// Started reports whether the session is open.
func (c *Client) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// Page returns direct access to the browser page, or nil before Start.
func (c *Client) Page() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Client) sessionName() string { return "act-" + c.sessionID }

// Start launches the browser and opens the starting page.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return errAlreadyStarted
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logsDir := c.opts.LogsDirectory
	if logsDir == "" {
		dir, err := os.MkdirTemp("", "act-logs-*")
		if err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		logsDir = dir
	}
	sessionDir := filepath.Join(logsDir, c.sessionID)
	if err := os.MkdirAll(sessionDir, 0750); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	if c.logger == nil {
		// On error NewLogger still returns a stderr logger.
		logger, _ := logging.NewLogger("act")
		c.logger = logger
		c.ownsLogger = true
	}

	sopts := browser.SessionOptions{
		Headless:         c.opts.Headless,
		Viewport:         c.opts.Viewport,
		UserDataDir:      c.opts.UserDataDir,
		CloneUserDataDir: c.opts.CloneUserDataDir,
		Proxy:            c.opts.Proxy,
		UserAgent:        c.opts.UserAgent,
		Args:             c.opts.BrowserArgs,
	}
	if c.opts.NavigationTimeout > 0 {
		sopts.Timeout = float64(c.opts.NavigationTimeout.Milliseconds())
	}
	if c.opts.RecordVideo {
		sopts.RecordVideoDir = filepath.Join(sessionDir, "videos")
	}

	c.logger.Infof("Starting session %s on %s (headless=%t)", c.sessionID, c.startingPage, c.opts.Headless)
	if c.opts.Proxy != nil {
		c.logger.Infof("Using proxy %s", c.opts.Proxy.Masked())
	}

	page, err := c.launcher.Launch(c.sessionName(), sopts)
	if err != nil {
		c.logger.Errorf("Failed to launch browser: %v", err)
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	if err := page.Navigate(c.startingPage, browser.NavigateOptions{WaitUntil: "domcontentloaded"}); err != nil {
		_ = c.launcher.Close(c.sessionName())
		c.logger.Errorf("Failed to open starting page: %v", err)
		return fmt.Errorf("failed to open starting page: %w", err)
	}

	c.page = page
	c.logsDir = logsDir
	c.sessionDir = sessionDir
	c.startedAt = time.Now()
	c.started = true
	c.emit(types.NewSessionStartEvent(c.sessionID, c.startingPage))
	return nil
}

// Stop closes the browser and runs stop hooks. It is safe to call on a
// client that is not started.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}

	var errs []error
	videoDir := ""
	c.videoPath = ""
	if c.opts.RecordVideo {
		videoDir = filepath.Join(c.sessionDir, "videos")
		if c.page != nil {
			c.videoPath = c.page.VideoPath()
		}
	}
	if err := c.launcher.Close(c.sessionName()); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}

	info := StopInfo{
		SessionID:    c.sessionID,
		StartingPage: c.startingPage,
		LogsDir:      c.sessionDir,
		VideoDir:     videoDir,
		VideoPath:    c.videoPath,
		StartedAt:    c.startedAt,
		StoppedAt:    time.Now(),
	}
	for _, hook := range c.opts.stopHooks {
		if err := hook.OnStop(ctx, info); err != nil {
			c.logger.Warnf("Stop hook failed: %v", err)
			errs = append(errs, fmt.Errorf("stop hook failed: %w", err))
		}
	}

	c.started = false
	c.page = nil
	c.emit(types.NewSessionStopEvent(c.sessionID))
	c.logger.Infof("Session %s stopped", c.sessionID)
	if c.ownsLogger {
		_ = c.logger.Close()
		c.logger = nil
		c.ownsLogger = false
	}
	return errors.Join(errs...)
}

// With starts the session, runs fn and always stops the session. fn's
// error takes precedence over a stop error.
func (c *Client) With(ctx context.Context, fn func(*Client) error) error {
	if err := c.Start(ctx); err != nil {
		return err
	}
	fnErr := fn(c)
	stopErr := c.Stop(context.WithoutCancel(ctx))
	if fnErr != nil {
		return fnErr
	}
	return stopErr
}

// GoToURL navigates the page directly, without the model.
func (c *Client) GoToURL(ctx context.Context, target string) error {
	page := c.Page()
	if page == nil {
		return &ActError{Kind: KindNotStarted, Err: errors.New("session not started")}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := page.Navigate(target, browser.NavigateOptions{WaitUntil: "domcontentloaded"}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", target, err)
	}
	return nil
}

var (
	tokenizerOnce sync.Once
	tokenizerInst *tokenizer.Tokenizer
)

// sharedTokenizer loads the encoding once per process. A nil result makes
// counts fall back to estimates.
func sharedTokenizer() *tokenizer.Tokenizer {
	tokenizerOnce.Do(func() {
		tokenizerInst, _ = tokenizer.New()
	})
	return tokenizerInst
}

func (c *Client) emit(e *types.ActEvent) {
	if c.opts.observer != nil {
		c.opts.observer(e)
	}
}

func (c *Client) log() *logging.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logger == nil {
		return logging.Discard("act")
	}
	return c.logger
}
