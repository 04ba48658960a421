package browser

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// SessionManager owns the Playwright driver and every session launched
// through it. One manager is shared by all sessions of a process so
// parallel workers reuse a single driver.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	pending     map[string]bool
	playwright  *playwright.Playwright
	maxSessions int
	initialized bool
}

var (
	defaultManager     *SessionManager
	defaultManagerOnce sync.Once
)

// Default returns the process-wide session manager.
func Default() *SessionManager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewSessionManager()
	})
	return defaultManager
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		pending:     make(map[string]bool),
		maxSessions: DefaultMaxSessions,
	}
}

func driverOptions(verbose bool, out io.Writer) *playwright.RunOptions {
	if out == nil || !verbose {
		out = io.Discard
	}
	return &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  verbose,
		Stdout:   out,
		Stderr:   out,
	}
}

// InstallDriver downloads the Playwright driver and Chromium if missing.
func InstallDriver(verbose bool, out io.Writer) error {
	if err := playwright.Install(driverOptions(verbose, out)); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}

// CheckDriver starts and stops the driver to prove it is usable.
func CheckDriver() error {
	pw, err := playwright.Run(driverOptions(false, nil))
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	if err := pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// Initialize installs (if needed) and starts the Playwright driver.
// It is safe to call more than once.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := driverOptions(false, nil)
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// StartSession launches a browser session. The name is reserved while the
// browser launches so concurrent callers do not serialize on the launch.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	if _, exists := m.sessions[name]; exists || m.pending[name] {
		m.mu.Unlock()
		return nil, fmt.Errorf("session %q already exists", name)
	}
	if len(m.sessions)+len(m.pending) >= m.maxSessions {
		m.mu.Unlock()
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}
	if !m.initialized {
		m.mu.Unlock()
		return nil, fmt.Errorf("session manager not initialized")
	}
	m.pending[name] = true
	pw := m.playwright
	m.mu.Unlock()

	session, err := launch(pw, name, opts)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, name)
	if err != nil {
		return nil, err
	}
	m.sessions[name] = session
	return session, nil
}

func launch(pw *playwright.Playwright, name string, opts SessionOptions) (*Session, error) {
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	viewport := &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height}
	var recordVideo *playwright.RecordVideo
	if opts.RecordVideoDir != "" {
		if err := os.MkdirAll(opts.RecordVideoDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create video directory: %w", err)
		}
		recordVideo = &playwright.RecordVideo{Dir: opts.RecordVideoDir, Size: viewport}
	}
	var userAgent *string
	if opts.UserAgent != "" {
		userAgent = playwright.String(opts.UserAgent)
	}

	session := &Session{
		Name:       name,
		Headless:   opts.Headless,
		VideoDir:   opts.RecordVideoDir,
		CurrentURL: "about:blank",
	}

	if opts.UserDataDir != "" {
		dir := opts.UserDataDir
		if opts.CloneUserDataDir {
			clone, err := CloneUserDataDir(opts.UserDataDir)
			if err != nil {
				return nil, err
			}
			dir = clone
			session.clonedDir = clone
		}
		session.UserDataDir = dir

		ctx, err := pw.Chromium.LaunchPersistentContext(dir, playwright.BrowserTypeLaunchPersistentContextOptions{
			Headless:        playwright.Bool(opts.Headless),
			Args:            opts.Args,
			Proxy:           opts.Proxy.toPlaywright(),
			Viewport:        viewport,
			UserAgent:       userAgent,
			RecordVideo:     recordVideo,
			AcceptDownloads: playwright.Bool(true),
		})
		if err != nil {
			_ = session.removeClone()
			return nil, fmt.Errorf("failed to launch persistent context: %w", err)
		}
		session.Context = ctx
	} else {
		browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
			Args:     opts.Args,
			Proxy:    opts.Proxy.toPlaywright(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		ctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
			Viewport:        viewport,
			UserAgent:       userAgent,
			RecordVideo:     recordVideo,
			AcceptDownloads: playwright.Bool(true),
		})
		if err != nil {
			_ = browser.Close()
			return nil, fmt.Errorf("failed to create context: %w", err)
		}
		session.Browser = browser
		session.Context = ctx
	}

	var page playwright.Page
	if pages := session.Context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		p, err := session.Context.NewPage()
		if err != nil {
			_ = session.close()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
		page = p
	}
	page.SetDefaultTimeout(opts.Timeout)
	session.Page = page

	now := time.Now()
	session.CreatedAt = now
	session.LastUsedAt = now
	return session, nil
}

// CloseSession closes and removes a browser session.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	session, exists := m.sessions[name]
	if !exists {
		m.mu.Unlock()
		return fmt.Errorf("session %q not found", name)
	}
	delete(m.sessions, name)
	m.mu.Unlock()

	return session.close()
}

// Shutdown closes all sessions and stops Playwright.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, session := range m.sessions {
		if err := session.close(); err != nil {
			errs = append(errs, err)
		}
		delete(m.sessions, name)
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		m.initialized = false
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
