package browser

import (
	"net/url"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is nil for persistent sessions, whose lifetime is the context's.
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// UserDataDir is the profile directory in use, possibly a temporary clone.
	UserDataDir string

	// VideoDir is where recordings are written, empty when recording is off.
	VideoDir string

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string

	// clonedDir is removed when the session closes.
	clonedDir string
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64

	// UserDataDir, when set, launches a persistent context on that profile.
	UserDataDir string

	// CloneUserDataDir runs the session on a temporary copy of UserDataDir so
	// parallel sessions can share one logged-in profile.
	CloneUserDataDir bool

	// RecordVideoDir enables video recording into the directory.
	RecordVideoDir string

	// Proxy routes traffic through a proxy server.
	Proxy *ProxyConfig

	// UserAgent overrides the browser's user agent string.
	UserAgent string

	// Args are extra command-line switches passed to Chromium.
	Args []string
}

// ProxyConfig describes an upstream proxy.
type ProxyConfig struct {
	Server   string `json:"server" yaml:"server"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"-" yaml:"password,omitempty"`
	Bypass   string `json:"bypass,omitempty" yaml:"bypass,omitempty"`
}

// Masked renders the proxy for display with the password hidden.
func (p ProxyConfig) Masked() string {
	if p.Username == "" {
		return p.Server
	}
	u, err := url.Parse(p.Server)
	if err != nil || u.Host == "" {
		return p.Username + ":****@" + p.Server
	}
	u.User = url.UserPassword(p.Username, "****")
	masked, _ := url.PathUnescape(u.String())
	return masked
}

func (p *ProxyConfig) toPlaywright() *playwright.Proxy {
	if p == nil || p.Server == "" {
		return nil
	}
	proxy := &playwright.Proxy{Server: p.Server}
	if p.Username != "" {
		proxy.Username = playwright.String(p.Username)
	}
	if p.Password != "" {
		proxy.Password = playwright.String(p.Password)
	}
	if p.Bypass != "" {
		proxy.Bypass = playwright.String(p.Bypass)
	}
	return proxy
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// ClickOptions configures element clicking behavior.
type ClickOptions struct {
	// Selector identifies the element to click
	Selector string

	// Button specifies which mouse button to use (left, right, middle)
	Button string

	// ClickCount is the number of times to click (1 for single, 2 for double)
	ClickCount int

	// Timeout in milliseconds
	Timeout float64
}

// FillOptions configures form input filling.
type FillOptions struct {
	// Selector identifies the input element
	Selector string

	// Value is the text to fill
	Value string

	// Timeout in milliseconds
	Timeout float64
}

// WaitOptions configures waiting behavior.
type WaitOptions struct {
	// Selector to wait for (if waiting for element)
	Selector string

	// State to wait for: "attached", "detached", "visible", "hidden"
	State string

	// Timeout in milliseconds
	Timeout float64
}

// ScrollDirection is the direction of a scroll action.
type ScrollDirection string

const (
	ScrollDown ScrollDirection = "down"
	ScrollUp   ScrollDirection = "up"
)

// Observation is a model-facing snapshot of the current page.
type Observation struct {
	URL         string
	Title       string
	Description string
	HTML        string
	Truncated   bool
}

// Default values for various operations
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultMaxLength      = 20000   // characters of cleaned HTML per observation
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 8
	DefaultScrollPixels   = 600
)
