package act

import (
	"fmt"

	"github.com/entrhq/act-samples/pkg/browser"
	"github.com/entrhq/act-samples/pkg/schema"
)

// Schema is the response shape an act call can request.
type Schema = schema.Schema

// Page is the direct page access a session exposes. It is implemented by
// *browser.Session; use it for input that must not go through the model,
// such as passwords typed with TypeSensitive.
type Page interface {
	Navigate(url string, opts browser.NavigateOptions) error
	Click(opts browser.ClickOptions) error
	Fill(opts browser.FillOptions) error
	Press(key string) error
	TypeSensitive(selector, value string) error
	Scroll(direction browser.ScrollDirection, pixels int) error
	Wait(opts browser.WaitOptions) error
	Screenshot(path string, fullPage bool) ([]byte, error)
	Content() (string, error)
	Title() (string, error)
	URL() string
	Observe(maxLength int) (*browser.Observation, error)
	SetInputFiles(selector string, paths []string) error
	WaitForDownload(dir string, trigger func() error) (string, error)
	VideoPath() string
}

var _ Page = (*browser.Session)(nil)

// Launcher opens and closes the browser behind a client.
type Launcher interface {
	Launch(name string, opts browser.SessionOptions) (Page, error)
	Close(name string) error
}

// playwrightLauncher launches sessions on a shared SessionManager.
type playwrightLauncher struct {
	manager *browser.SessionManager
}

// NewPlaywrightLauncher returns a Launcher backed by m, or the process-wide
// manager when m is nil.
func NewPlaywrightLauncher(m *browser.SessionManager) Launcher {
	if m == nil {
		m = browser.Default()
	}
	return &playwrightLauncher{manager: m}
}

func (l *playwrightLauncher) Launch(name string, opts browser.SessionOptions) (Page, error) {
	if err := l.manager.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	session, err := l.manager.StartSession(name, opts)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (l *playwrightLauncher) Close(name string) error {
	return l.manager.CloseSession(name)
}
