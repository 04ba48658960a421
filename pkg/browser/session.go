package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// Click clicks an element matching the selector.
func (s *Session) Click(opts ClickOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageClickOptions{}
	if opts.Button != "" {
		button := playwright.MouseButton(opts.Button)
		playwrightOpts.Button = &button
	}
	if opts.ClickCount > 0 {
		playwrightOpts.ClickCount = &opts.ClickCount
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Click(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	// A click may navigate.
	s.CurrentURL = s.Page.URL()
	return nil
}

// Fill fills an input element with the specified value.
func (s *Session) Fill(opts FillOptions) error {
	s.UpdateLastUsed()

	playwrightOpts := playwright.PageFillOptions{}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Fill(opts.Selector, opts.Value, playwrightOpts); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

// TypeSensitive focuses selector (when given) and types value with the
// keyboard. The value goes straight to the page and is never logged,
// observed or sent to a model.
func (s *Session) TypeSensitive(selector, value string) error {
	s.UpdateLastUsed()

	if selector != "" {
		if err := s.Page.Focus(selector); err != nil {
			return fmt.Errorf("focus failed: %w", err)
		}
	}
	if err := s.Page.Keyboard().Type(value); err != nil {
		return errors.New("keyboard input failed")
	}
	return nil
}

// Press sends a single key or chord such as "Enter" or "Control+A".
func (s *Session) Press(key string) error {
	s.UpdateLastUsed()

	if err := s.Page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("key press failed: %w", err)
	}
	s.CurrentURL = s.Page.URL()
	return nil
}

// Scroll scrolls the page vertically by pixels (DefaultScrollPixels when 0).
func (s *Session) Scroll(direction ScrollDirection, pixels int) error {
	s.UpdateLastUsed()

	if pixels <= 0 {
		pixels = DefaultScrollPixels
	}
	delta := float64(pixels)
	if direction == ScrollUp {
		delta = -delta
	}
	if err := s.Page.Mouse().Wheel(0, delta); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

// Wait waits for an element to reach a state.
func (s *Session) Wait(opts WaitOptions) error {
	s.UpdateLastUsed()

	if opts.Selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	playwrightOpts := playwright.PageWaitForSelectorOptions{}
	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}
	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.WaitForSelector(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}
	return nil
}

// Screenshot captures the page as PNG, writing it to path when non-empty.
func (s *Session) Screenshot(path string, fullPage bool) ([]byte, error) {
	s.UpdateLastUsed()

	opts := playwright.PageScreenshotOptions{FullPage: playwright.Bool(fullPage)}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
		}
		opts.Path = playwright.String(path)
	}
	data, err := s.Page.Screenshot(opts)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// Content returns the page's serialized HTML.
func (s *Session) Content() (string, error) {
	s.UpdateLastUsed()

	content, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return content, nil
}

// Title returns the page title.
func (s *Session) Title() (string, error) {
	title, err := s.Page.Title()
	if err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}

// URL returns the page's current URL.
func (s *Session) URL() string {
	s.CurrentURL = s.Page.URL()
	return s.CurrentURL
}

// Observe returns a cleaned snapshot of the page for a model. maxLength
// caps the cleaned HTML (DefaultMaxLength when 0).
func (s *Session) Observe(maxLength int) (*Observation, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	content, err := s.Content()
	if err != nil {
		return nil, err
	}
	cleaned, err := cleanHTML(content, maxLength)
	if err != nil {
		return nil, err
	}

	title := cleaned.Title
	if t, err := s.Page.Title(); err == nil && t != "" {
		title = t
	}

	return &Observation{
		URL:         s.URL(),
		Title:       title,
		Description: cleaned.Description,
		HTML:        cleaned.HTML,
		Truncated:   cleaned.Truncated,
	}, nil
}

// SetInputFiles attaches local files to a file input.
func (s *Session) SetInputFiles(selector string, paths []string) error {
	s.UpdateLastUsed()

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("upload file unavailable: %w", err)
		}
	}
	if err := s.Page.SetInputFiles(selector, paths); err != nil {
		return fmt.Errorf("set input files failed: %w", err)
	}
	return nil
}

// WaitForDownload runs trigger, waits for the download it starts and saves
// the file into dir under its suggested name. It returns the saved path.
func (s *Session) WaitForDownload(dir string, trigger func() error) (string, error) {
	s.UpdateLastUsed()

	download, err := s.Page.ExpectDownload(trigger)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(download.SuggestedFilename()))
	if err := download.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save download: %w", err)
	}
	return path, nil
}

// VideoPath returns the recording path for the page, empty when recording
// is off. The file is complete only after the session closes.
func (s *Session) VideoPath() string {
	if s.VideoDir == "" || s.Page == nil || s.Page.Video() == nil {
		return ""
	}
	path, err := s.Page.Video().Path()
	if err != nil {
		return ""
	}
	return path
}

func (s *Session) close() error {
	var errs []error
	if s.Page != nil {
		if err := s.Page.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Context != nil {
		if err := s.Context.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.removeClone(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Session) removeClone() error {
	if s.clonedDir == "" {
		return nil
	}
	dir := s.clonedDir
	s.clonedDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove cloned user data dir: %w", err)
	}
	return nil
}
