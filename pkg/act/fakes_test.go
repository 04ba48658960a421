package act

import (
	"context"
	"errors"
	"sync"

	"github.com/entrhq/act-samples/pkg/browser"
	"github.com/entrhq/act-samples/pkg/llm"
	"github.com/entrhq/act-samples/pkg/types"
)

// scriptedProvider replies with a fixed sequence, repeating the last reply.
type scriptedProvider struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]*types.Message
	opts    []llm.CompletionOptions
}

func (p *scriptedProvider) Complete(ctx context.Context, messages []*types.Message, opts ...llm.CompletionOption) (*types.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, messages)
	p.opts = append(p.opts, llm.ApplyOptions(opts...))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.err != nil {
		return nil, p.err
	}
	i := len(p.calls) - 1
	if i >= len(p.replies) {
		i = len(p.replies) - 1
	}
	return types.NewAssistantMessage(p.replies[i]), nil
}

func (p *scriptedProvider) GetModelInfo() *types.ModelInfo {
	return &types.ModelInfo{Provider: "scripted", Name: "scripted"}
}

func (p *scriptedProvider) GetModel() string   { return "scripted" }
func (p *scriptedProvider) GetBaseURL() string { return "" }

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// fakePage records the operations performed on it.
type fakePage struct {
	mu        sync.Mutex
	url       string
	html      string
	clicks    []string
	fills     map[string]string
	keys      []string
	sensitive map[string]string
	waits     []browser.WaitOptions
	video     string
	clickErr  error
	navErr    error
}

func newFakePage(html string) *fakePage {
	return &fakePage{html: html, fills: map[string]string{}, sensitive: map[string]string{}}
}

func (p *fakePage) Navigate(url string, _ browser.NavigateOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.navErr != nil {
		return p.navErr
	}
	p.url = url
	return nil
}

func (p *fakePage) Click(opts browser.ClickOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clickErr != nil {
		return p.clickErr
	}
	p.clicks = append(p.clicks, opts.Selector)
	return nil
}

func (p *fakePage) Fill(opts browser.FillOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fills[opts.Selector] = opts.Value
	return nil
}

func (p *fakePage) Press(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *fakePage) TypeSensitive(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sensitive[selector] = value
	return nil
}

func (p *fakePage) Scroll(browser.ScrollDirection, int) error { return nil }

func (p *fakePage) Wait(opts browser.WaitOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waits = append(p.waits, opts)
	return nil
}

func (p *fakePage) VideoPath() string { return p.video }

func (p *fakePage) Screenshot(string, bool) ([]byte, error) { return []byte("png"), nil }
func (p *fakePage) Content() (string, error)                { return p.html, nil }
func (p *fakePage) Title() (string, error)                  { return "Fake", nil }

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePage) Observe(int) (*browser.Observation, error) {
	return &browser.Observation{URL: p.URL(), Title: "Fake", HTML: p.html}, nil
}

func (p *fakePage) SetInputFiles(string, []string) error { return nil }

func (p *fakePage) WaitForDownload(string, func() error) (string, error) {
	return "", errors.New("no download")
}

// fakeLauncher hands out one fakePage.
type fakeLauncher struct {
	page      *fakePage
	launchErr error
	launched  []browser.SessionOptions
	closed    []string
}

func (l *fakeLauncher) Launch(_ string, opts browser.SessionOptions) (Page, error) {
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	l.launched = append(l.launched, opts)
	return l.page, nil
}

func (l *fakeLauncher) Close(name string) error {
	l.closed = append(l.closed, name)
	return nil
}
