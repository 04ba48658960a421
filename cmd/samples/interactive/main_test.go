package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/console"
	"github.com/entrhq/act-samples/pkg/logging"
	"github.com/entrhq/act-samples/pkg/samplekit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePage implements only what the demos call.
type fakePage struct {
	act.Page
	url         string
	screenshots []string
}

func (f *fakePage) URL() string              { return f.url }
func (f *fakePage) Title() (string, error)   { return "Example Domain", nil }
func (f *fakePage) Content() (string, error) { return "<html>12345</html>", nil }
func (f *fakePage) Screenshot(path string, _ bool) ([]byte, error) {
	f.screenshots = append(f.screenshots, path)
	return []byte("png"), nil
}

type fakeSession struct {
	page    *fakePage
	prompts []string
	fail    map[string]bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{page: &fakePage{url: "https://example.com/"}, fail: map[string]bool{}}
}

func (f *fakeSession) Act(_ context.Context, prompt string, _ ...act.ActOption) (*act.Result, error) {
	f.prompts = append(f.prompts, prompt)
	if f.fail[prompt] {
		return nil, errors.New("act failed")
	}
	return &act.Result{Response: "ok: " + prompt}, nil
}

func (f *fakeSession) GoToURL(_ context.Context, target string) error {
	f.page.url = target
	return nil
}

func (f *fakeSession) Page() act.Page { return f.page }

func testKit(t *testing.T, input string) (*samplekit.Kit, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &samplekit.Kit{
		Name:    "interactive",
		Printer: console.New(console.WithWriter(&out)),
		Logger:  logging.Discard("interactive"),
		Prompt:  samplekit.NewPrompter(strings.NewReader(input), &out),
		LogsDir: t.TempDir(),
	}, &out
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		cmd   command
		arg   string
	}{
		{"1", cmdSearch, ""},
		{"search coffee maker", cmdSearch, "coffee maker"},
		{"  CLICK  the cart ", cmdClick, "the cart"},
		{"3", cmdScroll, ""},
		{"goto https://example.com", cmdGoto, "https://example.com"},
		{"5", cmdScreenshot, ""},
		{"custom", cmdCustom, ""},
		{"7", cmdQuit, ""},
		{"quit", cmdQuit, ""},
		{"exit", cmdQuit, ""},
		{"8", cmdInvalid, ""},
		{"", cmdInvalid, ""},
		{"dance", cmdInvalid, ""},
	}
	for _, tt := range tests {
		cmd, arg := parseCommand(tt.input)
		assert.Equal(t, tt.cmd, cmd, tt.input)
		assert.Equal(t, tt.arg, arg, tt.input)
	}
}

func TestActPrompt(t *testing.T) {
	p, err := actPrompt(cmdSearch, "coffee")
	require.NoError(t, err)
	assert.Equal(t, "search for coffee", p)

	p, err = actPrompt(cmdScroll, "DOWN")
	require.NoError(t, err)
	assert.Equal(t, "scroll down", p)

	_, err = actPrompt(cmdScroll, "sideways")
	assert.Error(t, err)

	_, err = actPrompt(cmdClick, "  ")
	assert.ErrorIs(t, err, errEmptyArgument)

	_, err = actPrompt(cmdScreenshot, "x")
	assert.Error(t, err)
}

func TestDefaultYes(t *testing.T) {
	assert.True(t, defaultYes(""))
	assert.True(t, defaultYes("y"))
	assert.False(t, defaultYes("n"))
	assert.False(t, defaultYes(" No "))
}

func TestReplRunsCommandsUntilDeclined(t *testing.T) {
	input := strings.Join([]string{
		"1", "coffee maker", "y",
		"goto https://example.org", "y",
		"5", "y",
		"9", "y",
		"scroll sideways", "n",
	}, "\n") + "\n"
	k, out := testKit(t, input)
	s := newFakeSession()

	require.NoError(t, repl(context.Background(), k, s))

	assert.Equal(t, []string{"search for coffee maker"}, s.prompts)
	assert.Equal(t, "https://example.org", s.page.url)
	require.Len(t, s.page.screenshots, 1)
	assert.Contains(t, s.page.screenshots[0], screenshotName)
	assert.Contains(t, out.String(), `Invalid command: "9"`)
	assert.Contains(t, out.String(), "scroll direction must be up or down")
}

func TestReplStopsOnQuitAndClosedInput(t *testing.T) {
	k, _ := testKit(t, "quit\n")
	s := newFakeSession()
	require.NoError(t, repl(context.Background(), k, s))
	assert.Empty(t, s.prompts)

	k, _ = testKit(t, "")
	require.NoError(t, repl(context.Background(), k, s))
}

func TestReplReportsFailuresAndContinues(t *testing.T) {
	k, out := testKit(t, "custom do the thing\ny\nquit\n")
	s := newFakeSession()
	s.fail["do the thing"] = true

	require.NoError(t, repl(context.Background(), k, s))
	assert.Contains(t, out.String(), "act failed")
}

func TestStepByStep(t *testing.T) {
	// Skip step 2, accept the rest with defaults.
	k, _ := testKit(t, "\n\nn\n\n\n\n")
	s := newFakeSession()

	require.NoError(t, stepByStep(context.Background(), k, s))
	assert.Equal(t, []string{"search for coffee maker", "add to cart", "go to cart"}, s.prompts)
}

func TestStepByStepClosedInputRunsEverything(t *testing.T) {
	k, _ := testKit(t, "")
	s := newFakeSession()
	require.NoError(t, stepByStep(context.Background(), k, s))
	assert.Len(t, s.prompts, len(workflow))
}

func TestStepByStepStopsAfterDeclinedFailure(t *testing.T) {
	k, _ := testKit(t, "\n")
	s := newFakeSession()
	s.fail["search for coffee maker"] = true

	err := stepByStep(context.Background(), k, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workflow stopped at step 1")
	assert.Len(t, s.prompts, 1)
}

func TestDebugSession(t *testing.T) {
	k, out := testKit(t, "\n2\n\n")
	s := newFakeSession()

	require.NoError(t, debugSession(context.Background(), k, s))
	assert.Equal(t, []string{"return the main heading of the page", "scroll down to see more content"}, s.prompts)
	assert.Contains(t, out.String(), "18 chars")
	assert.Contains(t, out.String(), "Example Domain")
}

func TestSelectDemos(t *testing.T) {
	demos := []samplekit.Demo{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	got, err := selectDemos(demos, "2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Name)

	got, err = selectDemos(demos, "4")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = selectDemos(demos, "5")
	assert.Error(t, err)
}
