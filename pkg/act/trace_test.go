package act

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActWritesTrace(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		`{"action": "click", "selector": "#search"}`,
		`{"action": "return", "response": "found it"}`,
	}}
	c := startedClient(t, provider, newFakePage("<p>coffee</p>"))

	result, err := c.Act(context.Background(), "search for <coffee>")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(c.LogsDirectory(), "act_"+result.Metadata.ActID+".html"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "search for &lt;coffee&gt;")
	assert.Contains(t, text, "click #search")
	assert.Contains(t, text, "complete")
}

func TestFailedActWritesTrace(t *testing.T) {
	page := newFakePage("<p>x</p>")
	page.clickErr = assert.AnError
	provider := &scriptedProvider{replies: []string{`{"action": "click", "selector": "#missing"}`}}
	c := startedClient(t, provider, page)

	_, err := c.Act(context.Background(), "click the missing button")
	require.Error(t, err)

	matches, err := filepath.Glob(filepath.Join(c.LogsDirectory(), "act_*.html"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), string(KindActionFailed))
	assert.Contains(t, string(data), `class="failed"`)
}
