package act

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    ActionType
		wantErr string
	}{
		{name: "click", reply: `{"action":"click","selector":"#buy"}`, want: ActionClick},
		{name: "case insensitive", reply: `{"action":" Navigate ","url":"https://example.com"}`, want: ActionNavigate},
		{name: "fenced", reply: "```json\n{\"action\":\"press\",\"key\":\"Enter\"}\n```", want: ActionPress},
		{name: "scroll default direction", reply: `{"action":"scroll"}`, want: ActionScroll},
		{name: "return string", reply: `{"action":"return","response":"done"}`, want: ActionReturn},
		{name: "click without selector", reply: `{"action":"click"}`, wantErr: "selector"},
		{name: "type without selector", reply: `{"action":"type","text":"x"}`, wantErr: "selector"},
		{name: "navigate without url", reply: `{"action":"navigate"}`, wantErr: "url"},
		{name: "bad scroll", reply: `{"action":"scroll","direction":"left"}`, wantErr: "direction"},
		{name: "unknown", reply: `{"action":"teleport"}`, wantErr: "unknown action"},
		{name: "missing action", reply: `{"selector":"#a"}`, wantErr: "no \"action\""},
		{name: "prose", reply: `I will click it`, wantErr: "no JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAction(tt.reply)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Type)
		})
	}
}

func TestActionDefaults(t *testing.T) {
	a, err := parseAction(`{"action":"wait"}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, a.Seconds)

	a, err = parseAction(`{"action":"scroll"}`)
	require.NoError(t, err)
	assert.Equal(t, "down", a.Direction)
}

func TestResponseText(t *testing.T) {
	a, err := parseAction(`{"action":"return","response":"Mozilla/5.0 \"quoted\""}`)
	require.NoError(t, err)
	assert.Equal(t, `Mozilla/5.0 "quoted"`, a.responseText())

	a, err = parseAction(`{"action":"return","response":{"books":[]}}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"books":[]}`, a.responseText())

	a, err = parseAction(`{"action":"return"}`)
	require.NoError(t, err)
	assert.Equal(t, "", a.responseText())
}
