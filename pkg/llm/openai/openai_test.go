package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entrhq/act-samples/pkg/llm"
	"github.com/entrhq/act-samples/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewProvider("")
	assert.Error(t, err)
}

func TestNewProviderDefaults(t *testing.T) {
	t.Setenv("OPENAI_BASE_URL", "")
	p, err := NewProvider("key", WithModel(""), WithBaseURL(""))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, p.GetModel())
	assert.Equal(t, DefaultBaseURL, p.GetBaseURL())
	assert.Equal(t, "openai", p.GetModelInfo().Provider)
	assert.NotContains(t, p.GetModelInfo().Metadata, "base_url")
}

func TestNewProviderEnvBaseURL(t *testing.T) {
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1/")
	p, err := NewProvider("key")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1", p.GetBaseURL())
	assert.Equal(t, "http://localhost:8080/v1", p.GetModelInfo().Metadata["base_url"])
}

func TestComplete(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"action\":\"return\"}"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	p, err := NewProvider("secret", WithBaseURL(server.URL), WithModel("test-model"))
	require.NoError(t, err)

	reply, err := p.Complete(context.Background(), []*types.Message{
		types.NewSystemMessage("be brief"),
		types.NewUserMessage("go"),
		types.NewAssistantMessage("ok"),
	}, llm.WithJSONMode(), llm.WithTemperature(0), llm.WithMaxTokens(200))
	require.NoError(t, err)

	assert.Equal(t, types.RoleAssistant, reply.Role)
	assert.Equal(t, `{"action":"return"}`, reply.Content)

	assert.Equal(t, "test-model", captured["model"])
	assert.Equal(t, map[string]interface{}{"type": "json_object"}, captured["response_format"])
	assert.Equal(t, float64(0), captured["temperature"])
	assert.Equal(t, float64(200), captured["max_tokens"])

	msgs, ok := captured["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, "user", msgs[1].(map[string]interface{})["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]interface{})["role"])
}

func TestCompleteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p, err := NewProvider("secret", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), []*types.Message{types.NewUserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	p, err := NewProvider("secret", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), []*types.Message{types.NewUserMessage("hi")})
	assert.ErrorContains(t, err, "no choices")
}
