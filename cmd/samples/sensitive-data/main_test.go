package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentials(t *testing.T) {
	env := map[string]string{}
	getenv := func(key string) string { return env[key] }

	username, token, shown := credentials(getenv)
	assert.Equal(t, defaultUsername, username)
	assert.Equal(t, defaultAPIToken, token)
	assert.Equal(t, "Using default token", shown)

	env[envDemoUsername] = "alice"
	env[envDemoAPIToken] = "tok_live_abcdef123456"
	username, token, shown = credentials(getenv)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "tok_live_abcdef123456", token)
	assert.Equal(t, "API Token from env: tok_live...", shown)
	assert.NotContains(t, shown, "123456")
}
