package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables read by the samples.
const (
	EnvAPIKey      = "NOVA_ACT_API_KEY"
	EnvLogLevel    = "NOVA_ACT_LOG_LEVEL"
	EnvBrowserArgs = "NOVA_ACT_BROWSER_ARGS"
	EnvModel       = "NOVA_ACT_MODEL"
	EnvBaseURL     = "NOVA_ACT_BASE_URL"
	EnvLogsDir     = "NOVA_ACT_LOGS_DIR"
)

// APIKeyURL is where users obtain a credential.
const APIKeyURL = "https://nova.amazon.com/act"

// Env holds the process configuration taken from environment variables.
type Env struct {
	APIKey      string
	LogLevel    string
	BrowserArgs []string
	Model       string
	BaseURL     string
	LogsDir     string
}

// Getenv matches os.Getenv so callers and tests can substitute a lookup.
type Getenv func(string) string

// LoadEnv reads the configuration through getenv, defaulting to os.Getenv.
func LoadEnv(getenv Getenv) Env {
	if getenv == nil {
		getenv = os.Getenv
	}
	return Env{
		APIKey:      strings.TrimSpace(getenv(EnvAPIKey)),
		LogLevel:    getenv(EnvLogLevel),
		BrowserArgs: strings.Fields(getenv(EnvBrowserArgs)),
		Model:       getenv(EnvModel),
		BaseURL:     getenv(EnvBaseURL),
		LogsDir:     getenv(EnvLogsDir),
	}
}

// HasAPIKey reports whether the credential is present.
func (e Env) HasAPIKey() bool {
	return e.APIKey != ""
}

// MaskedAPIKey shows the first eight characters of the key only.
func (e Env) MaskedAPIKey() string {
	return MaskSecret(e.APIKey, 8)
}

// MaskSecret keeps the first keep characters of s and elides the rest.
func MaskSecret(s string, keep int) string {
	if s == "" {
		return ""
	}
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return s[:keep] + "..."
}

// SetupMessage explains how to provide the credential.
func SetupMessage() string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ Missing %s environment variable\n", EnvAPIKey)
	fmt.Fprintf(&b, "   Set it with: export %s=\"your_api_key_here\"\n", EnvAPIKey)
	fmt.Fprintf(&b, "   Get an API key at: %s\n", APIKeyURL)
	return b.String()
}
