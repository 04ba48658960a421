// Package llm provides abstractions for the model that interprets act
// instructions.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("NOVA_ACT_API_KEY"),
//	    openai.WithModel("gpt-4o"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := provider.Complete(ctx, []*types.Message{
//	    types.NewSystemMessage("Reply with one JSON action."),
//	    types.NewUserMessage("Search for coffee maker"),
//	}, llm.WithJSONMode())
package llm

import (
	"context"

	"github.com/entrhq/act-samples/pkg/types"
)

// Provider defines the interface for chat-completion integrations.
//
// Providers only handle API communication. Conversation state, action
// parsing and browser control live in the act package, which keeps
// providers testable in isolation and lets tests substitute a scripted
// implementation.
type Provider interface {
	// Complete sends messages to the model and returns the full reply.
	Complete(ctx context.Context, messages []*types.Message, opts ...CompletionOption) (*types.Message, error)

	// GetModelInfo returns information about the model being used.
	GetModelInfo() *types.ModelInfo

	// GetModel returns the model name being used.
	GetModel() string

	// GetBaseURL returns the base URL being used for API requests.
	GetBaseURL() string
}

// CompletionOptions tune a single Complete call.
type CompletionOptions struct {
	// JSONMode asks the model to reply with a single JSON object.
	JSONMode bool

	// Temperature overrides the provider default when non-nil.
	Temperature *float64

	// MaxTokens caps the reply length when positive.
	MaxTokens int
}

// CompletionOption configures CompletionOptions.
type CompletionOption func(*CompletionOptions)

// WithJSONMode requests a JSON object reply.
func WithJSONMode() CompletionOption {
	return func(o *CompletionOptions) { o.JSONMode = true }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) CompletionOption {
	return func(o *CompletionOptions) { o.Temperature = &t }
}

// WithMaxTokens caps the reply length.
func WithMaxTokens(n int) CompletionOption {
	return func(o *CompletionOptions) { o.MaxTokens = n }
}

// ApplyOptions folds opts into a CompletionOptions value.
func ApplyOptions(opts ...CompletionOption) CompletionOptions {
	var o CompletionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
