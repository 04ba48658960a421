// Package tokenizer counts and trims tokens with tiktoken, falling back to
// a character estimate when the encoding cannot be loaded.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/entrhq/act-samples/pkg/types"
)

// Encoding is the tiktoken encoding used for every count.
const Encoding = "cl100k_base"

// Per-message overhead of the chat format.
const messageOverhead = 3

// Tokenizer counts tokens for prompts and observations.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New loads the encoding. tiktoken may need network access the first time
// it loads an encoding; callers should treat an error as "use Estimate".
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", Encoding, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Estimate approximates a token count at four characters per token.
func Estimate(text string) int {
	return (len(text) + 3) / 4
}

// CountTokens returns the token count of text. A nil Tokenizer estimates.
func (t *Tokenizer) CountTokens(text string) int {
	if t == nil || t.enc == nil {
		return Estimate(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

// CountMessagesTokens returns the token count of a conversation.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		if t == nil || t.enc == nil {
			total += (len(msg.Content) + len(string(msg.Role)) + 12) / 4
			continue
		}
		total += t.CountTokens(msg.Content) + t.CountTokens(string(msg.Role)) + messageOverhead
	}
	return total
}

// Truncate cuts text to at most maxTokens tokens and reports whether it cut
// anything.
func (t *Tokenizer) Truncate(text string, maxTokens int) (string, bool) {
	if maxTokens <= 0 {
		return text, false
	}
	if t == nil || t.enc == nil {
		limit := maxTokens * 4
		if len(text) <= limit {
			return text, false
		}
		return truncateRunes(text, limit), true
	}
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, false
	}
	return t.enc.Decode(tokens[:maxTokens]), true
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}
