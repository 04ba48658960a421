package tokenizer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/entrhq/act-samples/pkg/types"
)

func TestNilTokenizerEstimates(t *testing.T) {
	var tok *Tokenizer

	assert.Equal(t, 0, tok.CountTokens(""))
	assert.Equal(t, 5, tok.CountTokens("search for coffee"))

	msgs := []*types.Message{types.NewUserMessage("Hello"), types.NewAssistantMessage("Hi there!")}
	assert.Greater(t, tok.CountMessagesTokens(msgs), 0)
}

func TestNilTokenizerTruncate(t *testing.T) {
	var tok *Tokenizer

	out, cut := tok.Truncate("short", 10)
	assert.False(t, cut)
	assert.Equal(t, "short", out)

	long := strings.Repeat("a", 100)
	out, cut = tok.Truncate(long, 5)
	assert.True(t, cut)
	assert.Len(t, out, 20)

	out, cut = tok.Truncate(long, 0)
	assert.False(t, cut)
	assert.Equal(t, long, out)
}

func TestTruncateRunes(t *testing.T) {
	s := "héllo wörld"
	for n := 0; n <= len(s); n++ {
		out := truncateRunes(s, n)
		assert.True(t, utf8.ValidString(out), "n=%d", n)
		assert.LessOrEqual(t, len(out), n)
	}
	assert.Equal(t, s, truncateRunes(s, len(s)))
}

func TestTokenizerCounts(t *testing.T) {
	tok, err := New()
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}

	n := tok.CountTokens("Return the books in the Fiction list")
	assert.Greater(t, n, 0)
	assert.Less(t, n, 20)

	text := strings.Repeat("coffee maker ", 200)
	out, cut := tok.Truncate(text, 50)
	assert.True(t, cut)
	assert.LessOrEqual(t, tok.CountTokens(out), 51)
}
