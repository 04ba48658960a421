// Package parser extracts structured content from model replies.
package parser

import (
	"errors"
	"strings"
)

const (
	thinkingOpen  = "<thinking>"
	thinkingClose = "</thinking>"
)

// ErrNoJSON is returned when a reply contains no JSON object or array.
var ErrNoJSON = errors.New("no JSON value found in model reply")

// SplitThinking separates <thinking> sections from the rest of a reply.
// Angle brackets inside thinking content are kept as-is; only the exact
// closing tag ends a section. An unterminated section runs to the end.
func SplitThinking(content string) (thinking, message string) {
	var th, msg strings.Builder
	rest := content
	for rest != "" {
		open := strings.Index(rest, thinkingOpen)
		if open < 0 {
			msg.WriteString(rest)
			break
		}
		msg.WriteString(rest[:open])
		rest = rest[open+len(thinkingOpen):]

		end := strings.Index(rest, thinkingClose)
		if end < 0 {
			th.WriteString(rest)
			break
		}
		th.WriteString(rest[:end])
		rest = rest[end+len(thinkingClose):]
	}
	return strings.TrimSpace(th.String()), strings.TrimSpace(msg.String())
}

// ExtractJSON returns the first complete JSON object or array in a reply,
// ignoring thinking sections, markdown code fences and surrounding prose.
func ExtractJSON(content string) (string, error) {
	_, msg := SplitThinking(content)

	start := strings.IndexAny(msg, "{[")
	for start >= 0 {
		if end := matchClosing(msg[start:]); end > 0 {
			return msg[start : start+end], nil
		}
		next := strings.IndexAny(msg[start+1:], "{[")
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSON
}

// matchClosing returns the length of the balanced value starting at s[0],
// or -1 when it never closes. String literals and escapes are honoured.
func matchClosing(s string) int {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
