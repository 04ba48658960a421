package samplekit

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterLine(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  hello world \nlast"), &out)

	line, err := p.Line("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", line)
	assert.Equal(t, "Name: ", out.String())

	line, err = p.Line("Again: ")
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = p.Line("More: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)
			got, err := p.Confirm("Run all 8 samples?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Run all 8 samples? (y/N): ", out.String())
		})
	}
}

func TestPrompterPasswordWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("s3cret\n"), &out)

	secret, err := p.Password("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)
	assert.NotContains(t, out.String(), "s3cret")
}

func TestPrompterPauseOnClosedInput(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(""), &out)
	p.Pause("Press Enter to continue...")
	assert.Equal(t, "Press Enter to continue...", out.String())
}
