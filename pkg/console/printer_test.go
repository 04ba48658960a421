package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPrinter(level Level) (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(WithWriter(&buf), WithLevel(level)), &buf
}

func TestPrinterLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		want    []string
		wantNot []string
	}{
		{
			name:    "quiet shows only problems",
			level:   LevelQuiet,
			want:    []string{"⚠ careful", "✗ broken"},
			wantNot: []string{"✓ done", "hello", "→ detail", "[DEBUG]"},
		},
		{
			name:    "normal hides verbose",
			level:   LevelNormal,
			want:    []string{"✓ done", "hello", "⚠ careful", "✗ broken"},
			wantNot: []string{"→ detail", "[DEBUG]"},
		},
		{
			name:  "debug shows everything",
			level: LevelDebug,
			want:  []string{"✓ done", "hello", "→ detail", "[DEBUG] internals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newTestPrinter(tt.level)
			p.Successf("done")
			p.Infof("hello")
			p.Warningf("careful")
			p.Errorf("broken")
			p.Verbosef("detail")
			p.Debugf("internals")

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.wantNot {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestPrinterSteps(t *testing.T) {
	p, buf := newTestPrinter(LevelNormal)
	p.Step("open page")
	p.Step("search for %s", "coffee maker")

	out := buf.String()
	assert.Contains(t, out, "[1] open page")
	assert.Contains(t, out, "[2] search for coffee maker")
}

func TestPrinterHeaderAndSection(t *testing.T) {
	p, buf := newTestPrinter(LevelNormal)
	p.Header("Sample Runner")
	p.Section("Results")
	p.KeyValue("Total", 8)

	out := buf.String()
	assert.Contains(t, out, "Sample Runner")
	assert.Contains(t, out, strings.Repeat("=", ruleWidth))
	assert.Contains(t, out, "▶ Results")
	assert.Contains(t, out, "Total:")
	assert.Contains(t, out, "8")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelQuiet, ParseLevel("quiet"))
	assert.Equal(t, LevelVerbose, ParseLevel("VERBOSE"))
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelNormal, ParseLevel("whatever"))
}
