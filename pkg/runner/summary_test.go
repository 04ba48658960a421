package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/entrhq/act-samples/pkg/console"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryOf(outcomes ...bool) *Summary {
	s := &Summary{Total: len(outcomes)}
	for i, ok := range outcomes {
		s.add(Result{Name: string(rune('A' + i)), Success: ok, Duration: time.Second})
	}
	return s
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []bool
		want     Verdict
		rate     float64
	}{
		{name: "empty", outcomes: nil, want: VerdictNone, rate: 0},
		{name: "all", outcomes: []bool{true, true}, want: VerdictAll, rate: 1},
		{name: "good", outcomes: []bool{true, true, true, true, false}, want: VerdictGood, rate: 0.8},
		{name: "exactly seventy percent is partial", outcomes: []bool{true, true, true, true, true, true, true, false, false, false}, want: VerdictPartial, rate: 0.7},
		{name: "partial", outcomes: []bool{true, false, false}, want: VerdictPartial, rate: 1.0 / 3},
		{name: "none", outcomes: []bool{false, false}, want: VerdictNone, rate: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := summaryOf(tt.outcomes...)
			assert.Equal(t, tt.want, s.Verdict())
			assert.InDelta(t, tt.rate, s.SuccessRate(), 1e-9)
		})
	}
}

func TestSummaryFailed(t *testing.T) {
	s := summaryOf(true, false, true, false)
	failed := s.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "B", failed[0].Name)
	assert.Equal(t, "D", failed[1].Name)
}

func TestResultStatus(t *testing.T) {
	assert.Equal(t, "passed", Result{Success: true}.Status())
	assert.Equal(t, "missing", Result{Missing: true}.Status())
	assert.Equal(t, "timeout", Result{TimedOut: true}.Status())
	assert.Equal(t, "canceled", Result{Canceled: true}.Status())
	assert.Equal(t, "failed", Result{}.Status())
	assert.Equal(t, "1.5s", Result{Duration: 1500 * time.Millisecond}.DurationText())
}

func TestFeaturePreview(t *testing.T) {
	assert.Equal(t, "", featurePreview(nil))
	assert.Equal(t, "a, b", featurePreview([]string{"a", "b"}))
	assert.Equal(t, "a, b...", featurePreview([]string{"a", "b", "c"}))
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	p := console.New(console.WithWriter(&out))

	s := &Summary{Total: 2, StartTime: time.Now(), EndTime: time.Now()}
	s.add(Result{Name: "Coffee", Success: true, Duration: 2 * time.Second, Difficulty: 1, Features: []string{"x", "y", "z"}})
	s.add(Result{Name: "Books", Missing: true})

	PrintSummary(p, s)

	text := out.String()
	assert.Contains(t, text, "1/2")
	assert.Contains(t, text, "50.0%")
	assert.Contains(t, text, "Duration: 2.0s")
	assert.Contains(t, text, "Duration: N/A")
	assert.Contains(t, text, "Features: x, y...")
	assert.Contains(t, text, "Average results")
}

func TestPrintPlan(t *testing.T) {
	var out bytes.Buffer
	p := console.New(console.WithWriter(&out))

	samples := DefaultManifest().Samples[:2]
	samples[1].Timeout = 0
	PrintPlan(p, samples, false)

	text := out.String()
	assert.Contains(t, text, "Will run 2 samples")
	assert.Contains(t, text, "Coffee Maker Order")
	assert.Contains(t, text, "Timeout: 3m0s")
	assert.Contains(t, text, "Timeout: 2m0s")
	assert.Equal(t, 1, strings.Count(text, "IMPORTANT NOTES"))
	assert.Contains(t, text, "Without -interactive")

	out.Reset()
	PrintPlan(p, samples, true)
	assert.NotContains(t, out.String(), "Without -interactive")
}

func TestArtifactWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	w := NewArtifactWriter(dir)
	assert.Equal(t, dir, w.OutputDir())

	s := &Summary{Total: 2, StartTime: time.Now(), EndTime: time.Now()}
	s.add(Result{Name: "Coffee", Success: true, Duration: time.Second, ExitCode: 0})
	s.add(Result{Name: "Books", ExitCode: 1, Error: "sample 'Books' failed during run: exit status 1", Stderr: "boom"})

	require.NoError(t, w.WriteAll(s))

	data, err := os.ReadFile(filepath.Join(dir, "results.json"))
	require.NoError(t, err)
	var decoded Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.Total)
	assert.Equal(t, 1, decoded.Succeeded)
	require.Len(t, decoded.Results, 2)
	assert.Equal(t, "boom", decoded.Results[1].Stderr)

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "| Coffee | passed | 1.0s | 0 |")
	assert.Contains(t, string(md), "| Books | failed | N/A | 1 |")
	assert.Contains(t, string(md), "## Failures")
	assert.Contains(t, string(md), "boom")
	assert.Contains(t, string(md), "**Verdict:** partial")
}
