package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ArtifactWriter writes batch results to disk.
type ArtifactWriter struct {
	outputDir string
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
	}
}

// OutputDir returns the directory artifacts are written to.
func (w *ArtifactWriter) OutputDir() string {
	return w.outputDir
}

// WriteAll writes results.json and summary.md.
func (w *ArtifactWriter) WriteAll(summary *Summary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteResultsJSON(summary); err != nil {
		return fmt.Errorf("failed to write results JSON: %w", err)
	}

	if err := w.WriteSummaryMarkdown(summary); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}

	return nil
}

// WriteResultsJSON writes the full summary as JSON
func (w *ArtifactWriter) WriteResultsJSON(summary *Summary) error {
	path := filepath.Join(w.outputDir, "results.json")

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write results JSON: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *Summary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Sample Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration.Round(time.Second)))
	md.WriteString(fmt.Sprintf("**Successful:** %d/%d (%.1f%%)\n\n",
		summary.Succeeded, summary.Total, summary.SuccessRate()*100))
	md.WriteString(fmt.Sprintf("**Verdict:** %s\n\n", summary.Verdict()))

	md.WriteString("## Results\n\n")
	md.WriteString("| Sample | Status | Duration | Exit code |\n")
	md.WriteString("|---|---|---|---|\n")
	for _, r := range summary.Results {
		md.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n", r.Name, r.Status(), r.DurationText(), r.ExitCode))
	}

	if failed := summary.Failed(); len(failed) > 0 {
		md.WriteString("\n## Failures\n\n")
		for _, r := range failed {
			md.WriteString(fmt.Sprintf("### %s\n\n", r.Name))
			if r.Error != "" {
				md.WriteString(fmt.Sprintf("%s\n\n", r.Error))
			}
			if stderr := strings.TrimSpace(r.Stderr); stderr != "" {
				md.WriteString("```\n")
				md.WriteString(stderr)
				md.WriteString("\n```\n\n")
			}
		}
	}

	if err := os.WriteFile(path, []byte(md.String()), 0600); err != nil {
		return fmt.Errorf("failed to write summary markdown: %w", err)
	}

	return nil
}
