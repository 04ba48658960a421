package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/act-samples/pkg/console"
)

// Verdict grades a batch by its success rate.
type Verdict string

const (
	VerdictAll     Verdict = "all"
	VerdictGood    Verdict = "good"
	VerdictPartial Verdict = "partial"
	VerdictNone    Verdict = "none"
)

// goodThreshold is the success rate above which a batch counts as good.
const goodThreshold = 0.7

// Summary aggregates the results of a batch run.
type Summary struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Results   []Result      `json:"results"`
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	if r.Success {
		s.Succeeded++
	}
}

// SuccessRate returns the fraction of samples that succeeded, 0 for an
// empty batch.
func (s *Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total)
}

// Verdict grades the batch. An empty batch has no successes and grades as
// VerdictNone.
func (s *Summary) Verdict() Verdict {
	switch {
	case s.Total > 0 && s.Succeeded == s.Total:
		return VerdictAll
	case s.SuccessRate() > goodThreshold:
		return VerdictGood
	case s.Succeeded > 0:
		return VerdictPartial
	default:
		return VerdictNone
	}
}

// Failed returns the results that did not succeed.
func (s *Summary) Failed() []Result {
	var failed []Result
	for _, r := range s.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// Status returns a one-word status for a result.
func (r Result) Status() string {
	switch {
	case r.Success:
		return "passed"
	case r.Missing:
		return "missing"
	case r.TimedOut:
		return "timeout"
	case r.Canceled:
		return "canceled"
	default:
		return "failed"
	}
}

// DurationText renders the duration, "N/A" for a sample that never ran.
func (r Result) DurationText() string {
	if r.Duration <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1fs", r.Duration.Seconds())
}

func featurePreview(features []string) string {
	if len(features) <= 2 {
		return strings.Join(features, ", ")
	}
	return strings.Join(features[:2], ", ") + "..."
}

// PrintPlan lists the samples about to run. Without interactive the
// samples get closed input, which the notes point out.
func PrintPlan(p *console.Printer, samples []Sample, interactive bool) {
	p.Plain("\n📋 Will run %d samples:", len(samples))
	for i, s := range samples {
		p.Plain("\n   %d. %s %s", i+1, s.Name, s.Stars())
		p.Plain("      📝 %s", s.Description)
		p.Plain("      ⏱️ Timeout: %s", s.EffectiveTimeout())
		p.Plain("      🔧 Features: %s", strings.Join(s.Features, ", "))
		if s.Interactive {
			p.Plain("      🙋 Needs user interaction")
		}
	}

	p.Section("⚠️ IMPORTANT NOTES")
	p.Itemf("Some samples need user interaction (authentication, sensitive data, interactive mode)")
	if !interactive {
		p.Itemf("Without -interactive those samples see closed input and skip their prompts")
	}
	p.Itemf("Samples use real websites and may take time")
	p.Itemf("Results may vary depending on when you run them")
}

// PrintSummary prints the batch statistics, per-sample results and verdict.
func PrintSummary(p *console.Printer, s *Summary) {
	p.Rule()
	p.Plain("📊 SAMPLES SUMMARY RESULTS")
	p.Rule()
	p.KeyValue("Start time", s.StartTime.Format("15:04:05"))
	p.KeyValue("End time", s.EndTime.Format("15:04:05"))
	p.KeyValue("Total time", fmt.Sprintf("%.1f minutes", s.Duration.Minutes()))
	p.KeyValue("Successful", fmt.Sprintf("%d/%d", s.Succeeded, s.Total))
	p.KeyValue("Success rate", fmt.Sprintf("%.1f%%", s.SuccessRate()*100))

	p.Section("Detailed results")
	for _, r := range s.Results {
		status := "✅"
		if !r.Success {
			status = "❌"
		}
		p.Plain("%s %s %s", status, r.Name, strings.Repeat("⭐", r.Difficulty))
		p.Plain("   ⏱️ Duration: %s", r.DurationText())
		p.Plain("   🔧 Features: %s", featurePreview(r.Features))
	}

	p.Newline()
	switch s.Verdict() {
	case VerdictAll:
		p.Successf("🎉 All samples ran successfully!")
		p.Infof("🏆 Every feature works end to end")
	case VerdictGood:
		p.Successf("🎯 Good results! %d/%d samples successful", s.Succeeded, s.Total)
		p.Tipf("Some samples may need adjustments or user interaction")
	case VerdictPartial:
		p.Warningf("Average results: %d/%d samples successful", s.Succeeded, s.Total)
		p.Infof("🔍 Check logs to understand failure reasons")
	default:
		p.Errorf("All samples failed")
		p.Infof("🔍 Check internet connection, API key and environment")
	}

	p.Section("Suggestions")
	p.Itemf("Run individual samples for detailed debugging")
	p.Itemf("Some samples need user interaction")
	p.Itemf("Use -headless=false to watch the browser directly")
	p.Itemf("Check the logs written by each sample")
}
