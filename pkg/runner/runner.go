package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/entrhq/act-samples/pkg/console"
	"github.com/entrhq/act-samples/pkg/logging"
)

// Result is the outcome of one sample run.
type Result struct {
	Name       string        `json:"name"`
	Path       string        `json:"path"`
	Success    bool          `json:"success"`
	Duration   time.Duration `json:"duration"`
	Difficulty int           `json:"difficulty"`
	Features   []string      `json:"features,omitempty"`
	ExitCode   int           `json:"exit_code"`
	TimedOut   bool          `json:"timed_out,omitempty"`
	Missing    bool          `json:"missing,omitempty"`
	Canceled   bool          `json:"canceled,omitempty"`
	Stdout     string        `json:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty"`
	Error      string        `json:"error,omitempty"`

	// Err is the failure, if any. It is a *SampleError unless the sample
	// was never started.
	Err error `json:"-"`
}

// SampleError describes a sample that failed to build or run.
type SampleError struct {
	Sample string
	Stage  string
	Output string
	Err    error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample '%s' failed during %s: %v", e.Sample, e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *SampleError) Unwrap() error {
	return e.Err
}

// Runner executes samples one after another as subprocesses.
type Runner struct {
	launcher      Launcher
	printer       *console.Printer
	logger        *logging.Logger
	stdin         io.Reader
	restDelay     time.Duration
	teardownDelay time.Duration
	sleep         func(ctx context.Context, d time.Duration) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithPrinter sets the console printer.
func WithPrinter(p *console.Printer) Option {
	return func(r *Runner) { r.printer = p }
}

// WithLogger sets the file logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithStdin connects samples to a reader, typically os.Stdin for
// interactive runs. Samples get an empty stdin by default.
func WithStdin(in io.Reader) Option {
	return func(r *Runner) { r.stdin = in }
}

// WithRestDelay sets the pause between samples.
func WithRestDelay(d time.Duration) Option {
	return func(r *Runner) { r.restDelay = d }
}

// WithTeardownDelay bounds how long a killed sample may take to exit.
func WithTeardownDelay(d time.Duration) Option {
	return func(r *Runner) { r.teardownDelay = d }
}

// New creates a runner.
func New(launcher Launcher, opts ...Option) *Runner {
	r := &Runner{
		launcher:      launcher,
		restDelay:     DefaultRestDelay,
		teardownDelay: DefaultTeardownDelay,
		sleep:         sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.printer == nil {
		r.printer = console.New(console.WithWriter(io.Discard))
	}
	if r.logger == nil {
		r.logger = logging.Discard("runner")
	}
	return r
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newResult(s Sample) Result {
	return Result{
		Name:       s.Name,
		Path:       s.Path,
		Difficulty: s.Difficulty,
		Features:   s.Features,
		ExitCode:   -1,
	}
}

// RunOne runs a single sample with its timeout. Failures are reported in
// the Result, never as a panic or a skipped entry.
func (r *Runner) RunOne(ctx context.Context, s Sample) Result {
	result := newResult(s)

	program, args, err := r.launcher.Resolve(ctx, s)
	if err != nil {
		result.Err = err
		result.Error = err.Error()
		if errors.Is(err, ErrSampleMissing) {
			result.Missing = true
		}
		result.Canceled = ctx.Err() != nil
		r.logger.Warnf("Sample %s not started: %v", s.Name, err)
		return result
	}

	args = append(args, s.Args...)

	timeout := s.EffectiveTimeout()
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(execCtx, program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = r.stdin
	cmd.WaitDelay = r.teardownDelay
	configureProcess(cmd, r.stdin == nil)

	r.logger.Infof("Running sample %s: %s %s", s.Name, program, strings.Join(args, " "))
	start := time.Now()
	runErr := cmd.Run()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case ctx.Err() != nil:
		result.Canceled = true
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
	}

	// A sample that exited cleanly but left a child holding its output
	// pipes is still a success.
	if runErr == nil || (errors.Is(runErr, exec.ErrWaitDelay) && result.ExitCode == 0 && !result.TimedOut) {
		result.Success = !result.Canceled
	}

	if !result.Success {
		cause := runErr
		switch {
		case result.TimedOut:
			cause = fmt.Errorf("timeout after %s: %w", timeout, context.DeadlineExceeded)
		case result.Canceled:
			cause = ctx.Err()
		case cause == nil:
			cause = errors.New("sample did not complete")
		}
		result.Err = &SampleError{
			Sample: s.Name,
			Stage:  "run",
			Output: result.Stderr,
			Err:    cause,
		}
		result.Error = result.Err.Error()
		r.logger.Warnf("Sample %s failed after %s: %v", s.Name, result.Duration.Round(time.Millisecond), cause)
	} else {
		r.logger.Infof("Sample %s succeeded in %s", s.Name, result.Duration.Round(time.Millisecond))
	}

	return result
}

// RunAll runs the samples in order and returns a summary with exactly one
// result per sample. Once ctx is canceled the remaining samples are
// recorded as canceled without running.
func (r *Runner) RunAll(ctx context.Context, samples []Sample) *Summary {
	summary := &Summary{
		StartTime: time.Now(),
		Total:     len(samples),
		Results:   make([]Result, 0, len(samples)),
	}

	for i, s := range samples {
		if err := ctx.Err(); err != nil {
			result := newResult(s)
			result.Canceled = true
			result.Err = err
			result.Error = err.Error()
			summary.add(result)
			continue
		}

		r.printer.Plain("\n📊 Progress: %d/%d", i+1, len(samples))
		result := r.runAndReport(ctx, s)
		summary.add(result)

		if i < len(samples)-1 && !result.Missing && ctx.Err() == nil {
			r.printer.Infof("⏸️ Resting %s before next sample...", r.restDelay)
			_ = r.sleep(ctx, r.restDelay)
		}
	}

	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
	r.logger.Infof("Batch finished: %d/%d samples succeeded in %s",
		summary.Succeeded, summary.Total, summary.Duration.Round(time.Second))
	return summary
}

func (r *Runner) runAndReport(ctx context.Context, s Sample) Result {
	p := r.printer
	p.Rule()
	p.Plain("🚀 Running %s", s.Name)
	p.Rule()
	p.Infof("⏱️ Timeout: %s", s.EffectiveTimeout())

	result := r.RunOne(ctx, s)

	switch {
	case result.Missing:
		p.Errorf("File not found: %s", s.Path)
	case result.Success:
		if out := strings.TrimSpace(result.Stdout); out != "" {
			p.Plain("%s", out)
		}
		p.Successf("%s successful!", s.Name)
	case result.TimedOut:
		p.Warningf("⏰ %s timeout (>%s)", s.Name, s.EffectiveTimeout())
		p.Tipf("This sample may need more time")
	case result.Canceled:
		p.Warningf("%s canceled", s.Name)
	default:
		p.Errorf("%s failed:", s.Name)
		if out := strings.TrimSpace(result.Stderr); out != "" {
			p.Plain("%s", out)
		} else if result.Error != "" {
			p.Plain("%s", result.Error)
		}
	}
	return result
}
