package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/entrhq/act-samples/pkg/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(opts ...Option) (*Runner, *[]time.Duration) {
	var rests []time.Duration
	r := New(CommandLauncher{}, append([]Option{WithTeardownDelay(time.Second)}, opts...)...)
	r.sleep = func(_ context.Context, d time.Duration) error {
		rests = append(rests, d)
		return nil
	}
	return r, &rests
}

func TestRunOne(t *testing.T) {
	r, _ := newTestRunner()

	t.Run("success captures stdout", func(t *testing.T) {
		result := r.RunOne(context.Background(), Sample{Path: "echo hello", Name: "echo", Timeout: 5 * time.Second})
		assert.True(t, result.Success)
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, "hello\n", result.Stdout)
		assert.Positive(t, result.Duration)
		assert.NoError(t, result.Err)
	})

	t.Run("non-zero exit fails", func(t *testing.T) {
		result := r.RunOne(context.Background(), Sample{Path: "false", Name: "false", Timeout: 5 * time.Second})
		assert.False(t, result.Success)
		assert.Equal(t, 1, result.ExitCode)
		assert.False(t, result.TimedOut)

		var sampleErr *SampleError
		require.ErrorAs(t, result.Err, &sampleErr)
		assert.Equal(t, "run", sampleErr.Stage)
		assert.Equal(t, "false", sampleErr.Sample)
		assert.Equal(t, result.Err.Error(), result.Error)
	})

	t.Run("stderr surfaced", func(t *testing.T) {
		result := r.RunOne(context.Background(), Sample{Path: "ls /nonexistent-act-samples-dir", Name: "ls", Timeout: 5 * time.Second})
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Stderr)
	})

	t.Run("missing program", func(t *testing.T) {
		result := r.RunOne(context.Background(), Sample{Path: "act-samples-no-such-binary", Name: "missing", Timeout: time.Second})
		assert.False(t, result.Success)
		assert.True(t, result.Missing)
		assert.Zero(t, result.Duration)
		assert.ErrorIs(t, result.Err, ErrSampleMissing)
		assert.Equal(t, "N/A", result.DurationText())
	})
}

func TestRunOneTimeout(t *testing.T) {
	r, _ := newTestRunner()

	start := time.Now()
	result := r.RunOne(context.Background(), Sample{Path: "sleep 10", Name: "slow", Timeout: 200 * time.Millisecond})
	elapsed := time.Since(start)

	assert.False(t, result.Success)
	assert.True(t, result.TimedOut)
	assert.Less(t, elapsed, 200*time.Millisecond+time.Second+time.Second)
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
	assert.Equal(t, "timeout", result.Status())
}

func TestRunAll(t *testing.T) {
	var out bytes.Buffer
	r, rests := newTestRunner(
		WithPrinter(console.New(console.WithWriter(&out))),
		WithRestDelay(3*time.Second),
	)

	samples := []Sample{
		{Path: "echo one", Name: "One", Timeout: 5 * time.Second, Difficulty: 1, Features: []string{"a", "b", "c"}},
		{Path: "false", Name: "Two", Timeout: 5 * time.Second},
		{Path: "act-samples-no-such-binary", Name: "Three", Timeout: 5 * time.Second},
		{Path: "echo four", Name: "Four", Timeout: 5 * time.Second},
	}

	summary := r.RunAll(context.Background(), samples)

	require.Len(t, summary.Results, len(samples))
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	for i, s := range samples {
		assert.Equal(t, s.Name, summary.Results[i].Name)
	}
	assert.True(t, summary.Results[2].Missing)
	assert.Equal(t, []string{"a", "b", "c"}, summary.Results[0].Features)

	// Rest after One and Two; none after the missing sample or the last.
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, *rests)

	assert.False(t, summary.EndTime.Before(summary.StartTime))
	assert.Contains(t, out.String(), "Progress: 1/4")
	assert.Contains(t, out.String(), "One successful!")
	assert.Contains(t, out.String(), "Two failed:")
	assert.Contains(t, out.String(), "File not found: act-samples-no-such-binary")
}

func TestRunAllTimeoutKillsProcessGroup(t *testing.T) {
	script := filepath.Join(t.TempDir(), "hang.sh")
	// The backgrounded sleep inherits stdout and outlives its parent
	// unless the whole group is killed.
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nsleep 30 &\nsleep 30\n"), 0o755))

	var out bytes.Buffer
	teardown := 500 * time.Millisecond
	r, _ := newTestRunner(
		WithPrinter(console.New(console.WithWriter(&out))),
		WithTeardownDelay(teardown),
	)

	timeout := 300 * time.Millisecond
	samples := []Sample{
		{Path: script, Name: "Hang", Timeout: timeout},
		{Path: "echo after", Name: "After", Timeout: 5 * time.Second},
	}

	start := time.Now()
	summary := r.RunAll(context.Background(), samples)
	elapsed := time.Since(start)

	require.Len(t, summary.Results, 2)
	assert.True(t, summary.Results[0].TimedOut)
	assert.False(t, summary.Results[0].Success)
	assert.Less(t, summary.Results[0].Duration, timeout+teardown+time.Second)
	assert.Less(t, elapsed, timeout+teardown+2*time.Second)

	assert.True(t, summary.Results[1].Success)
	assert.Equal(t, "after\n", summary.Results[1].Stdout)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Contains(t, out.String(), "Hang timeout (>300ms)")
}

func TestRunAllReportsDefaultTimeout(t *testing.T) {
	var out bytes.Buffer
	r, _ := newTestRunner(WithPrinter(console.New(console.WithWriter(&out))))

	summary := r.RunAll(context.Background(), []Sample{{Path: "echo ok", Name: "Unset"}})

	require.Len(t, summary.Results, 1)
	assert.True(t, summary.Results[0].Success)
	assert.Contains(t, out.String(), "Timeout: 2m0s")
	assert.NotContains(t, out.String(), "Timeout: 0s")
}

func TestRunAllCanceled(t *testing.T) {
	r, rests := newTestRunner()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	samples := []Sample{
		{Path: "echo one", Name: "One", Timeout: time.Second},
		{Path: "echo two", Name: "Two", Timeout: time.Second},
	}
	summary := r.RunAll(ctx, samples)

	require.Len(t, summary.Results, 2)
	for _, result := range summary.Results {
		assert.False(t, result.Success)
		assert.True(t, result.Canceled)
		assert.True(t, errors.Is(result.Err, context.Canceled))
	}
	assert.Empty(t, *rests)
}

func TestSampleError(t *testing.T) {
	cause := errors.New("exit status 2")
	err := &SampleError{Sample: "Coffee", Stage: "run", Err: cause}

	assert.Equal(t, "sample 'Coffee' failed during run: exit status 2", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestRunOneAppendsArgs(t *testing.T) {
	r, _ := newTestRunner()
	result := r.RunOne(context.Background(), Sample{Path: "echo base", Args: []string{"-headless"}, Timeout: 5 * time.Second})
	require.True(t, result.Success)
	assert.Equal(t, "base -headless\n", result.Stdout)
}
