// Package pool runs independent tasks with bounded parallelism and merges
// their results.
package pool

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Failure records a task that returned an error.
type Failure[I any] struct {
	Index int
	Input I
	Err   error
}

func (f Failure[I]) Error() string {
	return fmt.Sprintf("task %d (%v): %v", f.Index, f.Input, f.Err)
}

func (f Failure[I]) Unwrap() error { return f.Err }

// Option configures Collect.
type Option func(*settings)

type settings struct {
	onDone func(index, count int, err error)
}

// OnDone registers a callback invoked as each task finishes, in completion
// order. count is the number of records the task contributed. Calls are
// serialized.
func OnDone(fn func(index, count int, err error)) Option {
	return func(s *settings) { s.onDone = fn }
}

// Collect runs fn over inputs with at most workers tasks in flight and
// returns the union of the records from tasks that succeeded. Records keep
// each task's own order, but tasks are merged in completion order. A failing
// task never stops the others; its error is reported in the failures, which
// are sorted by input index. Tasks not started before ctx is done fail with
// the context's error.
func Collect[I, R any](ctx context.Context, inputs []I, workers int, fn func(context.Context, I) ([]R, error), opts ...Option) ([]R, []Failure[I]) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}
	if workers <= 0 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		records []R
		errs    = make([]error, len(inputs))
		eg      errgroup.Group
	)
	eg.SetLimit(workers)

	for i, input := range inputs {
		eg.Go(func() error {
			var (
				out []R
				err error
			)
			if err = ctx.Err(); err == nil {
				out, err = run(ctx, input, fn)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[i] = err
				out = nil
			} else {
				records = append(records, out...)
			}
			if cfg.onDone != nil {
				cfg.onDone(i, len(out), err)
			}
			return nil
		})
	}
	_ = eg.Wait()

	var failures []Failure[I]
	for i, err := range errs {
		if err != nil {
			failures = append(failures, Failure[I]{Index: i, Input: inputs[i], Err: err})
		}
	}
	return records, failures
}

func run[I, R any](ctx context.Context, input I, fn func(context.Context, I) ([]R, error)) (out []R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(ctx, input)
}
