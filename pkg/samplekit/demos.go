package samplekit

import (
	"context"
	"fmt"
	"time"
)

// Demo is one named part of a sample.
type Demo struct {
	Name string
	Run  func(ctx context.Context) error
}

// DemoResult is the outcome of a Demo.
type DemoResult struct {
	Name     string
	Err      error
	Duration time.Duration
}

// RunDemos runs demos in order. A failing or panicking demo is reported
// and the next one still runs; once ctx is canceled the rest are skipped
// with the context's error.
func (k *Kit) RunDemos(ctx context.Context, demos ...Demo) []DemoResult {
	results := make([]DemoResult, 0, len(demos))
	for i, d := range demos {
		if err := ctx.Err(); err != nil {
			results = append(results, DemoResult{Name: d.Name, Err: err})
			continue
		}

		k.Printer.Section(fmt.Sprintf("Demo %d/%d: %s", i+1, len(demos), d.Name))
		start := time.Now()
		err := runDemo(ctx, d)
		res := DemoResult{Name: d.Name, Err: err, Duration: time.Since(start)}
		results = append(results, res)

		if err != nil {
			k.Report(fmt.Errorf("%s: %w", d.Name, err))
			continue
		}
		k.Printer.Successf("%s completed in %s", d.Name, res.Duration.Round(time.Millisecond))
	}
	return results
}

func runDemo(ctx context.Context, d Demo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.Run(ctx)
}

// Failed counts the demos that returned an error.
func Failed(results []DemoResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
