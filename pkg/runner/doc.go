// Package runner executes sample programs as subprocesses, one at a time,
// each bounded by its own timeout. Every configured sample yields exactly
// one Result whether it passed, failed, timed out, was canceled or could
// not be found. A Summary aggregates the results and grades the batch.
package runner
