// Package main checks that the machine can run the samples: Go version,
// Playwright driver and API key.
package main

import (
	"os"

	"github.com/entrhq/act-samples/pkg/setup"
)

func main() {
	report := setup.New().Run()
	if !report.Go.OK || !report.Driver.OK {
		os.Exit(1)
	}
}
