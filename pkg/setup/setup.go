// Package setup checks that the machine can run the samples: a recent Go
// toolchain, the Playwright driver with Chromium, and an API key.
package setup

import (
	"fmt"
	"go/version"
	"os/exec"
	"strings"

	"github.com/entrhq/act-samples/pkg/browser"
	"github.com/entrhq/act-samples/pkg/config"
	"github.com/entrhq/act-samples/pkg/console"
	"github.com/entrhq/act-samples/pkg/runner"
)

// MinGoVersion is the oldest toolchain the module builds with, matching the
// go directive in go.mod.
const MinGoVersion = "go1.25.1"

// Status is the outcome of one check.
type Status struct {
	Name   string
	OK     bool
	Detail string
}

// Report collects the checks performed by Run. Checks after a failed
// prerequisite are left zero.
type Report struct {
	Go     Status
	Driver Status
	APIKey Status
}

// Ready reports whether samples can run.
func (r Report) Ready() bool {
	return r.Go.OK && r.Driver.OK && r.APIKey.OK
}

// Checker performs the setup checks.
type Checker struct {
	printer   *console.Printer
	getenv    config.Getenv
	goVersion func() (string, error)
	install   func() error
	samples   []runner.Sample
}

// Option configures a Checker.
type Option func(*Checker)

// WithPrinter sets the console printer.
func WithPrinter(p *console.Printer) Option {
	return func(c *Checker) { c.printer = p }
}

// WithGetenv substitutes the environment lookup.
func WithGetenv(getenv config.Getenv) Option {
	return func(c *Checker) { c.getenv = getenv }
}

// WithGoVersion fixes the toolchain version instead of asking the go
// command on PATH.
func WithGoVersion(v string) Option {
	return func(c *Checker) {
		c.goVersion = func() (string, error) { return v, nil }
	}
}

// pathGoVersion asks the go command on PATH, which is the toolchain that
// builds the samples.
func pathGoVersion() (string, error) {
	goBin, err := exec.LookPath("go")
	if err != nil {
		return "", fmt.Errorf("go command not found on PATH")
	}
	out, err := exec.Command(goBin, "env", "GOVERSION").Output()
	if err != nil {
		return "", fmt.Errorf("go env GOVERSION failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// WithInstaller replaces the driver installation step.
func WithInstaller(install func() error) Option {
	return func(c *Checker) { c.install = install }
}

// WithSamples sets the samples listed at the end of a run.
func WithSamples(samples []runner.Sample) Option {
	return func(c *Checker) { c.samples = samples }
}

// New creates a checker with the default environment and installer.
func New(opts ...Option) *Checker {
	c := &Checker{
		goVersion: pathGoVersion,
		samples:   runner.DefaultManifest().Samples,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.printer == nil {
		c.printer = console.New()
	}
	if c.install == nil {
		out := c.printer.Writer()
		c.install = func() error {
			if err := browser.InstallDriver(false, out); err != nil {
				return err
			}
			return browser.CheckDriver()
		}
	}
	return c
}

// CheckGo verifies the version of the go command on PATH. Development
// builds pass.
func (c *Checker) CheckGo() Status {
	s := Status{Name: "Go"}
	v, err := c.goVersion()
	switch {
	case err != nil:
		s.Detail = err.Error()
	case !version.IsValid(v):
		s.OK = true
		s.Detail = fmt.Sprintf("%s (unreleased toolchain, not checked)", v)
	case version.Compare(v, MinGoVersion) < 0:
		s.Detail = fmt.Sprintf("need %s+, current: %s", MinGoVersion, v)
	default:
		s.OK = true
		s.Detail = v
	}
	return s
}

// InstallDriver installs and starts the Playwright driver.
func (c *Checker) InstallDriver() Status {
	s := Status{Name: "Playwright"}
	if err := c.install(); err != nil {
		s.Detail = err.Error()
		return s
	}
	s.OK = true
	s.Detail = "driver and Chromium ready"
	return s
}

// CheckAPIKey verifies the credential is set, showing only its prefix.
func (c *Checker) CheckAPIKey() Status {
	env := config.LoadEnv(c.getenv)
	s := Status{Name: "API key"}
	if !env.HasAPIKey() {
		s.Detail = "not set up"
		return s
	}
	s.OK = true
	s.Detail = env.MaskedAPIKey()
	return s
}

// Run performs every check in order, printing progress, and stops early
// when the toolchain or driver is unusable.
func (c *Checker) Run() Report {
	p := c.printer
	var report Report

	p.Header("⚡ Quick Setup for Act Samples")

	report.Go = c.CheckGo()
	if !report.Go.OK {
		p.Errorf("Go %s", report.Go.Detail)
		p.Tipf("Install a newer toolchain from https://go.dev/dl/")
		return report
	}
	p.Successf("Go %s", report.Go.Detail)

	p.Infof("📦 Installing Playwright driver and Chromium...")
	report.Driver = c.InstallDriver()
	if !report.Driver.OK {
		p.Errorf("Error installing Playwright: %s", report.Driver.Detail)
		p.Tipf("Try installing manually:")
		p.Plain("   go run github.com/playwright-community/playwright-go/cmd/playwright install --with-deps chromium")
		return report
	}
	p.Successf("Playwright installed successfully")

	report.APIKey = c.CheckAPIKey()
	if report.APIKey.OK {
		p.Successf("API Key is set: %s", report.APIKey.Detail)
	} else {
		p.Errorf("No API Key found")
		p.Section("How to set up the API key")
		p.Plain("1. Visit: %s", config.APIKeyURL)
		p.Plain("2. Register and get an API key")
		p.Plain("3. Run: export %s='your_api_key_here'", config.EnvAPIKey)
		p.Plain("4. Or add it to ~/.bashrc for a permanent setup")
	}

	c.printStatus(report)
	return report
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func (c *Checker) printStatus(report Report) {
	p := c.printer

	p.Rule()
	p.Plain("📊 SETUP STATUS")
	p.Rule()
	for _, s := range []Status{report.Go, report.Driver, report.APIKey} {
		state := "OK"
		if !s.OK {
			state = "Not set up"
		}
		p.Plain("%s %s: %s", mark(s.OK), s.Name, state)
	}

	if report.Ready() {
		p.Successf("🎉 Setup complete! You can run the samples:")
		p.Plain("   go run ./cmd/run-samples")
	} else {
		p.Warningf("Set up the API key before running samples")
		p.Plain("   After getting an API key, run: go run ./cmd/run-samples")
	}

	p.Section("Available samples")
	for _, s := range c.samples {
		p.Itemf("%s - %s", s.ID(), s.Name)
	}
}
