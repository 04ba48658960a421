// Package main runs every sample program as a subprocess with its own
// timeout and reports pass/fail/timing statistics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/entrhq/act-samples/pkg/config"
	"github.com/entrhq/act-samples/pkg/console"
	"github.com/entrhq/act-samples/pkg/logging"
	"github.com/entrhq/act-samples/pkg/runner"
	"github.com/entrhq/act-samples/pkg/samplekit"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ManifestFile string
	Only         string
	Skip         string
	Yes          bool
	Headless     bool
	Interactive  bool
	Root         string
	BinDir       string
	OutputDir    string
	Rest         time.Duration
	ShowVersion  bool
}

var errSamplesFailed = errors.New("some samples failed")

func main() {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Printf("run-samples v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nStopping after the current sample is killed...")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		cancel()
		if !errors.Is(err, errSamplesFailed) {
			log.Printf("Batch failed: %v", err)
		}
		os.Exit(1)
	}
	cancel()
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ManifestFile, "manifest", "", "Sample manifest (YAML); the built-in list when empty")
	flag.StringVar(&cfg.Only, "only", "", "Comma-separated glob patterns of samples to run")
	flag.StringVar(&cfg.Skip, "skip", "", "Comma-separated glob patterns of samples to skip")
	flag.BoolVar(&cfg.Yes, "yes", false, "Run without asking for confirmation")
	flag.BoolVar(&cfg.Headless, "headless", false, "Pass -headless to every sample")
	flag.BoolVar(&cfg.Interactive, "interactive", false, "Connect samples to this terminal so they can prompt")
	flag.StringVar(&cfg.Root, "root", ".", "Module root containing the sample packages")
	flag.StringVar(&cfg.BinDir, "bin-dir", "", "Directory of prebuilt sample binaries")
	flag.StringVar(&cfg.OutputDir, "output", "", "Directory for results.json and summary.md (default from manifest)")
	flag.DurationVar(&cfg.Rest, "rest", -1, "Pause between samples (default from manifest)")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "run-samples - Run the act samples as a batch\n\n")
		fmt.Fprintf(os.Stderr, "Usage: run-samples [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Run everything headless without prompting\n")
		fmt.Fprintf(os.Stderr, "  run-samples -yes -headless\n\n")
		fmt.Fprintf(os.Stderr, "  # Run the book samples only\n")
		fmt.Fprintf(os.Stderr, "  run-samples -only '*book*'\n\n")
	}

	flag.Parse()
	return cfg
}

// splitPatterns splits a comma-separated flag value, dropping blanks.
func splitPatterns(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// selectSamples applies the manifest and flags to produce the samples to
// run. The returned samples are copies; the manifest is not modified.
func selectSamples(m *runner.Manifest, cfg *CLIConfig) ([]runner.Sample, error) {
	filter, err := runner.NewFilter(splitPatterns(cfg.Only), splitPatterns(cfg.Skip))
	if err != nil {
		return nil, err
	}
	samples := filter.Apply(m.Samples)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples match the -only/-skip patterns")
	}

	out := make([]runner.Sample, len(samples))
	for i, s := range samples {
		if cfg.Headless {
			// Flags must precede positional arguments.
			s.Args = append([]string{"-headless"}, s.Args...)
		}
		out[i] = s
	}
	return out, nil
}

func loadManifest(file string) (*runner.Manifest, error) {
	if file == "" {
		return runner.DefaultManifest(), nil
	}
	return runner.LoadManifest(file)
}

func run(ctx context.Context, cfg *CLIConfig) error {
	p := console.New()
	p.Header("🎯 Act Samples - Batch Runner")

	env := config.LoadEnv(os.Getenv)
	if !env.HasAPIKey() {
		p.Plain("%s", config.SetupMessage())
		return nil
	}
	p.Successf("API Key: %s", env.MaskedAPIKey())

	manifest, err := loadManifest(cfg.ManifestFile)
	if err != nil {
		return err
	}
	samples, err := selectSamples(manifest, cfg)
	if err != nil {
		return err
	}

	runner.PrintPlan(p, samples, cfg.Interactive)

	if !cfg.Yes {
		prompt := samplekit.NewPrompter(os.Stdin, os.Stdout)
		ok, err := prompt.Confirm(fmt.Sprintf("\n❓ Do you want to run all %d samples?", len(samples)))
		if err != nil {
			return err
		}
		if !ok {
			p.Errorf("Cancelled running samples")
			return nil
		}
	}

	if env.LogLevel != "" {
		logging.SetLevel(logging.ParseLevel(env.LogLevel))
	}
	logger, err := logging.NewLogger("run-samples")
	if err != nil {
		p.Warningf("File logging unavailable: %v", err)
	}
	defer logger.Close()

	launcher := &runner.GoLauncher{Root: cfg.Root, BinDir: cfg.BinDir}
	defer func() {
		if err := launcher.Cleanup(); err != nil {
			logger.Warnf("Failed to remove build directory: %v", err)
		}
	}()

	rest := manifest.RestDelay
	if cfg.Rest >= 0 {
		rest = cfg.Rest
	}
	opts := []runner.Option{
		runner.WithPrinter(p),
		runner.WithLogger(logger),
		runner.WithRestDelay(rest),
		runner.WithTeardownDelay(manifest.TeardownDelay),
	}
	if cfg.Interactive {
		opts = append(opts, runner.WithStdin(os.Stdin))
	}

	p.Infof("\n⏱️ Starting samples...")
	summary := runner.New(launcher, opts...).RunAll(ctx, samples)
	runner.PrintSummary(p, summary)

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = manifest.OutputDir
	}
	writer := runner.NewArtifactWriter(outputDir)
	if err := writer.WriteAll(summary); err != nil {
		p.Warningf("Failed to write results: %v", err)
	} else {
		p.Infof("📁 Results written to %s", writer.OutputDir())
	}
	logger.Infof("Batch finished: %d/%d succeeded in %s", summary.Succeeded, summary.Total, summary.Duration)

	if summary.Succeeded < summary.Total {
		return errSamplesFailed
	}
	return nil
}
