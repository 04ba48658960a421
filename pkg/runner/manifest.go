package runner

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sample describes one sample program the runner executes.
type Sample struct {
	// Path locates the sample; how it is interpreted depends on the Launcher.
	Path        string        `yaml:"path" json:"path"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	Difficulty  int           `yaml:"difficulty" json:"difficulty"`
	Features    []string      `yaml:"features" json:"features"`

	// Args are appended to the command the Launcher resolves.
	Args []string `yaml:"args,omitempty" json:"args,omitempty"`

	// Interactive samples read from stdin and may need an operator.
	Interactive bool `yaml:"interactive" json:"interactive"`
}

// ID is the short name used for filtering, the last element of Path.
func (s Sample) ID() string {
	return path.Base(strings.TrimRight(s.Path, "/"))
}

// EffectiveTimeout is the timeout RunOne enforces, DefaultTimeout when
// none is set.
func (s Sample) EffectiveTimeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

// Stars renders the difficulty as stars.
func (s Sample) Stars() string {
	return strings.Repeat("⭐", s.Difficulty)
}

// Manifest lists the samples to run and how to run them.
type Manifest struct {
	Samples []Sample `yaml:"samples" json:"samples"`

	// RestDelay is the pause between samples.
	RestDelay time.Duration `yaml:"rest_delay" json:"rest_delay"`

	// TeardownDelay bounds how long a killed sample may take to exit.
	TeardownDelay time.Duration `yaml:"teardown_delay" json:"teardown_delay"`

	// OutputDir receives results.json and summary.md.
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// Defaults for manifests that leave fields unset.
const (
	DefaultRestDelay     = 5 * time.Second
	DefaultTeardownDelay = 10 * time.Second
	DefaultTimeout       = 120 * time.Second
	DefaultOutputDir     = ".act-samples/results"
)

// DefaultManifest returns the built-in sample set.
func DefaultManifest() *Manifest {
	return &Manifest{
		RestDelay:     DefaultRestDelay,
		TeardownDelay: DefaultTeardownDelay,
		OutputDir:     DefaultOutputDir,
		Samples: []Sample{
			{
				Path:        "cmd/samples/coffee-maker",
				Name:        "Coffee Maker Order (Quick Start)",
				Description: "Search for a coffee maker, select the first result and add it to the cart",
				Timeout:     180 * time.Second,
				Difficulty:  1,
				Features:    []string{"Basic Act usage", "Multi-step navigation"},
			},
			{
				Path:        "cmd/samples/book-extraction",
				Name:        "Book Extraction with Schema",
				Description: "Extract a book list validated against a schema",
				Timeout:     120 * time.Second,
				Difficulty:  2,
				Features:    []string{"Typed schema", "Schema validation", "Structured data"},
			},
			{
				Path:        "cmd/samples/parallel-books",
				Name:        "Parallel Processing",
				Description: "Collect books from several years with a worker pool",
				Timeout:     300 * time.Second,
				Difficulty:  3,
				Features:    []string{"Worker pool", "Multiple clients", "Error isolation"},
			},
			{
				Path:        "cmd/samples/authentication",
				Name:        "Authentication & Sessions",
				Description: "Persistent browser state with a user data directory",
				Timeout:     240 * time.Second,
				Difficulty:  3,
				Features:    []string{"User data dir", "Session persistence", "Bool schema"},
				Interactive: true,
			},
			{
				Path:        "cmd/samples/sensitive-data",
				Name:        "Sensitive Data Handling",
				Description: "Type passwords and card data without sending them to the model",
				Timeout:     180 * time.Second,
				Difficulty:  2,
				Features:    []string{"Hidden password prompt", "Direct keyboard input", "CAPTCHA pause"},
				Interactive: true,
			},
			{
				Path:        "cmd/samples/file-operations",
				Name:        "File Upload & Download",
				Description: "Upload and download files through the page",
				Timeout:     200 * time.Second,
				Difficulty:  3,
				Features:    []string{"File upload", "Download capture", "Multiple files"},
			},
			{
				Path:        "cmd/samples/advanced-features",
				Name:        "Advanced Features",
				Description: "Logging, video recording, upload hooks and proxy configuration",
				Timeout:     150 * time.Second,
				Difficulty:  4,
				Features:    []string{"Custom logging", "Video recording", "Upload hook", "Proxy"},
			},
			{
				Path:        "cmd/samples/interactive",
				Name:        "Interactive Mode",
				Description: "Interactive control and debugging",
				Timeout:     300 * time.Second,
				Difficulty:  2,
				Features:    []string{"Interactive session", "Step-by-step", "Debugging"},
				Interactive: true,
			},
		},
	}
}

// LoadManifest reads a YAML manifest. Unset fields take the defaults.
func LoadManifest(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", file, err)
	}
	return m, nil
}

func (m *Manifest) applyDefaults() {
	if m.RestDelay == 0 {
		m.RestDelay = DefaultRestDelay
	}
	if m.TeardownDelay == 0 {
		m.TeardownDelay = DefaultTeardownDelay
	}
	if m.OutputDir == "" {
		m.OutputDir = DefaultOutputDir
	}
	for i := range m.Samples {
		if m.Samples[i].Timeout == 0 {
			m.Samples[i].Timeout = DefaultTimeout
		}
		if m.Samples[i].Name == "" {
			m.Samples[i].Name = m.Samples[i].ID()
		}
	}
}

// Validate checks the manifest.
func (m *Manifest) Validate() error {
	if len(m.Samples) == 0 {
		return fmt.Errorf("at least one sample is required")
	}
	if m.RestDelay < 0 {
		return fmt.Errorf("rest_delay cannot be negative")
	}
	if m.TeardownDelay < 0 {
		return fmt.Errorf("teardown_delay cannot be negative")
	}

	seen := make(map[string]bool)
	for i, s := range m.Samples {
		if s.Path == "" {
			return fmt.Errorf("sample %d: path is required", i+1)
		}
		if s.Timeout <= 0 {
			return fmt.Errorf("sample %q: timeout must be positive", s.Name)
		}
		if s.Difficulty < 0 || s.Difficulty > 5 {
			return fmt.Errorf("sample %q: difficulty must be between 0 and 5", s.Name)
		}
		if seen[s.ID()] {
			return fmt.Errorf("sample %q: duplicate id %q", s.Name, s.ID())
		}
		seen[s.ID()] = true
	}
	return nil
}
