package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvSettingsFile overrides the settings file location.
const EnvSettingsFile = "NOVA_ACT_SETTINGS"

// Settings are user defaults kept on disk. Environment variables take
// precedence over every field.
type Settings struct {
	Model       string   `yaml:"model,omitempty"`
	BaseURL     string   `yaml:"base_url,omitempty"`
	LogLevel    string   `yaml:"log_level,omitempty"`
	LogsDir     string   `yaml:"logs_dir,omitempty"`
	BrowserArgs []string `yaml:"browser_args,omitempty"`
}

// SettingsFile reads and writes Settings as YAML.
type SettingsFile struct {
	path string
}

// NewSettingsFile returns the settings file at path. An empty path means
// $NOVA_ACT_SETTINGS, or ~/.act-samples/settings.yaml when that is unset.
func NewSettingsFile(path string, getenv Getenv) (*SettingsFile, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if path == "" {
		path = getenv(EnvSettingsFile)
	}
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".act-samples", "settings.yaml")
	}
	return &SettingsFile{path: path}, nil
}

// Path returns the file path.
func (f *SettingsFile) Path() string {
	return f.path
}

// Load reads the settings. A missing file yields empty settings.
func (f *SettingsFile) Load() (*Settings, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", f.path, err)
	}
	return &s, nil
}

// Save writes the settings atomically.
func (f *SettingsFile) Save(s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp settings file: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// WithSettings fills fields the environment left empty from s.
func (e Env) WithSettings(s *Settings) Env {
	if s == nil {
		return e
	}
	if e.Model == "" {
		e.Model = s.Model
	}
	if e.BaseURL == "" {
		e.BaseURL = s.BaseURL
	}
	if e.LogLevel == "" {
		e.LogLevel = s.LogLevel
	}
	if e.LogsDir == "" {
		e.LogsDir = s.LogsDir
	}
	if len(e.BrowserArgs) == 0 {
		e.BrowserArgs = append([]string(nil), s.BrowserArgs...)
	}
	return e
}
