package runner

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Filter selects samples by glob patterns matched against a sample's ID
// and lower-cased name.
type Filter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewFilter compiles include and exclude patterns. Exclusions win; with no
// include patterns every sample not excluded is selected.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}

	for _, pattern := range include {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern '%s': %w", pattern, err)
		}
		f.include = append(f.include, g)
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		f.exclude = append(f.exclude, g)
	}

	return f, nil
}

func matchAny(patterns []glob.Glob, s Sample) bool {
	id := strings.ToLower(s.ID())
	name := strings.ToLower(s.Name)
	for _, p := range patterns {
		if p.Match(id) || p.Match(name) {
			return true
		}
	}
	return false
}

// Match reports whether a sample is selected.
func (f *Filter) Match(s Sample) bool {
	if matchAny(f.exclude, s) {
		return false
	}
	return len(f.include) == 0 || matchAny(f.include, s)
}

// Apply returns the selected samples in order.
func (f *Filter) Apply(samples []Sample) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}
