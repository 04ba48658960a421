package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// ErrSampleMissing is returned by a Launcher when a sample cannot be found.
var ErrSampleMissing = errors.New("sample not found")

// Launcher turns a sample into the program and arguments to execute.
// Resolve runs before the sample's timeout starts, so preparation such as
// compiling does not count against it.
type Launcher interface {
	Resolve(ctx context.Context, s Sample) (program string, args []string, err error)
}

// CommandLauncher treats Sample.Path as a command line.
type CommandLauncher struct{}

// Resolve splits the command and looks up its executable.
func (CommandLauncher) Resolve(_ context.Context, s Sample) (string, []string, error) {
	parts := strings.Fields(s.Path)
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("empty command")
	}
	program, err := exec.LookPath(parts[0])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", ErrSampleMissing, parts[0], err)
	}
	return program, parts[1:], nil
}

// GoLauncher runs samples that are Go main packages below Root. A prebuilt
// binary named after the sample's ID in BinDir is preferred; otherwise the
// package is compiled once into a temporary directory.
type GoLauncher struct {
	Root   string
	BinDir string

	mu       sync.Mutex
	buildDir string
}

// Resolve locates or builds the sample binary.
func (l *GoLauncher) Resolve(ctx context.Context, s Sample) (string, []string, error) {
	pkgDir := filepath.Join(l.Root, filepath.FromSlash(s.Path))
	info, err := os.Stat(pkgDir)
	if err != nil || !info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s", ErrSampleMissing, pkgDir)
	}

	if l.BinDir != "" {
		bin := filepath.Join(l.BinDir, s.ID())
		if fi, err := os.Stat(bin); err == nil && fi.Mode().IsRegular() && fi.Mode()&0111 != 0 {
			return bin, nil, nil
		}
	}

	bin, err := l.build(ctx, s)
	if err != nil {
		return "", nil, err
	}
	return bin, nil, nil
}

func (l *GoLauncher) build(ctx context.Context, s Sample) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buildDir == "" {
		dir, err := os.MkdirTemp("", "act-samples-bin-*")
		if err != nil {
			return "", fmt.Errorf("failed to create build directory: %w", err)
		}
		l.buildDir = dir
	}

	bin := filepath.Join(l.buildDir, s.ID())
	cmd := exec.CommandContext(ctx, "go", "build", "-o", bin, "./"+filepath.ToSlash(filepath.Clean(s.Path)))
	cmd.Dir = l.Root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", &SampleError{
			Sample: s.Name,
			Stage:  "build",
			Output: string(output),
			Err:    err,
		}
	}
	return bin, nil
}

// Cleanup removes binaries built by the launcher.
func (l *GoLauncher) Cleanup() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buildDir == "" {
		return nil
	}
	dir := l.buildDir
	l.buildDir = ""
	return os.RemoveAll(dir)
}
