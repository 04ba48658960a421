package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLauncher(t *testing.T) {
	program, args, err := CommandLauncher{}.Resolve(context.Background(), Sample{Path: "echo hello world"})
	require.NoError(t, err)
	assert.Equal(t, "echo", filepath.Base(program))
	assert.Equal(t, []string{"hello", "world"}, args)

	_, _, err = CommandLauncher{}.Resolve(context.Background(), Sample{Path: "   "})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSampleMissing)

	_, _, err = CommandLauncher{}.Resolve(context.Background(), Sample{Path: "act-samples-no-such-binary"})
	assert.ErrorIs(t, err, ErrSampleMissing)
}

func TestGoLauncherMissingPackage(t *testing.T) {
	l := &GoLauncher{Root: t.TempDir()}
	_, _, err := l.Resolve(context.Background(), Sample{Path: "cmd/samples/coffee-maker"})
	assert.ErrorIs(t, err, ErrSampleMissing)
}

func TestGoLauncherPrefersBinary(t *testing.T) {
	root := t.TempDir()
	binDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cmd", "samples", "coffee-maker"), 0755))

	bin := filepath.Join(binDir, "coffee-maker")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755))

	l := &GoLauncher{Root: root, BinDir: binDir}
	program, args, err := l.Resolve(context.Background(), Sample{Path: "cmd/samples/coffee-maker"})
	require.NoError(t, err)
	assert.Equal(t, bin, program)
	assert.Empty(t, args)
	assert.NoError(t, l.Cleanup())
}

func TestGoLauncherCleanupWithoutBuild(t *testing.T) {
	l := &GoLauncher{Root: t.TempDir()}
	assert.NoError(t, l.Cleanup())
	assert.NoError(t, l.Cleanup())
}
