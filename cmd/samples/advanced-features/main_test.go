package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindArtifacts(t *testing.T) {
	dir := t.TempDir()
	session := filepath.Join(dir, "session")
	require.NoError(t, os.MkdirAll(filepath.Join(session, "videos"), 0750))

	write := func(rel string, size int) {
		require.NoError(t, os.WriteFile(filepath.Join(session, rel), make([]byte, size), 0600))
	}
	write("act_b.html", 10)
	write("act_a.html", 20)
	write("session.log", 5)
	write(filepath.Join("videos", "page.webm"), 2048)

	traces, err := findArtifacts(dir, "act_*.html")
	require.NoError(t, err)
	require.Len(t, traces, 2)
	assert.Equal(t, filepath.Join(session, "act_a.html"), traces[0].Path)
	assert.Equal(t, int64(20), traces[0].Size)

	videos, err := findArtifacts(dir, "*.webm")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, int64(2048), videos[0].Size)

	_, err = findArtifacts(filepath.Join(dir, "missing"), "*")
	assert.Error(t, err)
}

func TestRecordedVideo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.webm")
	require.NoError(t, os.WriteFile(path, make([]byte, 4096), 0600))

	video, ok, err := recordedVideo(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, artifact{Path: path, Size: 4096}, video)

	_, ok, err = recordedVideo("")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = recordedVideo(filepath.Join(t.TempDir(), "gone.webm"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMegabytes(t *testing.T) {
	assert.Equal(t, "0.00 MB", megabytes(0))
	assert.Equal(t, "1.50 MB", megabytes(3*512*1024))
}

func TestProxyExamplesHidePasswords(t *testing.T) {
	for _, ex := range proxyExamples {
		shown := ex.Proxy.Masked()
		if ex.Proxy.Password != "" {
			assert.NotContains(t, shown, ex.Proxy.Password, ex.Label)
			assert.Contains(t, shown, "****", ex.Label)
		}
		assert.Contains(t, shown, "proxy.example.com", ex.Label)
	}
}
