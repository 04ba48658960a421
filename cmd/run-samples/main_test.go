package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/act-samples/pkg/runner"
)

func TestSplitPatterns(t *testing.T) {
	assert.Nil(t, splitPatterns(""))
	assert.Equal(t, []string{"coffee*", "*book*"}, splitPatterns(" coffee*, ,*book*,"))
}

func TestSelectSamples(t *testing.T) {
	m := runner.DefaultManifest()

	got, err := selectSamples(m, &CLIConfig{Only: "*book*", Skip: "parallel-*"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "book-extraction", got[0].ID())

	_, err = selectSamples(m, &CLIConfig{Only: "nothing-matches"})
	assert.Error(t, err)

	_, err = selectSamples(m, &CLIConfig{Only: "[bad"})
	assert.Error(t, err)
}

func TestSelectSamplesHeadlessPrependsFlag(t *testing.T) {
	m := &runner.Manifest{Samples: []runner.Sample{
		{Path: "cmd/samples/book-extraction", Name: "Books", Timeout: 1, Args: []string{"2022"}},
	}}

	got, err := selectSamples(m, &CLIConfig{Headless: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"-headless", "2022"}, got[0].Args)
	assert.Equal(t, []string{"2022"}, m.Samples[0].Args)
}

func TestLoadManifestDefault(t *testing.T) {
	m, err := loadManifest("")
	require.NoError(t, err)
	assert.Len(t, m.Samples, 8)
}
