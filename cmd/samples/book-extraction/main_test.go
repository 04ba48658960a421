package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearArg(t *testing.T) {
	year, err := yearArg(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultYear, year)

	year, err = yearArg([]string{"2021"})
	require.NoError(t, err)
	assert.Equal(t, 2021, year)

	_, err = yearArg([]string{"last-year"})
	assert.ErrorContains(t, err, "invalid year")

	_, err = yearArg([]string{"1200"})
	assert.Error(t, err)
}
