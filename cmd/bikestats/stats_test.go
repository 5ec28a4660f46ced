package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.json"))
	require.NoError(t, err)
	defer f.Close()

	format, err := resolveFormat("auto", f)
	require.NoError(t, err)
	assert.Equal(t, "json", format)

	format, err = resolveFormat("text", f)
	require.NoError(t, err)
	assert.Equal(t, "text", format)

	_, err = resolveFormat("xml", f)
	assert.Error(t, err)
}
