package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"import", "reindex", "migrate", "seed"} {
		assert.True(t, names[want], want)
	}
}

func TestImportRequiresFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"import", "--mode", "upsert"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestImportFlagDefaults(t *testing.T) {
	cmd := newImportCmd(&rootOptions{})
	mode, err := cmd.Flags().GetString("mode")
	require.NoError(t, err)
	assert.Equal(t, "upsert", mode)
	chunk, err := cmd.Flags().GetInt("chunk")
	require.NoError(t, err)
	assert.Equal(t, 100, chunk)
}
