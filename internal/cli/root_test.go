package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHasExpectedCommands(t *testing.T) {
	expected := []string{"monitor", "init", "config", "version", "completion"}

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, names[name], "missing command %q", name)
	}
}

func TestRootHasMonitorFlags(t *testing.T) {
	// The root command doubles as 'monitor', so both carry the same flag set
	for _, flagName := range []string{"ip", "ssh", "simple", "interval", "ssh-interval",
		"timeout", "max-in-flight", "history", "down-threshold"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(flagName), "root missing --%s", flagName)
		assert.NotNil(t, monitorCmd.Flags().Lookup(flagName), "monitor missing --%s", flagName)
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("no-color"))
}

func TestCompletionGeneration(t *testing.T) {
	var buf bytes.Buffer
	err := rootCmd.GenBashCompletion(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "hostwatch")
}
