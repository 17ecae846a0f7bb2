package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antmart/internal/config"
)

// execute runs the root command with fresh flag state and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestRootCommand(t *testing.T) {
	output, err := execute(t)
	require.NoError(t, err)

	assert.Contains(t, output, "antmart")
	assert.Contains(t, output, "Available Commands:")
	for _, name := range []string{"generate", "produce", "run", "report", "config", "version"} {
		assert.Contains(t, output, name)
	}
}

func TestInvalidCommand(t *testing.T) {
	_, err := execute(t, "invalid-command")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "antmart version dev")
}

func TestInvalidLogLevelFails(t *testing.T) {
	_, err := execute(t, "config", "show", "--log-level", "loud", "--base-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("USERS_COUNT", "9")

	output, err := execute(t, "config", "show", "--base-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "users: 9")
	assert.NotEmpty(t, app.runID)

	t.Setenv("ANTMART_LOG_LEVEL", "warn")
	output, err = execute(t, "config", "show", "--log-level", "debug", "--base-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "level: debug")
}
