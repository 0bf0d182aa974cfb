package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, args ...string) (stdout string) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	_ = rootCmd.Execute()
	return out.String()
}

func TestSetGetRmRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "barrow_cmd_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	run(t, dir, "set", "k", "v1")
	out := run(t, dir, "get", "k")
	assert.Equal(t, "v1", strings.TrimSpace(out))

	run(t, dir, "rm", "k")
	out = run(t, dir, "get", "k")
	assert.Equal(t, "Key not found", strings.TrimSpace(out))
}

func TestGetMissingKeyReportsNotFound(t *testing.T) {
	dir, err := os.MkdirTemp("", "barrow_cmd_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	out := run(t, dir, "get", "absent")
	assert.Equal(t, "Key not found", strings.TrimSpace(out))
}

func TestSetRequiresTwoArgs(t *testing.T) {
	dir, err := os.MkdirTemp("", "barrow_cmd_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--dir", dir, "set", "onlykey"})
	err = rootCmd.Execute()
	assert.Error(t, err)
}

func TestConfigFlagOverridesCompactionThreshold(t *testing.T) {
	dir, err := os.MkdirTemp("", "barrow_cmd_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	configPath := filepath.Join(dir, "barrow.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("compaction_threshold: 1\n"), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--dir", dir, "--config", configPath, "set", "k", "v1"})
	require.NoError(t, rootCmd.Execute())

	out.Reset()
	rootCmd.SetArgs([]string{"--dir", dir, "--config", configPath, "get", "k"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "v1", strings.TrimSpace(out.String()))
}

func TestConfigFlagMissingFileFails(t *testing.T) {
	dir, err := os.MkdirTemp("", "barrow_cmd_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--dir", dir, "--config", filepath.Join(dir, "missing.yaml"), "get", "k"})
	assert.Error(t, rootCmd.Execute())
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"-V"})
	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "barrow")
}
