// ABOUTME: Unit tests for the root command
// ABOUTME: Tests default command injection, help output and registered subcommands
package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/paperchat/internal/config"
	"github.com/harper/paperchat/internal/host"
	"github.com/harper/paperchat/internal/logging"
)

func TestExecute(t *testing.T) {
	t.Run("runs without error", func(t *testing.T) {
		var stdout bytes.Buffer
		rootCmd.SetOut(&stdout)
		rootCmd.SetErr(&stdout)
		rootCmd.SetArgs([]string{"--help"})

		err := Execute()
		if err != nil {
			t.Fatalf("expected Execute() to run without error, got: %v", err)
		}
		if !strings.Contains(stdout.String(), "paperchat") {
			t.Errorf("expected help output to mention paperchat, got: %s", stdout.String())
		}
	})
}

func TestWithDefaultCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"no args", []string{"paperchat"}, []string{"paperchat", "chat"}},
		{"flag only", []string{"paperchat", "--config", "x.json"}, []string{"paperchat", "chat", "--config", "x.json"}},
		{"known command", []string{"paperchat", "research", "--storage", "/tmp"}, []string{"paperchat", "research", "--storage", "/tmp"}},
		{"help flag", []string{"paperchat", "--help"}, []string{"paperchat", "--help"}},
		{"help command", []string{"paperchat", "help", "chat"}, []string{"paperchat", "help", "chat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withDefaultCommand(rootCmd, tt.args, "chat"))
		})
	}
}

func TestRootCommand(t *testing.T) {
	t.Run("has correct metadata", func(t *testing.T) {
		if rootCmd.Use != "paperchat" {
			t.Errorf("expected Use to be 'paperchat', got: %s", rootCmd.Use)
		}
		if !strings.Contains(rootCmd.Long, "arXiv") {
			t.Errorf("expected Long description to mention arXiv, got: %s", rootCmd.Long)
		}
	})

	t.Run("has subcommands registered", func(t *testing.T) {
		names := map[string]bool{}
		for _, cmd := range rootCmd.Commands() {
			names[cmd.Name()] = true
		}
		for _, want := range []string{"chat", "research", "servers"} {
			if !names[want] {
				t.Errorf("expected root command to have %q subcommand registered", want)
			}
		}
	})
}

func TestLoadServersFromFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server_config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mcpServers": {"research": {"command": "paperchat", "args": ["research"]}}}`), 0644))

	configPath = path
	t.Cleanup(func() { configPath = "" })

	got, entries, err := loadServers()
	require.NoError(t, err)
	assert.Equal(t, path, got)
	require.Len(t, entries, 1)
	assert.Equal(t, "research", entries[0].Name)
	assert.Equal(t, "paperchat research", entries[0].String())
}

func TestLoadSettingsOverrides(t *testing.T) {
	settingsPath = filepath.Join(t.TempDir(), "missing.toml")
	logLevel = "debug"
	t.Cleanup(func() {
		settingsPath = ""
		logLevel = ""
	})

	settings, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, config.DefaultModel, settings.Model)
}

func TestPrintCatalog(t *testing.T) {
	catalog := host.NewCatalog(logging.Discard())
	var out bytes.Buffer
	printCatalog(&out, catalog)
	assert.Contains(t, out.String(), "TOOL")
	assert.Contains(t, out.String(), "PROMPT")

	var entries bytes.Buffer
	printEntries(&entries, []config.ServerEntry{{Name: "research", Command: "paperchat", Args: []string{"research"}}})
	assert.Contains(t, entries.String(), "research  paperchat research")
}
