// ABOUTME: MCP server registry loading from server_config.{json,toml,yaml}
// ABOUTME: Walks directory tree to find the config and validates entries
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoServers is returned when a config file declares no MCP servers.
	ErrNoServers = errors.New("no MCP servers configured")

	// ErrNoServerConfig is returned when no server config file can be found.
	ErrNoServerConfig = errors.New("server config not found")
)

// serverConfigNames are tried in order in every directory searched.
var serverConfigNames = []string{
	"server_config.json",
	"server_config.toml",
	"server_config.yaml",
	"server_config.yml",
}

// ServerEntry describes how to launch one MCP server over stdio.
type ServerEntry struct {
	Name    string            `json:"-" toml:"-" yaml:"-"`
	Command string            `json:"command" toml:"command" yaml:"command"`
	Args    []string          `json:"args,omitempty" toml:"args" yaml:"args"`
	Env     map[string]string `json:"env,omitempty" toml:"env" yaml:"env"`
}

// String renders the launch command line for display.
func (e ServerEntry) String() string {
	if len(e.Args) == 0 {
		return e.Command
	}
	return e.Command + " " + strings.Join(e.Args, " ")
}

type serverFile struct {
	Servers map[string]ServerEntry `json:"mcpServers" toml:"mcpServers" yaml:"mcpServers"`
}

// LoadServers reads the server registry at path. The format is picked
// from the file extension. Entries come back sorted by name.
func LoadServers(path string) ([]ServerEntry, error) {
	var file serverFile

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path) //nolint:gosec // Path comes from the user's own config
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".json", "":
		data, err := os.ReadFile(path) //nolint:gosec // Path comes from the user's own config
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported server config format %q", ext)
	}

	if len(file.Servers) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoServers)
	}

	entries := make([]ServerEntry, 0, len(file.Servers))
	for name, entry := range file.Servers {
		if strings.TrimSpace(entry.Command) == "" {
			return nil, fmt.Errorf("%s: server %q has no command", path, name)
		}
		entry.Name = name
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// FindServerConfig walks up from dir looking for a server_config file,
// stopping at the filesystem root or the home directory, then falls back
// to the paperchat config directory.
func FindServerConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	homeDir, _ := os.UserHomeDir()

	current := absDir
	for {
		if path := configIn(current); path != "" {
			return path, nil
		}

		parent := filepath.Dir(current)

		// Stop at filesystem root or home directory
		if parent == current || current == homeDir {
			break
		}

		current = parent
	}

	if path := configIn(ConfigDir()); path != "" {
		return path, nil
	}

	return "", fmt.Errorf("%w (searched from %s and in %s)", ErrNoServerConfig, absDir, ConfigDir())
}

func configIn(dir string) string {
	for _, name := range serverConfigNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
