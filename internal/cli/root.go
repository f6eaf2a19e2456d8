// ABOUTME: Root command definition and CLI setup
// ABOUTME: Handles global flags and injects the default chat subcommand
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/paperchat/internal/config"
	"github.com/harper/paperchat/internal/logging"
)

var (
	configPath   string
	settingsPath string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "paperchat",
	Short: "Research chatbot over MCP servers",
	Long: `Paperchat connects Gemini to the MCP servers listed in server_config.json
and lets it search, store and summarize arXiv papers interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// builtinCommands are added by cobra during Execute and so are not in
// rootCmd.Commands() yet.
var builtinCommands = map[string]bool{
	"help":             true,
	"completion":       true,
	"__complete":       true,
	"__completeNoDesc": true,
}

func Execute() error {
	os.Args = withDefaultCommand(rootCmd, os.Args, "chat")
	return rootCmd.Execute()
}

// withDefaultCommand inserts def after the program name unless the
// first argument already names a subcommand or asks for help.
func withDefaultCommand(root *cobra.Command, args []string, def string) []string {
	if len(args) > 1 {
		arg := args[1]
		if arg == "-h" || arg == "--help" || builtinCommands[arg] {
			return args
		}
		for _, cmd := range root.Commands() {
			if cmd.Name() == arg || cmd.HasAlias(arg) {
				return args
			}
		}
	}
	return append([]string{args[0], def}, args[1:]...)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "server config file (default: server_config.json found upward from the working directory)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file (default: $XDG_CONFIG_HOME/paperchat/settings.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from settings)")
}

// loadSettings reads settings and applies the global flag overrides.
func loadSettings() (*config.Settings, error) {
	path := settingsPath
	if path == "" {
		path = config.SettingsPath()
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings %s: %w", path, err)
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}
	return settings, nil
}

// newLogger builds the stderr diagnostic logger.
func newLogger(settings *config.Settings) (*slog.Logger, error) {
	logger, err := logging.New(os.Stderr, settings.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// loadServers finds and reads the server registry.
func loadServers() (string, []config.ServerEntry, error) {
	path := configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path, err = config.FindServerConfig(cwd)
		if err != nil {
			return "", nil, err
		}
	}

	entries, err := config.LoadServers(path)
	if err != nil {
		return path, nil, err
	}
	return path, entries, nil
}
