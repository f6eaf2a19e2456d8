// ABOUTME: XDG Base Directory specification helpers
// ABOUTME: Resolves paperchat data and config directories with fallbacks
package config

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the XDG homes.
const AppName = "paperchat"

// GetDataHome returns XDG_DATA_HOME or fallback to ~/.local/share
func GetDataHome() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg
	}
	home := os.Getenv("HOME")
	return filepath.Join(home, ".local", "share")
}

// GetConfigHome returns XDG_CONFIG_HOME or fallback to ~/.config
func GetConfigHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home := os.Getenv("HOME")
	return filepath.Join(home, ".config")
}

// ConfigDir is where paperchat looks for server_config.* and settings.toml
// when nothing is found next to the working directory.
func ConfigDir() string {
	return filepath.Join(GetConfigHome(), AppName)
}

// PaperDir returns the paper store root. PAPERCHAT_PAPER_DIR wins over
// the XDG data home.
func PaperDir() string {
	if dir := os.Getenv("PAPERCHAT_PAPER_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(GetDataHome(), AppName, "papers")
}
