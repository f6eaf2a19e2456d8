// ABOUTME: Optional settings.toml for chat behaviour
// ABOUTME: Model id, round cap, output budget, transcript and log level
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults applied before settings.toml is decoded.
const (
	DefaultModel           = "gemini-2.5-flash"
	DefaultMaxRounds       = 10
	DefaultMaxOutputTokens = 2024
)

type Settings struct {
	Model            string `toml:"model"`
	MaxRounds        int    `toml:"max_rounds"`
	MaxOutputTokens  int32  `toml:"max_output_tokens"`
	ParallelTools    bool   `toml:"parallel_tools"`
	LogLevel         string `toml:"log_level"`
	Transcript       bool   `toml:"transcript"`
	TranscriptDir    string `toml:"transcript_dir"`
	TranscriptFormat string `toml:"transcript_format"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Model:            DefaultModel,
		MaxRounds:        DefaultMaxRounds,
		MaxOutputTokens:  DefaultMaxOutputTokens,
		ParallelTools:    true,
		LogLevel:         "warn",
		TranscriptDir:    filepath.Join(GetDataHome(), AppName, "transcripts"),
		TranscriptFormat: "markdown",
	}
}

// LoadSettings loads settings.toml from path. A missing file is not an
// error; defaults are returned.
func LoadSettings(path string) (*Settings, error) {
	cfg := DefaultSettings()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return cfg, nil
}

// SettingsPath is the default location of settings.toml.
func SettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.toml")
}
