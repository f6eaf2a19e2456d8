// ABOUTME: Tests for XDG directory resolution
// ABOUTME: Validates fallback behavior and path construction
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDataHome(t *testing.T) {
	t.Run("uses XDG_DATA_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		got := GetDataHome()
		if got != "/custom/data" {
			t.Errorf("got %s, want /custom/data", got)
		}
	})

	t.Run("falls back to HOME/.local/share", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		home := os.Getenv("HOME")
		want := filepath.Join(home, ".local", "share")
		got := GetDataHome()
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}

func TestGetConfigHome(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		got := GetConfigHome()
		if got != "/custom/config" {
			t.Errorf("got %s, want /custom/config", got)
		}
		if ConfigDir() != "/custom/config/paperchat" {
			t.Errorf("got ConfigDir %s, want /custom/config/paperchat", ConfigDir())
		}
	})

	t.Run("falls back to HOME/.config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home := os.Getenv("HOME")
		want := filepath.Join(home, ".config")
		got := GetConfigHome()
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}

func TestPaperDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("PAPERCHAT_PAPER_DIR", "/tmp/papers")
		if got := PaperDir(); got != "/tmp/papers" {
			t.Errorf("got %s, want /tmp/papers", got)
		}
	})

	t.Run("defaults under data home", func(t *testing.T) {
		t.Setenv("PAPERCHAT_PAPER_DIR", "")
		t.Setenv("XDG_DATA_HOME", "/data")
		if got := PaperDir(); got != "/data/paperchat/papers" {
			t.Errorf("got %s, want /data/paperchat/papers", got)
		}
	})
}
