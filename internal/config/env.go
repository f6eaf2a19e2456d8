// ABOUTME: Environment loading for the chat client
// ABOUTME: Reads .env files and resolves the Gemini API key
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when neither GEMINI_API_KEY nor
// GOOGLE_API_KEY is set.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// apiKeyVars are checked in order.
var apiKeyVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// LoadEnv loads .env files into the process environment. Variables that
// are already set are not overridden; missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// APIKey returns the model service API key from the environment.
func APIKey() (string, error) {
	for _, name := range apiKeyVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}
	return "", ErrMissingAPIKey
}
