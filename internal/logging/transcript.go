// ABOUTME: Chat transcript file writing
// ABOUTME: Formats turns as markdown or JSON and appends to daily logs
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Turn is one completed user-input-to-final-text cycle.
type Turn struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	ToolCalls []string  `json:"tool_calls,omitempty"`
	Rounds    int       `json:"rounds"`
	Error     string    `json:"error,omitempty"`
}

// Transcript appends turns to daily files in Dir.
type Transcript struct {
	Dir    string
	Format string
}

// Record appends turn to the transcript.
func (t *Transcript) Record(turn Turn) error {
	return WriteTranscript(t.Dir, t.Format, turn)
}

// WriteTranscript appends turn to the daily transcript file in logDir.
func WriteTranscript(logDir, format string, turn Turn) error {
	// Create log directory if needed
	if err := os.MkdirAll(logDir, 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return err
	}

	// One file per day
	date := turn.Timestamp.Format("2006-01-02")
	logFile := filepath.Join(logDir, date+".log")

	var content string
	switch format {
	case "json":
		data, err := json.Marshal(turn)
		if err != nil {
			return err
		}
		content = string(data) + "\n"
	case "markdown":
		fallthrough
	default:
		content = formatMarkdown(turn)
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // Transcript is user data
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}

func formatMarkdown(turn Turn) string {
	var sb strings.Builder

	timeStr := turn.Timestamp.Format("15:04:05")
	sb.WriteString(fmt.Sprintf("## %s - %s\n", timeStr, turn.Input))

	if len(turn.ToolCalls) > 0 {
		sb.WriteString(fmt.Sprintf("- **Tools**: %s\n", strings.Join(turn.ToolCalls, ", ")))
	}
	sb.WriteString(fmt.Sprintf("- **Rounds**: %d\n", turn.Rounds))
	if turn.Error != "" {
		sb.WriteString(fmt.Sprintf("- **Error**: %s\n", turn.Error))
	}
	sb.WriteString("\n")
	if turn.Output != "" {
		sb.WriteString(turn.Output)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
