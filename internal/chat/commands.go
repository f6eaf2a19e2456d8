// ABOUTME: Parses REPL input lines into commands
// ABOUTME: Handles @resource shortcuts, /prompt commands and quit words
package chat

import (
	"strings"
	"unicode"
)

// ResourceScheme is the URI scheme @ shortcuts expand into.
const ResourceScheme = "papers://"

// CommandKind identifies what a line of input asks for.
type CommandKind int

const (
	CmdEmpty CommandKind = iota
	CmdQuit
	CmdResource
	CmdListPrompts
	CmdPrompt
	CmdPromptUsage
	CmdChat
)

// Command is a parsed line of input.
type Command struct {
	Kind   CommandKind
	Text   string
	URI    string
	Prompt string
	Args   map[string]string
}

// ParseCommand classifies a line. Unrecognized slash commands are chat.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return Command{Kind: CmdEmpty}
	case strings.EqualFold(line, "quit"), strings.EqualFold(line, "exit"):
		return Command{Kind: CmdQuit}
	case strings.HasPrefix(line, "@") && len(line) > 1:
		return Command{Kind: CmdResource, URI: ResourceURI(line[1:])}
	case strings.HasPrefix(line, "/"):
		if cmd, ok := parseSlash(line); ok {
			return cmd
		}
	}
	return Command{Kind: CmdChat, Text: line}
}

// ResourceURI maps an @ target to a resource URI. Whitespace inside a
// topic becomes underscores and every byte outside the RFC 3986
// unreserved set is percent-encoded, so topics like c++ still match the
// papers://{topic} template.
func ResourceURI(target string) string {
	target = strings.TrimSpace(target)
	if target == "folders" {
		return ResourceScheme + "folders"
	}
	return ResourceScheme + escapeUnreserved(strings.Join(strings.Fields(target), "_"))
}

func escapeUnreserved(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func parseSlash(line string) (Command, bool) {
	fields := splitArgs(line)
	switch strings.ToLower(fields[0]) {
	case "/prompts":
		return Command{Kind: CmdListPrompts}, true
	case "/prompt":
		if len(fields) < 2 {
			return Command{Kind: CmdPromptUsage}, true
		}
		args := make(map[string]string)
		for _, f := range fields[2:] {
			key, value, ok := strings.Cut(f, "=")
			if !ok || key == "" {
				continue
			}
			args[key] = value
		}
		return Command{Kind: CmdPrompt, Prompt: fields[1], Args: args}, true
	}
	return Command{}, false
}

// splitArgs splits on whitespace. Double quotes group text containing
// spaces and are removed.
func splitArgs(s string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields
}
