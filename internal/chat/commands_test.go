// ABOUTME: Tests for REPL command parsing
// ABOUTME: Covers resource shortcuts, prompt arguments and fallthrough to chat
package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Command
	}{
		{"empty", "   ", Command{Kind: CmdEmpty}},
		{"quit", "quit", Command{Kind: CmdQuit}},
		{"exit any case", "EXIT", Command{Kind: CmdQuit}},
		{"folders", "@folders", Command{Kind: CmdResource, URI: "papers://folders"}},
		{"topic", "@physics", Command{Kind: CmdResource, URI: "papers://physics"}},
		{"topic with spaces", "@machine  learning", Command{Kind: CmdResource, URI: "papers://machine_learning"}},
		{"reserved characters", "@c++", Command{Kind: CmdResource, URI: "papers://c%2B%2B"}},
		{"parentheses and non-ascii", "@café (ml)", Command{Kind: CmdResource, URI: "papers://caf%C3%A9_%28ml%29"}},
		{"bare at", "@", Command{Kind: CmdChat, Text: "@"}},
		{"list prompts", "/prompts", Command{Kind: CmdListPrompts}},
		{"prompt usage", "/prompt", Command{Kind: CmdPromptUsage}},
		{"prompt", "/prompt generate_search_prompt topic=math num_papers=3", Command{
			Kind:   CmdPrompt,
			Prompt: "generate_search_prompt",
			Args:   map[string]string{"topic": "math", "num_papers": "3"},
		}},
		{"quoted value", `/prompt generate_search_prompt topic="neural networks" junk`, Command{
			Kind:   CmdPrompt,
			Prompt: "generate_search_prompt",
			Args:   map[string]string{"topic": "neural networks"},
		}},
		{"unknown slash command", "/help me", Command{Kind: CmdChat, Text: "/help me"}},
		{"chat", "  what is new in physics?  ", Command{Kind: CmdChat, Text: "what is new in physics?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.line))
		})
	}
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, splitArgs(`a "b c"  d`))
	assert.Equal(t, []string{"k=v w"}, splitArgs(`k="v w`))
	assert.Equal(t, []string{"x", ""}, splitArgs(`x ""`))
}
