// ABOUTME: Tests for the interactive REPL
// ABOUTME: Drives input from a string and checks printed output and transcripts
package chat

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/harper/paperchat/internal/host"
	"github.com/harper/paperchat/internal/logging"
)

func init() {
	color.NoColor = true
}

type stubCatalog struct {
	resources map[string]string
	prompts   []host.PromptInfo
}

func (c *stubCatalog) ReadResource(_ context.Context, uri string) (string, error) {
	text, ok := c.resources[uri]
	if !ok {
		return "", fmt.Errorf("%w: %s", host.ErrUnknownResource, uri)
	}
	return text, nil
}

func (c *stubCatalog) Prompts() []host.PromptInfo {
	return c.prompts
}

func (c *stubCatalog) GetPrompt(_ context.Context, name string, args map[string]string) (string, error) {
	for _, p := range c.prompts {
		if p.Name == name {
			return "Search for papers about " + args["topic"], nil
		}
	}
	return "", fmt.Errorf("%w: %s", host.ErrUnknownPrompt, name)
}

type memoryRecorder struct {
	turns []logging.Turn
}

func (r *memoryRecorder) Record(turn logging.Turn) error {
	r.turns = append(r.turns, turn)
	return nil
}

func newTestREPL(input string, model Model, catalog Catalog, recorder Recorder) (*REPL, *bytes.Buffer) {
	out := &bytes.Buffer{}
	loop := newLoop(model, &recordingDispatcher{}, Options{})
	return NewREPL(REPLConfig{
		In:       strings.NewReader(input),
		Out:      out,
		Session:  NewSession(loop),
		Catalog:  catalog,
		Recorder: recorder,
		Logger:   logging.Discard(),
	}), out
}

func TestREPLRun(t *testing.T) {
	catalog := &stubCatalog{
		resources: map[string]string{"papers://folders": "# Available Topics\n\n- physics"},
		prompts: []host.PromptInfo{{
			Name:        "generate_search_prompt",
			Description: "Generate a search prompt",
			Arguments:   []*mcp.PromptArgument{{Name: "topic", Required: true}, {Name: "num_papers"}},
		}},
	}
	model := &scriptedModel{replies: []*genai.Content{textReply("Hi!"), textReply("Here are papers.")}}
	recorder := &memoryRecorder{}

	input := strings.Join([]string{
		"",
		"hello",
		"@folders",
		"@chemistry",
		"/prompts",
		"/prompt",
		"/prompt missing",
		"/prompt generate_search_prompt topic=physics",
		"quit",
		"never read",
	}, "\n")

	repl, out := newTestREPL(input, model, catalog, recorder)
	require.NoError(t, repl.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Gemini:\nHi!\n")
	assert.Contains(t, text, "Resource: papers://folders\nContent:\n# Available Topics")
	assert.Contains(t, text, "Resource 'papers://chemistry' not found.")
	assert.Contains(t, text, "- generate_search_prompt: Generate a search prompt\n  Arguments:\n    - topic (required)\n    - num_papers\n")
	assert.Contains(t, text, "Usage: /prompt <name>")
	assert.Contains(t, text, "Prompt 'missing' not found.")
	assert.Contains(t, text, "Executing prompt 'generate_search_prompt'...")
	assert.Contains(t, text, "Gemini:\nHere are papers.\n")
	assert.True(t, strings.HasSuffix(text, "Exiting chat. Goodbye!\n"))

	assert.Equal(t, 2, model.calls)
	require.Len(t, model.received, 2)
	last := model.received[1]
	assert.Equal(t, "Search for papers about physics", last[len(last)-1].Parts[0].Text)

	require.Len(t, recorder.turns, 2)
	assert.Equal(t, "hello", recorder.turns[0].Input)
	assert.Equal(t, "Hi!", recorder.turns[0].Output)
	assert.Equal(t, 1, recorder.turns[0].Rounds)
}

func TestREPLEOF(t *testing.T) {
	repl, out := newTestREPL("", &scriptedModel{}, &stubCatalog{}, nil)
	require.NoError(t, repl.Run(context.Background()))
	assert.NotContains(t, out.String(), "Goodbye")
}

func TestREPLModelError(t *testing.T) {
	model := &scriptedModel{err: fmt.Errorf("503 unavailable")}
	recorder := &memoryRecorder{}
	repl, out := newTestREPL("hi\n", model, &stubCatalog{}, recorder)
	require.NoError(t, repl.Run(context.Background()))

	assert.Contains(t, out.String(), "Error: 503 unavailable")
	require.Len(t, recorder.turns, 1)
	assert.Equal(t, "503 unavailable", recorder.turns[0].Error)
}

func TestREPLNoPrompts(t *testing.T) {
	repl, out := newTestREPL("/prompts\n", &scriptedModel{}, &stubCatalog{}, nil)
	require.NoError(t, repl.Run(context.Background()))
	assert.Contains(t, out.String(), "No prompts available.")
}

func TestPrintCall(t *testing.T) {
	var buf bytes.Buffer
	PrintCall(&buf)(&genai.FunctionCall{Name: "search_papers", Args: map[string]any{"topic": "ai", "max_results": 3}})
	assert.Equal(t, "Calling tool search_papers with args {\"max_results\":3,\"topic\":\"ai\"}\n", buf.String())
}
