// ABOUTME: End-to-end tests against a real MCP server over in-memory transports
// ABOUTME: Exercises the session adapter, remote tools and tool errors
package host

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/paperchat/internal/logging"
)

type echoInput struct {
	Text string `json:"text,omitempty" jsonschema:"text to echo back"`
}

func connectEchoServer(t *testing.T) Session {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "echo", Version: "test"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "echo", Description: "Echo text"},
		func(_ context.Context, _ *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, any, error) {
			if in.Text == "" {
				return nil, nil, errors.New("text is required")
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: in.Text}},
			}, nil, nil
		})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "paperchat-test", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	session := NewSession(cs)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestSessionAgainstServer(t *testing.T) {
	ctx := context.Background()
	session := connectEchoServer(t)

	c := NewCatalog(logging.Discard())
	c.Register(ctx, "echo", session)

	tool, ok := c.Tool("echo")
	require.True(t, ok)
	assert.Equal(t, "Echo text", tool.Description())
	assert.NotNil(t, tool.InputSchema())
	assert.Empty(t, c.Prompts())

	t.Run("unadvertised capabilities become notices", func(t *testing.T) {
		notices := c.Notices()
		var caps []string
		for _, n := range notices {
			assert.Equal(t, "echo", n.Server)
			assert.True(t, errors.Is(n.Err, ErrUnsupported), n.String())
			caps = append(caps, n.Capability)
		}
		assert.Equal(t, []string{CapResources, CapResourceTemplates, CapPrompts}, caps)
	})

	t.Run("call", func(t *testing.T) {
		out, err := c.Call(ctx, "echo", map[string]any{"text": "hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("tool error", func(t *testing.T) {
		_, err := c.Call(ctx, "echo", map[string]any{})
		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr)
		assert.Equal(t, "echo", toolErr.Server)
		assert.Contains(t, toolErr.Message, "text is required")
	})
}

func TestContentText(t *testing.T) {
	out := ContentText([]mcp.Content{
		&mcp.TextContent{Text: "one"},
		&mcp.ImageContent{MIMEType: "image/png", Data: []byte{1, 2, 3}},
		&mcp.TextContent{Text: "two"},
	})
	assert.Equal(t, "one\n[image: image/png, 3 bytes]\ntwo", out)
}
