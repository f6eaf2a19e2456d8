// ABOUTME: Callable capability types exposed by connected servers
// ABOUTME: Tools proxy to their owning session; resources and prompts are described
package host

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool is a callable capability: a name, an input schema and a way to
// execute it. The catalog stores tools as this interface regardless of
// which server provides them.
type Tool interface {
	Name() string
	Description() string
	InputSchema() any
	Server() string
	Call(ctx context.Context, args map[string]any) (string, error)
}

// ToolError is returned when a server reports a tool result with
// isError set. Message is the text the server returned.
type ToolError struct {
	Tool    string
	Server  string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s on %s failed: %s", e.Tool, e.Server, e.Message)
}

// remoteTool proxies calls to the session that listed it.
type remoteTool struct {
	server  string
	session Session
	def     *mcp.Tool
}

func (t *remoteTool) Name() string        { return t.def.Name }
func (t *remoteTool) Description() string { return t.def.Description }
func (t *remoteTool) InputSchema() any    { return t.def.InputSchema }
func (t *remoteTool) Server() string      { return t.server }

func (t *remoteTool) Call(ctx context.Context, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}
	res, err := t.session.CallTool(ctx, t.def.Name, args)
	if err != nil {
		return "", fmt.Errorf("call %s on %s: %w", t.def.Name, t.server, err)
	}
	text := ContentText(res.Content)
	if res.IsError {
		return "", &ToolError{Tool: t.def.Name, Server: t.server, Message: text}
	}
	return text, nil
}

// ResourceInfo describes a readable resource or resource template.
type ResourceInfo struct {
	URI         string
	Template    bool
	Name        string
	Description string
	MIMEType    string
	Server      string
}

// PromptInfo describes a prompt template.
type PromptInfo struct {
	Name        string
	Description string
	Arguments   []*mcp.PromptArgument
	Server      string
}
