// ABOUTME: In-package fake MCP session for catalog and pool tests
// ABOUTME: Each listing can be made to fail and every call is recorded
package host

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type fakeSession struct {
	name      string
	tools     []*mcp.Tool
	resources []*mcp.Resource
	templates []*mcp.ResourceTemplate
	prompts   []*mcp.Prompt

	toolsErr     error
	resourcesErr error
	templatesErr error
	promptsErr   error

	calls  []string
	reads  []string
	closed bool
}

func (f *fakeSession) ListTools(context.Context) ([]*mcp.Tool, error) {
	return f.tools, f.toolsErr
}

func (f *fakeSession) ListResources(context.Context) ([]*mcp.Resource, error) {
	return f.resources, f.resourcesErr
}

func (f *fakeSession) ListResourceTemplates(context.Context) ([]*mcp.ResourceTemplate, error) {
	return f.templates, f.templatesErr
}

func (f *fakeSession) ListPrompts(context.Context) ([]*mcp.Prompt, error) {
	return f.prompts, f.promptsErr
}

func (f *fakeSession) CallTool(_ context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	f.calls = append(f.calls, name)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("%s:%s:%v", f.name, name, args)}},
	}, nil
}

func (f *fakeSession) ReadResource(_ context.Context, uri string) (*mcp.ReadResourceResult, error) {
	f.reads = append(f.reads, uri)
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, Text: f.name + " " + uri}},
	}, nil
}

func (f *fakeSession) GetPrompt(_ context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: fmt.Sprintf("%s prompt %s topic=%s", f.name, name, args["topic"])}},
		},
	}, nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}
