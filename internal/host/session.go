// ABOUTME: MCP client session adapter
// ABOUTME: Pages list calls and skips capabilities the server did not advertise
package host

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrUnsupported marks a capability the server did not advertise during
// initialization.
var ErrUnsupported = errors.New("capability not advertised by server")

// Session is the part of an MCP client session the catalog uses.
type Session interface {
	ListTools(ctx context.Context) ([]*mcp.Tool, error)
	ListResources(ctx context.Context) ([]*mcp.Resource, error)
	ListResourceTemplates(ctx context.Context) ([]*mcp.ResourceTemplate, error)
	ListPrompts(ctx context.Context) ([]*mcp.Prompt, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
	ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error)
	GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error)
	Close() error
}

type clientSession struct {
	cs   *mcp.ClientSession
	caps *mcp.ServerCapabilities
}

// NewSession wraps an initialized go-sdk client session.
func NewSession(cs *mcp.ClientSession) Session {
	s := &clientSession{cs: cs}
	if ir := cs.InitializeResult(); ir != nil {
		s.caps = ir.Capabilities
	}
	return s
}

func (s *clientSession) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	if s.caps != nil && s.caps.Tools == nil {
		return nil, ErrUnsupported
	}
	return paginate(ctx, func(ctx context.Context, cursor string) ([]*mcp.Tool, string, error) {
		res, err := s.cs.ListTools(ctx, &mcp.ListToolsParams{Cursor: cursor})
		if err != nil {
			return nil, "", err
		}
		return res.Tools, res.NextCursor, nil
	})
}

func (s *clientSession) ListResources(ctx context.Context) ([]*mcp.Resource, error) {
	if s.caps != nil && s.caps.Resources == nil {
		return nil, ErrUnsupported
	}
	return paginate(ctx, func(ctx context.Context, cursor string) ([]*mcp.Resource, string, error) {
		res, err := s.cs.ListResources(ctx, &mcp.ListResourcesParams{Cursor: cursor})
		if err != nil {
			return nil, "", err
		}
		return res.Resources, res.NextCursor, nil
	})
}

func (s *clientSession) ListResourceTemplates(ctx context.Context) ([]*mcp.ResourceTemplate, error) {
	if s.caps != nil && s.caps.Resources == nil {
		return nil, ErrUnsupported
	}
	return paginate(ctx, func(ctx context.Context, cursor string) ([]*mcp.ResourceTemplate, string, error) {
		res, err := s.cs.ListResourceTemplates(ctx, &mcp.ListResourceTemplatesParams{Cursor: cursor})
		if err != nil {
			return nil, "", err
		}
		return res.ResourceTemplates, res.NextCursor, nil
	})
}

func (s *clientSession) ListPrompts(ctx context.Context) ([]*mcp.Prompt, error) {
	if s.caps != nil && s.caps.Prompts == nil {
		return nil, ErrUnsupported
	}
	return paginate(ctx, func(ctx context.Context, cursor string) ([]*mcp.Prompt, string, error) {
		res, err := s.cs.ListPrompts(ctx, &mcp.ListPromptsParams{Cursor: cursor})
		if err != nil {
			return nil, "", err
		}
		return res.Prompts, res.NextCursor, nil
	})
}

func (s *clientSession) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return s.cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
}

func (s *clientSession) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	return s.cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
}

func (s *clientSession) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	return s.cs.GetPrompt(ctx, &mcp.GetPromptParams{Name: name, Arguments: args})
}

func (s *clientSession) Close() error {
	return s.cs.Close()
}

// paginate follows list cursors until the server stops returning one.
func paginate[T any](ctx context.Context, fetch func(ctx context.Context, cursor string) ([]T, string, error)) ([]T, error) {
	var all []T
	cursor := ""
	for {
		items, next, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == "" || next == cursor {
			return all, nil
		}
		cursor = next
	}
}
