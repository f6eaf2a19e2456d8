// ABOUTME: Flattens MCP content blocks into plain text
// ABOUTME: Used for tool results, resource contents and prompt messages
package host

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ContentText joins the text of every content block. Non-text blocks
// are summarized so the model knows they were there.
func ContentText(contents []mcp.Content) string {
	parts := make([]string, 0, len(contents))
	for _, c := range contents {
		switch v := c.(type) {
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.ImageContent:
			parts = append(parts, fmt.Sprintf("[image: %s, %d bytes]", v.MIMEType, len(v.Data)))
		case *mcp.AudioContent:
			parts = append(parts, fmt.Sprintf("[audio: %s, %d bytes]", v.MIMEType, len(v.Data)))
		case *mcp.ResourceLink:
			parts = append(parts, fmt.Sprintf("[resource: %s]", v.URI))
		case *mcp.EmbeddedResource:
			if v.Resource != nil {
				parts = append(parts, resourceContentText(v.Resource))
			}
		default:
			data, err := json.Marshal(c)
			if err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// ResourceText joins the text of every resource content entry.
func ResourceText(contents []*mcp.ResourceContents) string {
	parts := make([]string, 0, len(contents))
	for _, c := range contents {
		parts = append(parts, resourceContentText(c))
	}
	return strings.Join(parts, "\n")
}

// PromptText joins the text of every prompt message.
func PromptText(messages []*mcp.PromptMessage) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		if m == nil || m.Content == nil {
			continue
		}
		parts = append(parts, ContentText([]mcp.Content{m.Content}))
	}
	return strings.Join(parts, "\n")
}

func resourceContentText(c *mcp.ResourceContents) string {
	if c.Text != "" {
		return c.Text
	}
	if len(c.Blob) > 0 {
		return fmt.Sprintf("[binary resource %s: %s, %d bytes]", c.URI, c.MIMEType, len(c.Blob))
	}
	return ""
}
