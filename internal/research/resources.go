// ABOUTME: MCP resources rendering the paper store as markdown
// ABOUTME: papers://folders lists topics and papers://{topic} lists one topic
package research

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	resourceScheme = "papers://"
	foldersURI     = resourceScheme + "folders"
	summaryLimit   = 500
)

// registerResources adds the folders resource and the topic template.
func (s *Server) registerResources() {
	folders := &mcp.Resource{
		URI:         foldersURI,
		Name:        "folders",
		Description: "List all available topic folders in the papers directory",
		MIMEType:    "text/markdown",
	}
	s.mcpServer.AddResource(folders, s.handleFolders)

	topic := &mcp.ResourceTemplate{
		URITemplate: resourceScheme + "{topic}",
		Name:        "topic_papers",
		Description: "Detailed information about papers stored for a specific topic",
		MIMEType:    "text/markdown",
	}
	s.mcpServer.AddResourceTemplate(topic, s.handleTopic)
}

// handleFolders implements the papers://folders resource.
func (s *Server) handleFolders(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	topics, err := s.store.Topics()
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return markdownResult(req.Params.URI, renderFolders(topics)), nil
}

// handleTopic implements the papers://{topic} resource template.
func (s *Server) handleTopic(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	topic := strings.TrimPrefix(uri, resourceScheme)
	if decoded, err := url.PathUnescape(topic); err == nil {
		topic = decoded
	}

	papers, err := s.store.Load(topic)
	if errors.Is(err, ErrTopicNotFound) {
		return markdownResult(uri, renderMissingTopic(topic)), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load topic %s: %w", topic, err)
	}
	return markdownResult(uri, renderTopic(topic, papers)), nil
}

func markdownResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     text,
			},
		},
	}
}

func renderFolders(topics []string) string {
	if len(topics) == 0 {
		return "# Available Topics\n\nNo topics found.\n"
	}

	var sb strings.Builder
	sb.WriteString("# Available Topics\n\n")
	for _, t := range topics {
		sb.WriteString(fmt.Sprintf("- %s\n", t))
	}
	sb.WriteString(fmt.Sprintf("\nUse @%s to access papers in that topic.\n", topics[0]))
	return sb.String()
}

func renderMissingTopic(topic string) string {
	return fmt.Sprintf("# No papers found for topic: %s\n\nTry searching for papers on this topic first.", topic)
}

func renderTopic(topic string, papers map[string]Paper) string {
	title := cases.Title(language.English).String(strings.ReplaceAll(TopicDir(topic), "_", " "))

	ids := make([]string, 0, len(papers))
	for id := range papers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Papers on %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Total papers: %d\n\n", len(papers)))

	for _, id := range ids {
		p := papers[id]
		sb.WriteString(fmt.Sprintf("## %s\n", p.Title))
		sb.WriteString(fmt.Sprintf("- **Paper ID**: %s\n", id))
		sb.WriteString(fmt.Sprintf("- **Authors**: %s\n", strings.Join(p.Authors, ", ")))
		sb.WriteString(fmt.Sprintf("- **Published**: %s\n", p.Published))
		sb.WriteString(fmt.Sprintf("- **PDF URL**: [%s](%s)\n\n", p.PDFURL, p.PDFURL))
		sb.WriteString("### Summary\n")
		sb.WriteString(truncate(p.Summary, summaryLimit))
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String()
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
