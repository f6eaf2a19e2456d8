// ABOUTME: MCP tool implementations for paper search and lookup
// ABOUTME: search_papers fetches from arXiv and stores, extract_info reads back
package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DefaultMaxResults is used when search_papers is called without max_results.
const DefaultMaxResults = 5

// SearchPapersInput defines the input for the search_papers tool.
type SearchPapersInput struct {
	Topic      string `json:"topic" jsonschema:"The topic to search for"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results to retrieve (default: 5)"`
}

// SearchPapersOutput defines the output for the search_papers tool.
type SearchPapersOutput struct {
	PaperIDs []string `json:"paper_ids" jsonschema:"IDs of the papers found"`
}

// ExtractInfoInput defines the input for the extract_info tool.
type ExtractInfoInput struct {
	PaperID string `json:"paper_id" jsonschema:"The ID of the paper to look for"`
}

// ExtractInfoOutput defines the output for the extract_info tool.
type ExtractInfoOutput struct {
	PaperID string `json:"paper_id"`
	Found   bool   `json:"found"`
	Topic   string `json:"topic,omitempty"`
	Paper   *Paper `json:"paper,omitempty"`
}

// registerTools adds all MCP tools to the server.
func (s *Server) registerTools() {
	searchTool := &mcp.Tool{
		Name:        "search_papers",
		Description: "Search for papers on arXiv based on a topic and store their information.",
	}
	mcp.AddTool(s.mcpServer, searchTool, s.handleSearchPapers)

	extractTool := &mcp.Tool{
		Name:        "extract_info",
		Description: "Search for information about a specific paper across all topic directories.",
	}
	mcp.AddTool(s.mcpServer, extractTool, s.handleExtractInfo)
}

// handleSearchPapers implements the search_papers tool.
func (s *Server) handleSearchPapers(ctx context.Context, req *mcp.CallToolRequest, input SearchPapersInput) (*mcp.CallToolResult, SearchPapersOutput, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return nil, SearchPapersOutput{}, errors.New("topic is required")
	}
	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	results, err := s.searcher.Search(ctx, topic, maxResults)
	if err != nil {
		return nil, SearchPapersOutput{}, fmt.Errorf("search arxiv: %w", err)
	}

	papers := make(map[string]Paper, len(results))
	output := SearchPapersOutput{PaperIDs: make([]string, 0, len(results))}
	for _, r := range results {
		papers[r.ID] = r.Paper
		output.PaperIDs = append(output.PaperIDs, r.ID)
	}

	if err := s.store.Merge(topic, papers); err != nil {
		return nil, SearchPapersOutput{}, fmt.Errorf("save papers: %w", err)
	}
	s.logger.Info("saved papers", "topic", topic, "count", len(results), "path", s.store.Path(topic))

	data, err := json.Marshal(output.PaperIDs)
	if err != nil {
		return nil, SearchPapersOutput{}, err
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}

	return result, output, nil
}

// handleExtractInfo implements the extract_info tool.
func (s *Server) handleExtractInfo(ctx context.Context, req *mcp.CallToolRequest, input ExtractInfoInput) (*mcp.CallToolResult, ExtractInfoOutput, error) {
	id := strings.TrimSpace(input.PaperID)
	output := ExtractInfoOutput{PaperID: id}

	paper, topic, found, err := s.store.Find(id)
	if err != nil {
		return nil, output, fmt.Errorf("read paper store: %w", err)
	}

	text := fmt.Sprintf("There's no saved information related to paper %s.", id)
	if found {
		data, err := json.MarshalIndent(paper, "", "  ")
		if err != nil {
			return nil, output, err
		}
		text = string(data)
		output.Found = true
		output.Topic = topic
		output.Paper = &paper
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}

	return result, output, nil
}
