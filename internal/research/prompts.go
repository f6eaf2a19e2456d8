// ABOUTME: MCP prompt that seeds a structured literature search
// ABOUTME: generate_search_prompt fills a fixed template with topic and count
package research

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const searchPromptTemplate = `Search for %[2]d academic papers about '%[1]s' using the search_papers tool. Follow these instructions:
1. First, search for papers using search_papers(topic='%[1]s', max_results=%[2]d)
2. For each paper found, extract and organize the following information:
   - Paper title
   - Authors
   - Publication date
   - Brief summary of the key findings
   - Main contributions or innovations
   - Methodologies used
   - Relevance to the topic '%[1]s'
3. Provide a comprehensive summary that includes:
   - Overview of the current state of research in '%[1]s'
   - Common themes and trends across the papers
   - Key research gaps or areas for future investigation
   - Most impactful or influential papers in this area
4. Organize your findings in a clear, structured format with headings and bullet points for easy readability.

Please present both detailed information about each paper and a high-level synthesis of the research landscape in %[1]s.`

// SearchPrompt renders the generate_search_prompt text.
func SearchPrompt(topic string, numPapers int) string {
	return fmt.Sprintf(searchPromptTemplate, topic, numPapers)
}

// registerPrompts adds the search prompt to the MCP server.
func (s *Server) registerPrompts() {
	prompt := &mcp.Prompt{
		Name:        "generate_search_prompt",
		Description: "Generate a prompt for Gemini to find and discuss academic papers on a specific topic.",
		Arguments: []*mcp.PromptArgument{
			{Name: "topic", Description: "The topic to search for", Required: true},
			{Name: "num_papers", Description: "Number of papers to find (default: 5)"},
		},
	}

	s.mcpServer.AddPrompt(prompt, s.handleSearchPrompt)
}

func (s *Server) handleSearchPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	topic := strings.TrimSpace(args["topic"])
	if topic == "" {
		return nil, errors.New("topic is required")
	}

	numPapers := DefaultMaxResults
	if raw := strings.TrimSpace(args["num_papers"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("num_papers must be a positive integer, got %q", raw)
		}
		numPapers = n
	}

	result := &mcp.GetPromptResult{
		Description: fmt.Sprintf("Search for papers about %s", topic),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: SearchPrompt(topic, numPapers),
				},
			},
		},
	}

	return result, nil
}
