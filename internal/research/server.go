// ABOUTME: MCP server exposing arXiv search and the local paper store
// ABOUTME: Serves tools, resources and a prompt over stdio
package research

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to clients during initialization.
const Version = "0.1.0"

// Server wraps the MCP server with the research tools.
type Server struct {
	mcpServer *mcp.Server
	store     *Store
	searcher  Searcher
	logger    *slog.Logger
}

// NewServer creates a research MCP server backed by store and searcher.
func NewServer(store *Store, searcher Searcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	impl := &mcp.Implementation{
		Name:    "research",
		Version: Version,
	}

	server := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		store:     store,
		searcher:  searcher,
		logger:    logger,
	}

	server.registerPrompts()
	server.registerTools()
	server.registerResources()

	return server
}

// Run serves over stdin/stdout until the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("research server starting", "storage", s.store.Root())
	transport := &mcp.StdioTransport{}
	return s.mcpServer.Run(ctx, transport)
}

// Connect serves a single session over transport. Used to run the
// server in-process.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, transport, nil)
}
