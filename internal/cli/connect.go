// ABOUTME: Shared startup for commands that talk to MCP servers
// ABOUTME: Connects every configured server and builds the capability catalog
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/paperchat/internal/config"
	"github.com/harper/paperchat/internal/host"
)

// version is reported to MCP servers as the client version.
const version = "0.1.0"

// connectServers launches every entry and registers it in a new catalog.
// The caller must close the returned pool.
func connectServers(ctx context.Context, entries []config.ServerEntry, logger *slog.Logger) (*host.Pool, *host.Catalog, error) {
	impl := &mcp.Implementation{Name: "paperchat", Version: version}
	pool := host.NewPool(host.CommandDialer(impl, os.Stderr), logger)

	conns, err := pool.ConnectAll(ctx, entries)
	if err != nil {
		return nil, nil, err
	}

	catalog := host.NewCatalog(logger)
	catalog.RegisterAll(ctx, conns)
	return pool, catalog, nil
}

// closePool closes every session, warning on failure.
func closePool(pool *host.Pool) {
	if err := pool.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close MCP sessions: %v\n", err)
	}
}

// printNotices prints unsupported listings and name collisions.
func printNotices(w io.Writer, catalog *host.Catalog) {
	for _, n := range catalog.Notices() {
		_, _ = color.New(color.FgYellow).Fprintln(w, n.String())
	}
	for _, warning := range catalog.Warnings() {
		_, _ = color.New(color.FgYellow).Fprintf(w, "Warning: %s\n", warning)
	}
}
