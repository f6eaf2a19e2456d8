// ABOUTME: Launches configured MCP servers and owns their sessions
// ABOUTME: Closes every opened session on exit or when a later server fails
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"

	"github.com/harper/paperchat/internal/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Dialer opens a session to one configured server.
type Dialer func(ctx context.Context, entry config.ServerEntry) (Session, error)

// Connection is an open session and the entry it was launched from.
type Connection struct {
	Name    string
	Entry   config.ServerEntry
	Session Session
}

// Pool holds every session opened for this process.
type Pool struct {
	dial   Dialer
	logger *slog.Logger
	conns  []Connection
}

// NewPool creates a pool that opens sessions with dial.
func NewPool(dial Dialer, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{dial: dial, logger: logger}
}

// CommandDialer launches each server as a subprocess speaking MCP over
// stdio. The child's stderr is copied to stderr when it is non-nil.
func CommandDialer(impl *mcp.Implementation, stderr io.Writer) Dialer {
	client := mcp.NewClient(impl, nil)

	return func(ctx context.Context, entry config.ServerEntry) (Session, error) {
		cmd := exec.Command(entry.Command, entry.Args...) //nolint:gosec // Commands come from the user's server config
		cmd.Env = os.Environ()
		for k, v := range entry.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
		if stderr != nil {
			cmd.Stderr = stderr
		}

		cs, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
		if err != nil {
			return nil, err
		}
		return NewSession(cs), nil
	}
}

// ConnectAll opens a session for every entry, in order. If any server
// fails to start, the sessions already opened are closed and the error
// is returned.
func (p *Pool) ConnectAll(ctx context.Context, entries []config.ServerEntry) ([]Connection, error) {
	for _, entry := range entries {
		session, err := p.dial(ctx, entry)
		if err != nil {
			connectErr := fmt.Errorf("connect to %s (%s): %w", entry.Name, entry, err)
			return nil, errors.Join(connectErr, p.Close())
		}

		p.conns = append(p.conns, Connection{
			Name:    entry.Name,
			Entry:   entry,
			Session: session,
		})
		p.logger.Info("connected to MCP server", "server", entry.Name, "command", entry.String())
	}

	return slices.Clone(p.conns), nil
}

// Connections returns the open sessions in connection order.
func (p *Pool) Connections() []Connection {
	return slices.Clone(p.conns)
}

// Close closes every session in reverse connection order.
func (p *Pool) Close() error {
	var errs []error
	for i := len(p.conns) - 1; i >= 0; i-- {
		c := p.conns[i]
		if err := c.Session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name, err))
			continue
		}
		p.logger.Debug("closed MCP session", "server", c.Name)
	}
	p.conns = nil
	return errors.Join(errs...)
}
