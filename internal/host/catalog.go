// ABOUTME: Aggregates tools, resources and prompts from every connected server
// ABOUTME: Routes calls by name and records notices for unsupported listings
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"
)

var (
	// ErrUnknownTool is returned when no server registered the requested tool.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrUnknownResource is returned when no server can serve a URI.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrUnknownPrompt is returned when no server registered the requested prompt.
	ErrUnknownPrompt = errors.New("unknown prompt")
)

// Capability names used in notices.
const (
	CapTools             = "tools"
	CapResources         = "resources"
	CapResourceTemplates = "resource templates"
	CapPrompts           = "prompts"
)

// Notice records a listing call a server could not answer.
type Notice struct {
	Server     string
	Capability string
	Err        error
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s unsupported: %v", n.Server, n.Capability, n.Err)
}

type resourceEntry struct {
	info    ResourceInfo
	session Session
	tmpl    *uritemplate.Template
}

type promptEntry struct {
	info    PromptInfo
	session Session
}

// Catalog is the flat namespace built from every registered server.
type Catalog struct {
	logger *slog.Logger

	tools     map[string]Tool
	toolOrder []string

	resources map[string]*resourceEntry
	templates []*resourceEntry

	prompts     map[string]*promptEntry
	promptOrder []string

	notices  []Notice
	warnings []string
}

// NewCatalog creates an empty catalog.
func NewCatalog(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		logger:    logger,
		tools:     make(map[string]Tool),
		resources: make(map[string]*resourceEntry),
		prompts:   make(map[string]*promptEntry),
	}
}

// RegisterAll registers every connection in order.
func (c *Catalog) RegisterAll(ctx context.Context, conns []Connection) {
	for _, conn := range conns {
		c.Register(ctx, conn.Name, conn.Session)
	}
}

// Register lists each capability of session and adds the results under
// server. Each listing is attempted independently: a failure becomes a
// notice and contributes nothing, and the rest still run.
func (c *Catalog) Register(ctx context.Context, server string, session Session) {
	if tools, err := session.ListTools(ctx); err != nil {
		c.notice(server, CapTools, err)
	} else {
		for _, def := range tools {
			c.addTool(&remoteTool{server: server, session: session, def: def})
		}
	}

	if resources, err := session.ListResources(ctx); err != nil {
		c.notice(server, CapResources, err)
	} else {
		for _, r := range resources {
			c.addResource(server, session, r)
		}
	}

	if templates, err := session.ListResourceTemplates(ctx); err != nil {
		c.notice(server, CapResourceTemplates, err)
	} else {
		for _, t := range templates {
			c.addTemplate(server, session, t)
		}
	}

	if prompts, err := session.ListPrompts(ctx); err != nil {
		c.notice(server, CapPrompts, err)
	} else {
		for _, p := range prompts {
			c.addPrompt(server, session, p)
		}
	}

	c.logger.Debug("registered MCP server",
		"server", server,
		"tools", len(c.tools),
		"resources", len(c.resources),
		"templates", len(c.templates),
		"prompts", len(c.prompts))
}

// AddTool registers a tool that is not backed by a listed session.
func (c *Catalog) AddTool(t Tool) {
	c.addTool(t)
}

func (c *Catalog) addTool(t Tool) {
	name := t.Name()
	if existing, ok := c.tools[name]; ok {
		c.warn("tool %q from %s shadowed by %s; keeping %s", name, t.Server(), existing.Server(), existing.Server())
		return
	}
	c.tools[name] = t
	c.toolOrder = append(c.toolOrder, name)
}

func (c *Catalog) addResource(server string, session Session, r *mcp.Resource) {
	if existing, ok := c.resources[r.URI]; ok {
		c.warn("resource %q from %s shadowed by %s", r.URI, server, existing.info.Server)
		return
	}
	c.resources[r.URI] = &resourceEntry{
		info: ResourceInfo{
			URI:         r.URI,
			Name:        r.Name,
			Description: r.Description,
			MIMEType:    r.MIMEType,
			Server:      server,
		},
		session: session,
	}
}

func (c *Catalog) addTemplate(server string, session Session, t *mcp.ResourceTemplate) {
	tmpl, err := uritemplate.New(t.URITemplate)
	if err != nil {
		c.warn("resource template %q from %s is invalid: %v", t.URITemplate, server, err)
		return
	}
	for _, existing := range c.templates {
		if existing.info.URI == t.URITemplate {
			c.warn("resource template %q from %s shadowed by %s", t.URITemplate, server, existing.info.Server)
			return
		}
	}
	c.templates = append(c.templates, &resourceEntry{
		info: ResourceInfo{
			URI:         t.URITemplate,
			Template:    true,
			Name:        t.Name,
			Description: t.Description,
			MIMEType:    t.MIMEType,
			Server:      server,
		},
		session: session,
		tmpl:    tmpl,
	})
}

func (c *Catalog) addPrompt(server string, session Session, p *mcp.Prompt) {
	if existing, ok := c.prompts[p.Name]; ok {
		c.warn("prompt %q from %s shadowed by %s", p.Name, server, existing.info.Server)
		return
	}
	c.prompts[p.Name] = &promptEntry{
		info: PromptInfo{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   p.Arguments,
			Server:      server,
		},
		session: session,
	}
	c.promptOrder = append(c.promptOrder, p.Name)
}

func (c *Catalog) notice(server, capability string, err error) {
	n := Notice{Server: server, Capability: capability, Err: err}
	c.notices = append(c.notices, n)
	c.logger.Debug("listing unsupported", "server", server, "capability", capability, "error", err)
}

func (c *Catalog) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.warnings = append(c.warnings, msg)
	c.logger.Warn(msg)
}

// Tool returns the tool registered under name.
func (c *Catalog) Tool(name string) (Tool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

// Tools returns every registered tool in registration order.
func (c *Catalog) Tools() []Tool {
	out := make([]Tool, 0, len(c.toolOrder))
	for _, name := range c.toolOrder {
		out = append(out, c.tools[name])
	}
	return out
}

// Call executes the named tool on the server that registered it.
func (c *Catalog) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := c.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Call(ctx, args)
}

// Resources returns exact resources sorted by URI followed by templates
// in registration order.
func (c *Catalog) Resources() []ResourceInfo {
	out := make([]ResourceInfo, 0, len(c.resources)+len(c.templates))
	for _, r := range c.resources {
		out = append(out, r.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	for _, t := range c.templates {
		out = append(out, t.info)
	}
	return out
}

// ReadResource reads uri from the server that can serve it: an exact
// resource first, then a matching template, then any server exposing a
// resource with the same scheme.
func (c *Catalog) ReadResource(ctx context.Context, uri string) (string, error) {
	entry := c.resolveResource(uri)
	if entry == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, uri)
	}

	res, err := entry.session.ReadResource(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("read %s from %s: %w", uri, entry.info.Server, err)
	}
	return ResourceText(res.Contents), nil
}

func (c *Catalog) resolveResource(uri string) *resourceEntry {
	if r, ok := c.resources[uri]; ok {
		return r
	}
	for _, t := range c.templates {
		if t.tmpl.Regexp().MatchString(uri) {
			return t
		}
	}

	scheme, _, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return nil
	}
	prefix := scheme + "://"
	for _, info := range c.Resources() {
		if !strings.HasPrefix(info.URI, prefix) {
			continue
		}
		if info.Template {
			for _, t := range c.templates {
				if t.info.URI == info.URI {
					return t
				}
			}
			continue
		}
		return c.resources[info.URI]
	}
	return nil
}

// Prompts returns every registered prompt in registration order.
func (c *Catalog) Prompts() []PromptInfo {
	out := make([]PromptInfo, 0, len(c.promptOrder))
	for _, name := range c.promptOrder {
		out = append(out, c.prompts[name].info)
	}
	return out
}

// GetPrompt renders the named prompt with args and flattens its messages.
func (c *Catalog) GetPrompt(ctx context.Context, name string, args map[string]string) (string, error) {
	p, ok := c.prompts[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPrompt, name)
	}
	res, err := p.session.GetPrompt(ctx, name, args)
	if err != nil {
		return "", fmt.Errorf("get prompt %s from %s: %w", name, p.info.Server, err)
	}
	return PromptText(res.Messages), nil
}

// Notices returns the listing failures recorded during registration.
func (c *Catalog) Notices() []Notice {
	return c.notices
}

// Warnings returns collision and template warnings recorded during
// registration.
func (c *Catalog) Warnings() []string {
	return c.warnings
}
