// Package mcp exposes a coloring session as Model Context Protocol tools.
// It wraps github.com/mark3labs/mcp-go: tools register themselves with
// DefaultToolRegistry and NewServer binds them to one session.
package mcp

import (
	"context"
	"os"
	"sort"
	"sync"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"brushcolor/internal/logging"
	"brushcolor/internal/palette"
	"brushcolor/internal/session"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "brushcolor"
	ServerVersion = "1.0.0"
)

// ToolHandler is the function signature for MCP tool handlers.
type ToolHandler func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error)

// Env is what a tool handler operates on.
type Env struct {
	Session *session.Session
	Palette []palette.Swatch
}

// ToolHandlerFactory creates a tool handler bound to an Env.
// This lets tools register at init time before any session exists.
type ToolHandlerFactory func(env *Env) ToolHandler

// ToolRegistration holds a tool definition and its handler factory.
type ToolRegistration struct {
	Tool           mcplib.Tool
	HandlerFactory ToolHandlerFactory
}

// ToolRegistry holds all available tools.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]ToolRegistration
}

// NewToolRegistry creates a new empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]ToolRegistration),
	}
}

// Register adds a tool to the registry.
// If a tool with the same name already exists, it will be replaced.
func (r *ToolRegistry) Register(tool mcplib.Tool, handlerFactory ToolHandlerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name] = ToolRegistration{
		Tool:           tool,
		HandlerFactory: handlerFactory,
	}
}

// Get returns a tool registration by name.
func (r *ToolRegistry) Get(name string) (ToolRegistration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.tools[name]
	return reg, ok
}

// All returns all registrations sorted by tool name.
func (r *ToolRegistry) All() []ToolRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := make([]ToolRegistration, 0, len(r.tools))
	for _, reg := range r.tools {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool {
		return regs[i].Tool.Name < regs[j].Tool.Name
	})
	return regs
}

// Names returns the sorted names of all registered tools.
func (r *ToolRegistry) Names() []string {
	regs := r.All()
	names := make([]string, 0, len(regs))
	for _, reg := range regs {
		names = append(names, reg.Tool.Name)
	}
	return names
}

// Count returns the number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// DefaultToolRegistry is the global tool registry instance.
// Tools register themselves here from init functions.
var DefaultToolRegistry = NewToolRegistry()

// NewServer creates an MCP server hosting every tool in registry, bound to env.
func NewServer(registry *ToolRegistry, env *Env) *server.MCPServer {
	srv := server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false))
	for _, reg := range registry.All() {
		name := reg.Tool.Name
		handler := reg.HandlerFactory(env)
		srv.AddTool(reg.Tool, func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
			logging.Logger().Debug("tool call", "tool", name, "session", env.Session.ID())
			return handler(ctx, req)
		})
	}
	return srv
}

// ServeStdio runs srv over stdin/stdout until ctx is cancelled or input ends.
func ServeStdio(ctx context.Context, srv *server.MCPServer) error {
	return server.NewStdioServer(srv).Listen(ctx, os.Stdin, os.Stdout)
}
