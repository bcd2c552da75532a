package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"obst/internal/domain"
	"obst/internal/service"
)

// Observations is the service surface exposed to agents.
type Observations interface {
	Define(ctx context.Context, s *domain.ObservationSchema) (*service.DefineResult, error)
	ListObservations(ctx context.Context) ([]domain.TableInfo, error)
	Load(ctx context.Context, table string) (*domain.ObservationSchema, error)
	AppendText(ctx context.Context, s *domain.ObservationSchema, raw map[string]string) error
}

// Server is the MCP server for ObSt.
// It exposes observation tools, resources and prompts over stdio.
type Server struct {
	mcp *server.MCPServer
	log *slog.Logger

	observations Observations
}

// Deps holds everything the MCP server needs from main.
type Deps struct {
	Observations Observations
	Log          *slog.Logger
	Version      string
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		log:          deps.Log,
		observations: deps.Observations,
	}

	s.mcp = server.NewMCPServer(
		"obst-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerObservationTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("starting MCP stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// requireString returns a non-empty string argument.
func requireString(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return v, nil
}
