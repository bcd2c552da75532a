package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const observationURIPrefix = "obst://observation/"

func (s *Server) registerResources() {
	// ── obst://observations ────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"obst://observations",
		"All Observations",
		mcp.WithMIMEType("application/json"),
	), s.handleObservationsResource)

	// ── obst://observation/{name} ──────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			observationURIPrefix+"{name}",
			"Observation Schema",
		),
		s.handleObservationResource,
	)
}

func (s *Server) handleObservationsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tables, err := s.observations.ListObservations(ctx)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(tables, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "obst://observations",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleObservationResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	name := strings.TrimPrefix(uri, observationURIPrefix)
	if name == "" || name == uri {
		return nil, fmt.Errorf("could not extract observation name from URI: %s", uri)
	}

	obs, err := s.observations.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(obs, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
