package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"obst/internal/domain"
)

func (s *Server) registerObservationTools() {
	s.mcp.AddTool(mcp.NewTool("list_observations",
		mcp.WithDescription("List observation tables with their row counts"),
	), s.handleListObservations)

	s.mcp.AddTool(mcp.NewTool("describe_observation",
		mcp.WithDescription("Show the fields of an observation table, rebuilt from the store's catalog"),
		mcp.WithString("name", mcp.Description("Observation (table) name"), mcp.Required()),
	), s.handleDescribeObservation)

	s.mcp.AddTool(mcp.NewTool("define_observation",
		mcp.WithDescription("Define a new observation table. Defining an existing one is a no-op that reports created=false."),
		mcp.WithString("name", mcp.Description("Observation name: letters, digits and underscores"), mcp.Required()),
		mcp.WithBoolean("timestamped", mcp.Description("Add a Date column filled automatically on every record")),
		mcp.WithString("fields", mcp.Description(`Fields as JSON: [{"name": "reading", "type": "Float"}, ...]. Types: Integer, Float, Boolean, Timestamp`)),
	), s.handleDefineObservation)

	s.mcp.AddTool(mcp.NewTool("append_observation",
		mcp.WithDescription("Record one observation. Date is filled automatically for timestamped observations."),
		mcp.WithString("name", mcp.Description("Observation (table) name"), mcp.Required()),
		mcp.WithString("values", mcp.Description(`Values as a JSON object keyed by field name, e.g. {"reading": 21.5}`), mcp.Required()),
	), s.handleAppendObservation)
}

func (s *Server) handleListObservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tables, err := s.observations.ListObservations(ctx)
	if err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []domain.TableInfo{}
	}
	return jsonResult(tables)
}

func (s *Server) handleDescribeObservation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireString(req.GetArguments(), "name")
	if err != nil {
		return nil, err
	}
	obs, err := s.observations.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return jsonResult(obs)
}

type fieldArg struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleDefineObservation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	timestamped, _ := args["timestamped"].(bool)

	var fields []fieldArg
	if raw, _ := args["fields"].(string); raw != "" {
		if err := parseJSON(raw, &fields); err != nil {
			return nil, fmt.Errorf("parse fields: %w", err)
		}
	}

	obs := &domain.ObservationSchema{Name: name, Timestamped: timestamped}
	for _, f := range fields {
		ft, err := domain.ParseFieldType(f.Type)
		if err != nil {
			return nil, &domain.InputError{Input: f.Type, Err: fmt.Errorf("field %s: %w", f.Name, err)}
		}
		if obs.HasField(f.Name) {
			return nil, &domain.SchemaError{Field: f.Name, Err: domain.ErrDuplicateField}
		}
		obs.Fields = append(obs.Fields, domain.FieldDefinition{Name: f.Name, Type: ft})
	}

	res, err := s.observations.Define(ctx, obs)
	if err != nil {
		return nil, err
	}
	s.log.Info("observation defined via MCP", "table", res.Table, "created", res.Created)
	return jsonResult(res)
}

func (s *Server) handleAppendObservation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	rawValues, err := requireString(args, "values")
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := parseJSONNumbers(rawValues, &decoded); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	values := make(map[string]string, len(decoded))
	for k, v := range decoded {
		text, err := textValue(v)
		if err != nil {
			return nil, fmt.Errorf("value for %s: %w", k, err)
		}
		values[k] = text
	}

	obs, err := s.observations.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	for k := range values {
		if !obs.HasField(k) || (obs.Timestamped && k == obs.TimestampField()) {
			return nil, &domain.InputError{Input: k, Err: fmt.Errorf("%w: %s has no field %s", domain.ErrInvalidValue, name, k)}
		}
	}

	if err := s.observations.AppendText(ctx, obs, values); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Recorded observation in %s.", name)), nil
}
