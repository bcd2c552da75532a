package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"obst/internal/domain"
	"obst/internal/schema"
)

// ─────────────────────────────────────────────────────────────
// ObservationService — compiles schemas and talks to the gateway
// ─────────────────────────────────────────────────────────────

// ObservationService defines observation tables, lists them, rebuilds their
// schemas and appends records.
type ObservationService struct {
	gw    domain.Gateway
	clock clockwork.Clock
	log   *slog.Logger
}

// NewObservationService creates an ObservationService. clock supplies the
// automatic Date value on append.
func NewObservationService(gw domain.Gateway, clock clockwork.Clock, log *slog.Logger) *ObservationService {
	return &ObservationService{gw: gw, clock: clock, log: log}
}

// DefineResult reports what Define did.
type DefineResult struct {
	Table     string `json:"table"`
	Statement string `json:"statement"`
	Created   bool   `json:"created"`
}

// ── Definition ─────────────────────────────────────────────

// Define compiles s and creates its table. Invalid schemas fail before any
// storage request. Defining an existing table succeeds with Created=false.
func (s *ObservationService) Define(ctx context.Context, obs *domain.ObservationSchema) (*DefineResult, error) {
	req, err := schema.Compile(obs)
	if err != nil {
		return nil, err
	}

	existing, err := s.gw.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	exists := containsFold(existing, req.Table)

	if err := s.gw.CreateTable(ctx, req); err != nil {
		return nil, fmt.Errorf("create observation %s: %w", req.Table, err)
	}

	if exists {
		s.log.Info("observation already exists", "table", req.Table)
	} else {
		s.log.Info("observation created", "table", req.Table, "columns", len(req.Columns))
	}
	return &DefineResult{Table: req.Table, Statement: req.String(), Created: !exists}, nil
}

// Commit lets the service act as the wizard's committer.
func (s *ObservationService) Commit(ctx context.Context, obs *domain.ObservationSchema) error {
	_, err := s.Define(ctx, obs)
	return err
}

// ── Catalog ────────────────────────────────────────────────

// ListObservations returns every user table with its row count. Tables
// whose names cannot be used as identifiers are listed with Rows = -1.
func (s *ObservationService) ListObservations(ctx context.Context) ([]domain.TableInfo, error) {
	names, err := s.gw.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]domain.TableInfo, 0, len(names))
	for _, name := range names {
		count, err := s.gw.CountRows(ctx, name)
		if err != nil {
			if domain.Kind(err) != domain.KindSchema {
				return nil, err
			}
			s.log.Warn("skipping row count", "table", name, "error", err)
			count = -1
		}
		tables = append(tables, domain.TableInfo{Name: name, Rows: count})
	}
	return tables, nil
}

// Load rebuilds the schema of an existing observation table.
func (s *ObservationService) Load(ctx context.Context, table string) (*domain.ObservationSchema, error) {
	cols, err := s.gw.DescribeTable(ctx, table)
	if err != nil {
		return nil, err
	}
	obs := domain.SchemaFromColumns(table, cols)
	for _, f := range obs.Fields {
		if f.Type == domain.FieldTypeOpaque {
			s.log.Debug("untyped column", "table", table, "column", f.Name, "declared", f.Declared)
		}
	}
	return obs, nil
}

// ── Records ────────────────────────────────────────────────

// Append stores one record. values align with obs.Fields; the Date column
// of a timestamped observation is filled from the clock.
func (s *ObservationService) Append(ctx context.Context, obs *domain.ObservationSchema, values []any) error {
	row := make([]any, 0, len(values)+1)
	if obs.Timestamped {
		row = append(row, s.clock.Now())
	}
	row = append(row, values...)

	req, err := schema.CompileInsert(obs, row)
	if err != nil {
		return err
	}
	if err := s.gw.Insert(ctx, req); err != nil {
		return fmt.Errorf("append to %s: %w", obs.Name, err)
	}
	s.log.Info("observation recorded", "table", obs.Name)
	return nil
}

// AppendText parses raw text values by field type before appending. It is
// the entry point for callers that do not run the interactive form.
func (s *ObservationService) AppendText(ctx context.Context, obs *domain.ObservationSchema, raw map[string]string) error {
	values := make([]any, len(obs.Fields))
	var errs []error
	for i, f := range obs.Fields {
		text, ok := raw[f.Name]
		if !ok {
			errs = append(errs, &domain.InputError{Input: f.Name, Err: fmt.Errorf("%w: missing value for %s", domain.ErrInvalidValue, f.Name)})
			continue
		}
		v, err := domain.ParseValue(f.Type, text)
		if err != nil {
			errs = append(errs, &domain.InputError{Input: text, Err: fmt.Errorf("%s: %w", f.Name, err)})
			continue
		}
		values[i] = v
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return s.Append(ctx, obs, values)
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
