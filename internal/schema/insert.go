package schema

import (
	"fmt"
	"strings"

	"obst/internal/domain"
)

// InsertRequest appends one row to an observation table.
type InsertRequest struct {
	Table   string
	Columns []string
	Values  []any
}

// CompileInsert pairs values with the columns of s, in column order.
// Column names come from the store when s was introspected, so they are
// validated again here.
func CompileInsert(s *domain.ObservationSchema, values []any) (*InsertRequest, error) {
	if err := ValidateIdentifier(s.Name); err != nil {
		return nil, &domain.SchemaError{Err: err}
	}
	cols := s.Columns()
	if len(cols) == 0 {
		return nil, &domain.SchemaError{Err: domain.ErrEmptySchema}
	}
	if len(values) != len(cols) {
		return nil, &domain.SchemaError{Err: fmt.Errorf("%w: %d values for %d columns", domain.ErrInvalidValue, len(values), len(cols))}
	}

	req := &InsertRequest{Table: s.Name, Columns: make([]string, len(cols)), Values: values}
	for i, c := range cols {
		if err := ValidateIdentifier(c.Name); err != nil {
			return nil, &domain.SchemaError{Field: c.Name, Err: err}
		}
		req.Columns[i] = c.Name
	}
	return req, nil
}

func (r *InsertRequest) SQL(quote func(string) string, placeholder func(int) string) string {
	quote = orBare(quote)
	if placeholder == nil {
		placeholder = func(int) string { return "?" }
	}

	cols := make([]string, len(r.Columns))
	marks := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = quote(c)
		marks[i] = placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		quote(r.Table), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

func (r *InsertRequest) Args() []any { return r.Values }

// CountRequest counts the rows of a table.
type CountRequest struct {
	Table string
}

// CompileCount validates table and builds a row count request.
func CompileCount(table string) (*CountRequest, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, &domain.SchemaError{Err: err}
	}
	return &CountRequest{Table: table}, nil
}

func (r *CountRequest) SQL(quote func(string) string, _ func(int) string) string {
	return "SELECT COUNT(*) FROM " + orBare(quote)(r.Table)
}

func (r *CountRequest) Args() []any { return nil }

var (
	_ domain.Statement = (*InsertRequest)(nil)
	_ domain.Statement = (*CountRequest)(nil)
)
