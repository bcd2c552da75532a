// Package schema turns observation schemas into storage requests. It is the
// only place that renders statement text; every identifier is validated
// here before it is interpolated.
package schema

import (
	"fmt"
	"regexp"
	"strings"

	"obst/internal/domain"
)

// MaxIdentifierLen matches the Postgres identifier limit, the strictest of
// the supported engines.
const MaxIdentifierLen = 63

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that name can be used as a bare table or column
// name.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", domain.ErrInvalidIdentifier)
	}
	if len(name) > MaxIdentifierLen {
		return fmt.Errorf("%w: %q is longer than %d characters", domain.ErrInvalidIdentifier, name, MaxIdentifierLen)
	}
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("%w: %q may only contain letters, digits and underscores and must not start with a digit", domain.ErrInvalidIdentifier, name)
	}
	// SQLite refuses to create tables under its own prefix.
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return fmt.Errorf("%w: names starting with sqlite_ are reserved", domain.ErrInvalidIdentifier)
	}
	return nil
}

// Column is one (name, storage type) pair of a CreateTableRequest.
type Column struct {
	Name string
	Type string
}

// CreateTableRequest is a validated table definition.
type CreateTableRequest struct {
	Table   string
	Columns []Column
}

// Compile validates s and produces its table definition.
func Compile(s *domain.ObservationSchema) (*CreateTableRequest, error) {
	if err := ValidateIdentifier(s.Name); err != nil {
		return nil, &domain.SchemaError{Err: err}
	}

	cols := s.Columns()
	if len(cols) == 0 {
		return nil, &domain.SchemaError{Err: domain.ErrEmptySchema}
	}

	req := &CreateTableRequest{Table: s.Name, Columns: make([]Column, 0, len(cols))}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if err := ValidateIdentifier(c.Name); err != nil {
			return nil, &domain.SchemaError{Field: c.Name, Err: err}
		}
		if seen[c.Name] {
			return nil, &domain.SchemaError{Field: c.Name, Err: domain.ErrDuplicateField}
		}
		seen[c.Name] = true

		if !c.Type.IsValid() {
			return nil, &domain.SchemaError{Field: c.Name, Err: fmt.Errorf("%w: %s", domain.ErrUnknownType, c.Type)}
		}
		req.Columns = append(req.Columns, Column{Name: c.Name, Type: c.Type.StorageName()})
	}
	return req, nil
}

// SQL renders CREATE TABLE IF NOT EXISTS. A nil quote leaves identifiers
// bare.
func (r *CreateTableRequest) SQL(quote func(string) string, _ func(int) string) string {
	quote = orBare(quote)

	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS ")
	sb.WriteString(quote(r.Table))
	sb.WriteString(" (")
	for i, c := range r.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quote(c.Name))
		sb.WriteString(" ")
		sb.WriteString(c.Type)
	}
	sb.WriteString(");")
	return sb.String()
}

func (r *CreateTableRequest) Args() []any { return nil }

// String renders the statement with bare identifiers.
func (r *CreateTableRequest) String() string {
	return r.SQL(nil, nil)
}

var _ domain.Statement = (*CreateTableRequest)(nil)

func orBare(quote func(string) string) func(string) string {
	if quote == nil {
		return func(s string) string { return s }
	}
	return quote
}
