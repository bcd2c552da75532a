package domain

import (
	"context"
	"strings"
)

// TimestampColumn is the name of the implicit column added when an
// observation is recorded with a date.
const TimestampColumn = "Date"

// FieldDefinition is one typed column of an observation.
// Declared carries the storage type text for introspected columns; it is
// empty for fields built by the wizard.
type FieldDefinition struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Declared string    `json:"declared,omitempty"`
}

// StorageType returns the column type to use in statements: the catalog
// name, or the declared text for opaque columns.
func (f FieldDefinition) StorageType() string {
	if name := f.Type.StorageName(); name != "" {
		return name
	}
	return f.Declared
}

// ObservationSchema is a user-defined record type: a table name plus an
// ordered list of typed fields. Timestamped adds the implicit Date column
// ahead of the user fields. TimestampName is set only for introspected
// tables whose timestamp column is spelled differently, e.g. "date".
type ObservationSchema struct {
	Name          string            `json:"name"`
	Timestamped   bool              `json:"timestamped"`
	TimestampName string            `json:"timestampName,omitempty"`
	Fields        []FieldDefinition `json:"fields"`
}

// TimestampField returns the name of the implicit timestamp column.
func (s *ObservationSchema) TimestampField() string {
	if s.TimestampName != "" {
		return s.TimestampName
	}
	return TimestampColumn
}

// Columns returns the full ordered column list of the table.
func (s *ObservationSchema) Columns() []FieldDefinition {
	cols := make([]FieldDefinition, 0, len(s.Fields)+1)
	if s.Timestamped {
		cols = append(cols, FieldDefinition{Name: s.TimestampField(), Type: FieldTypeTimestamp})
	}
	return append(cols, s.Fields...)
}

// HasField reports whether a column named name already exists, including
// the implicit Date column.
func (s *ObservationSchema) HasField(name string) bool {
	for _, c := range s.Columns() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ColumnInfo describes a column as reported by the storage engine.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableInfo is a user table with its row count.
type TableInfo struct {
	Name string `json:"name"`
	Rows int64  `json:"rows"`
}

// SchemaFromColumns rebuilds an ObservationSchema from introspected columns.
// A leading Date column of timestamp type, in any case, is treated as the
// implicit timestamp and keeps its stored spelling. Unmapped storage types
// become opaque fields.
func SchemaFromColumns(table string, cols []ColumnInfo) *ObservationSchema {
	s := &ObservationSchema{Name: table}
	for i, c := range cols {
		ft, ok := FromStorageName(c.Type)
		if i == 0 && ok && ft == FieldTypeTimestamp && strings.EqualFold(c.Name, TimestampColumn) {
			s.Timestamped = true
			if c.Name != TimestampColumn {
				s.TimestampName = c.Name
			}
			continue
		}
		f := FieldDefinition{Name: c.Name, Type: ft}
		if !ok {
			f.Declared = c.Type
		}
		s.Fields = append(s.Fields, f)
	}
	return s
}

// ── Gateway contracts ──────────────────────────────────────

// TableCreator executes rendered CREATE TABLE requests.
type TableCreator interface {
	CreateTable(ctx context.Context, req Statement) error
}

// CatalogReader introspects the persisted store.
type CatalogReader interface {
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, name string) ([]ColumnInfo, error)
	CountRows(ctx context.Context, name string) (int64, error)
}

// RowWriter inserts rows into observation tables.
type RowWriter interface {
	Insert(ctx context.Context, req Statement) error
}

// Gateway is the full storage surface used by the service layer.
type Gateway interface {
	TableCreator
	CatalogReader
	RowWriter
}

// Statement is a request the gateway can render for its own dialect.
type Statement interface {
	// SQL renders the statement with the dialect's identifier quoting and
	// bind-parameter placeholders.
	SQL(quote func(string) string, placeholder func(n int) string) string
	// Args returns the bound parameter values, in placeholder order.
	Args() []any
}
