// Package storagetest provides an in-memory gateway that records every
// request it receives.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"obst/internal/domain"
	"obst/internal/schema"
)

// Recorder implements domain.Gateway in memory. Statements are rendered with
// bare identifiers and "?" placeholders.
type Recorder struct {
	mu     sync.Mutex
	calls  []string
	sql    []string
	tables map[string][]domain.ColumnInfo
	order  []string
	rows   map[string][][]any

	// Fail makes the named operation ("create", "list", "describe",
	// "count", "insert") return the given error.
	Fail map[string]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		tables: make(map[string][]domain.ColumnInfo),
		rows:   make(map[string][][]any),
		Fail:   make(map[string]error),
	}
}

// Calls returns the operations received so far, in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Statements returns the rendered text of every executed statement.
func (r *Recorder) Statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sql...)
}

// Rows returns the rows inserted into table.
func (r *Recorder) Rows(table string) [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]any(nil), r.rows[table]...)
}

// Seed registers an existing table.
func (r *Recorder) Seed(table string, cols ...domain.ColumnInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[table]; !ok {
		r.order = append(r.order, table)
	}
	r.tables[table] = cols
}

func (r *Recorder) record(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	if err := r.Fail[op]; err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	return nil
}

func render(stmt domain.Statement) string {
	return stmt.SQL(nil, func(int) string { return "?" })
}

func (r *Recorder) CreateTable(_ context.Context, stmt domain.Statement) error {
	if err := r.record("create"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sql = append(r.sql, render(stmt))

	req, ok := stmt.(*schema.CreateTableRequest)
	if !ok {
		return nil
	}
	if _, exists := r.tables[req.Table]; exists {
		return nil
	}
	cols := make([]domain.ColumnInfo, len(req.Columns))
	for i, c := range req.Columns {
		cols[i] = domain.ColumnInfo{Name: c.Name, Type: c.Type}
	}
	r.tables[req.Table] = cols
	r.order = append(r.order, req.Table)
	return nil
}

func (r *Recorder) ListTables(context.Context) ([]string, error) {
	if err := r.record("list"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...), nil
}

func (r *Recorder) DescribeTable(_ context.Context, table string) ([]domain.ColumnInfo, error) {
	if err := r.record("describe"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cols, ok := r.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
	}
	return append([]domain.ColumnInfo(nil), cols...), nil
}

func (r *Recorder) CountRows(_ context.Context, table string) (int64, error) {
	if _, err := schema.CompileCount(table); err != nil {
		return 0, err
	}
	if err := r.record("count"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows[table])), nil
}

func (r *Recorder) Insert(_ context.Context, stmt domain.Statement) error {
	if err := r.record("insert"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sql = append(r.sql, render(stmt))
	if req, ok := stmt.(*schema.InsertRequest); ok {
		r.rows[req.Table] = append(r.rows[req.Table], req.Values)
	}
	return nil
}

var _ domain.Gateway = (*Recorder)(nil)
