package storage

import (
	"context"
	"database/sql"
	"fmt"

	"obst/internal/domain"
	"obst/internal/schema"
)

// ListTables returns the user tables of the store, excluding engine
// internals, ordered by name.
func (g *Gateway) ListTables(ctx context.Context) ([]string, error) {
	var names []string
	err := g.withDB(ctx, "list tables", func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx, g.dialect.listTablesQuery)
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("scan table name: %w", err)
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// DescribeTable returns the columns of table in declaration order. A table
// without columns does not exist as far as the catalog is concerned.
func (g *Gateway) DescribeTable(ctx context.Context, table string) ([]domain.ColumnInfo, error) {
	var cols []domain.ColumnInfo
	err := g.withDB(ctx, "describe table", func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx, g.dialect.describeQuery, table)
		if err != nil {
			return fmt.Errorf("describe %s: %w", table, err)
		}
		defer rows.Close()

		for rows.Next() {
			var ci domain.ColumnInfo
			if err := rows.Scan(&ci.Name, &ci.Type); err != nil {
				return fmt.Errorf("scan column: %w", err)
			}
			cols = append(cols, ci)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(cols) == 0 {
			return fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// CountRows returns the number of rows stored in table.
func (g *Gateway) CountRows(ctx context.Context, table string) (int64, error) {
	stmt, err := schema.CompileCount(table)
	if err != nil {
		return 0, err
	}
	query := g.render(stmt)

	var count int64
	err = g.withDB(ctx, "count rows", func(ctx context.Context, db *sql.DB) error {
		if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		return nil
	})
	return count, err
}
