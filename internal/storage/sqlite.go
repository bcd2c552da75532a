package storage

import (
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// sqliteDialect stores every observation table in one SQLite file at path.
// The parent directory is created on demand.
func sqliteDialect(path string) *dialect {
	return &dialect{
		name:       DriverSQLite,
		driverName: "sqlite",
		prepare: func() (string, error) {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return "", fmt.Errorf("create db directory: %w", err)
			}
			return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
		},
		quote:       doubleQuote,
		placeholder: questionMark,
		listTablesQuery: `SELECT name FROM sqlite_master
			WHERE type = 'table' AND substr(name, 1, 7) <> 'sqlite_'
			ORDER BY name`,
		describeQuery: `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`,
	}
}
