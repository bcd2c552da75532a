package storage

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlDialect connects with a go-sql-driver DSN, forcing parseTime so
// TIMESTAMP columns scan into time.Time.
func mysqlDialect(dsn string) (*dialect, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	formatted := cfg.FormatDSN()

	return &dialect{
		name:       DriverMySQL,
		driverName: "mysql",
		prepare:    func() (string, error) { return formatted, nil },
		quote: func(name string) string {
			return "`" + strings.ReplaceAll(name, "`", "``") + "`"
		},
		placeholder: questionMark,
		listTablesQuery: `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
			WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'
			ORDER BY TABLE_NAME`,
		// COLUMN_TYPE keeps the display width, so BOOLEAN reads back as tinyint(1).
		describeQuery: `SELECT COLUMN_NAME, COLUMN_TYPE FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
			ORDER BY ORDINAL_POSITION`,
	}, nil
}
