package storage

import (
	"strconv"

	_ "github.com/lib/pq"
)

// postgresDialect quotes every identifier so mixed-case observation names
// survive Postgres case folding.
func postgresDialect(dsn string) *dialect {
	return &dialect{
		name:        DriverPostgres,
		driverName:  "postgres",
		prepare:     func() (string, error) { return dsn, nil },
		quote:       doubleQuote,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		listTablesQuery: `SELECT table_name FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
			ORDER BY table_name`,
		describeQuery: `SELECT column_name, data_type FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1
			ORDER BY ordinal_position`,
	}
}
