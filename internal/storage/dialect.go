package storage

import (
	"fmt"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// dialect captures what differs between the supported engines: how to
// reach them, how identifiers are quoted, how parameters are written and
// how the catalog is queried.
type dialect struct {
	name       string
	driverName string

	// prepare runs before every open (e.g. creating the sqlite directory)
	// and returns the DSN to use.
	prepare func() (string, error)

	quote       func(string) string
	placeholder func(n int) string

	listTablesQuery string
	describeQuery   string
}

func newDialect(cfg Config) (*dialect, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		return sqliteDialect(cfg.Path), nil
	case DriverMySQL:
		return mysqlDialect(cfg.DSN)
	case DriverPostgres:
		return postgresDialect(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}

func doubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func questionMark(int) string { return "?" }
