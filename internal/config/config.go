package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"obst/internal/storage"
)

// Config is the resolved runtime configuration.
type Config struct {
	Driver  string
	DBPath  string
	DSN     string
	LogFile string
	Verbose bool
	MCP     bool
	Timeout time.Duration
}

// DataDir is where obst keeps its database and log by default.
func DataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "obst")
}

// Load parses args (without the program name). Values come from flags,
// then OBST_* environment variables, then defaults. A .env file in the
// working directory, or the one named by --env-file, seeds the environment
// without overriding variables that are already set. A missing .env is
// ignored; a missing --env-file is an error.
func Load(args []string) (*Config, error) {
	fset := flag.NewFlagSet("obst", flag.ContinueOnError)

	envFileFlag := fset.String("env-file", ".env", "dotenv file to read before resolving settings")
	driverFlag := fset.String("driver", storage.DriverSQLite, "storage engine: sqlite, mysql or postgres (or set OBST_DRIVER env var)")
	dbFlag := fset.String("db", filepath.Join(DataDir(), "obst.db"), "sqlite database file (or set OBST_DB env var)")
	dsnFlag := fset.String("dsn", "", "mysql/postgres data source name (or set OBST_DSN env var)")
	logFileFlag := fset.String("log-file", filepath.Join(DataDir(), "obst.log"), "log file used by the terminal UI (or set OBST_LOG_FILE env var)")
	verboseFlag := fset.Bool("verbose", false, "enable verbose (debug) logging (or set OBST_VERBOSE=true env var)")
	mcpFlag := fset.Bool("mcp", false, "serve the observation tools over MCP on stdio instead of starting the terminal UI")
	timeoutFlag := fset.Duration("timeout", 30*time.Second, "deadline for each storage request")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	// Only the implicit .env may be absent.
	if err := godotenv.Load(*envFileFlag); err != nil {
		if fset.Changed("env-file") || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", *envFileFlag, err)
		}
	}

	override := func(name, env string, dst *string) {
		if fset.Changed(name) {
			return
		}
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	override("driver", "OBST_DRIVER", driverFlag)
	override("db", "OBST_DB", dbFlag)
	override("dsn", "OBST_DSN", dsnFlag)
	override("log-file", "OBST_LOG_FILE", logFileFlag)

	if !fset.Changed("verbose") {
		if v := os.Getenv("OBST_VERBOSE"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("OBST_VERBOSE: %w", err)
			}
			*verboseFlag = b
		}
	}

	cfg := &Config{
		Driver:  *driverFlag,
		DBPath:  *dbFlag,
		DSN:     *dsnFlag,
		LogFile: *logFileFlag,
		Verbose: *verboseFlag,
		MCP:     *mcpFlag,
		Timeout: *timeoutFlag,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected driver has what it needs.
func (c *Config) Validate() error {
	switch c.Driver {
	case storage.DriverSQLite:
		if c.DBPath == "" {
			return errors.New("--db is required for the sqlite driver")
		}
	case storage.DriverMySQL, storage.DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("--dsn is required for the %s driver", c.Driver)
		}
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Timeout <= 0 {
		return errors.New("--timeout must be positive")
	}
	return nil
}

// Storage returns the gateway settings.
func (c *Config) Storage() storage.Config {
	return storage.Config{
		Driver:  c.Driver,
		Path:    c.DBPath,
		DSN:     c.DSN,
		Timeout: c.Timeout,
	}
}
