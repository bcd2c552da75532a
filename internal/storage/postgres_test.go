package storage_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"obst/internal/storage"
)

func TestPostgresGateway_RoundTrip(t *testing.T) {
	if os.Getenv("OBST_INTEGRATION") != "1" {
		t.Skip("set OBST_INTEGRATION=1 to run against a postgres container")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("obst"),
		tcpostgres.WithUsername("obst"),
		tcpostgres.WithPassword("obst"),
		tcpostgres.BasicWaitStrategies(),
		tcpostgres.WithSQLDriver("postgres"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(terminateCtx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gw, err := storage.Open(storage.Config{Driver: storage.DriverPostgres, DSN: dsn}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	exerciseGateway(t, gw)
}
