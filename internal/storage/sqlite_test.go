package storage_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obst/internal/domain"
	"obst/internal/schema"
	"obst/internal/storage"
)

func openSQLite(t *testing.T) *storage.Gateway {
	t.Helper()
	gw, err := storage.Open(storage.Config{
		Driver: storage.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "nested", "obst.db"),
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return gw
}

func temperature() *domain.ObservationSchema {
	return &domain.ObservationSchema{
		Name:        "Temperature",
		Timestamped: true,
		Fields: []domain.FieldDefinition{
			{Name: "reading", Type: domain.FieldTypeFloat},
			{Name: "indoor", Type: domain.FieldTypeBoolean},
			{Name: "count", Type: domain.FieldTypeInteger},
		},
	}
}

// exerciseGateway runs the create/describe/insert/count round trip shared
// by every dialect.
func exerciseGateway(t *testing.T, gw *storage.Gateway) {
	t.Helper()
	ctx := context.Background()
	obs := temperature()

	req, err := schema.Compile(obs)
	require.NoError(t, err)
	require.NoError(t, gw.CreateTable(ctx, req))
	require.NoError(t, gw.CreateTable(ctx, req))

	tables, err := gw.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Temperature"}, tables)

	cols, err := gw.DescribeTable(ctx, "Temperature")
	require.NoError(t, err)
	require.Len(t, cols, len(obs.Columns()))
	for i, c := range obs.Columns() {
		assert.Equal(t, c.Name, cols[i].Name)
		ft, ok := domain.FromStorageName(cols[i].Type)
		assert.True(t, ok, cols[i].Type)
		assert.Equal(t, c.Type, ft)
	}
	assert.Equal(t, obs, domain.SchemaFromColumns("Temperature", cols))

	ins, err := schema.CompileInsert(obs, []any{time.Now(), 21.5, true, int64(3)})
	require.NoError(t, err)
	require.NoError(t, gw.Insert(ctx, ins))
	require.NoError(t, gw.Insert(ctx, ins))

	n, err := gw.CountRows(ctx, "Temperature")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = gw.DescribeTable(ctx, "Missing")
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
	assert.NotEqual(t, domain.KindStorage, domain.Kind(err))
}

func TestSQLiteGateway_RoundTrip(t *testing.T) {
	gw := openSQLite(t)
	assert.Equal(t, storage.DriverSQLite, gw.Driver())
	require.NoError(t, gw.Ping(context.Background()))
	exerciseGateway(t, gw)
}

func TestSQLiteGateway_EmptyStore(t *testing.T) {
	gw := openSQLite(t)

	tables, err := gw.ListTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestSQLiteGateway_ListsTablesWithSqlitePrefix(t *testing.T) {
	gw := openSQLite(t)
	ctx := context.Background()

	for _, name := range []string{"sqlite3_readings", "SQLiteXtemps"} {
		req, err := schema.Compile(&domain.ObservationSchema{
			Name:   name,
			Fields: []domain.FieldDefinition{{Name: "n", Type: domain.FieldTypeInteger}},
		})
		require.NoError(t, err)
		require.NoError(t, gw.CreateTable(ctx, req))
	}

	tables, err := gw.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"SQLiteXtemps", "sqlite3_readings"}, tables)
}

func TestSQLiteGateway_QuotesReservedWords(t *testing.T) {
	gw := openSQLite(t)
	ctx := context.Background()

	obs := &domain.ObservationSchema{
		Name:   "order",
		Fields: []domain.FieldDefinition{{Name: "select", Type: domain.FieldTypeInteger}},
	}
	req, err := schema.Compile(obs)
	require.NoError(t, err)
	require.NoError(t, gw.CreateTable(ctx, req))

	ins, err := schema.CompileInsert(obs, []any{int64(1)})
	require.NoError(t, err)
	require.NoError(t, gw.Insert(ctx, ins))

	n, err := gw.CountRows(ctx, "order")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteGateway_ExecutionFailureIsStorageError(t *testing.T) {
	gw := openSQLite(t)
	ctx := context.Background()

	ins, err := schema.CompileInsert(temperature(), []any{time.Now(), 1.0, true, int64(1)})
	require.NoError(t, err)

	err = gw.Insert(ctx, ins)
	require.Error(t, err)
	assert.Equal(t, domain.KindStorage, domain.Kind(err))
}

func TestSQLiteGateway_UnreachableStore(t *testing.T) {
	// A regular file where the directory should be.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, writeFile(blocker))

	gw, err := storage.Open(storage.Config{Path: filepath.Join(blocker, "obst.db")}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	_, err = gw.ListTables(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindStorage, domain.Kind(err))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := storage.Open(storage.Config{Driver: "oracle"}, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestOpen_BadMySQLDSN(t *testing.T) {
	_, err := storage.Open(storage.Config{Driver: storage.DriverMySQL, DSN: "::not a dsn"}, slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
