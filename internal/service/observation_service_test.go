package service_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obst/internal/domain"
	"obst/internal/service"
	"obst/internal/storage/storagetest"
)

// ─────────────────────────────────────────────────────────────
// ObservationService tests against the recording gateway
// ─────────────────────────────────────────────────────────────

var epoch = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newService(t *testing.T) (*service.ObservationService, *storagetest.Recorder, *clockwork.FakeClock) {
	t.Helper()
	rec := storagetest.NewRecorder()
	clock := clockwork.NewFakeClockAt(epoch)
	log := slog.New(slog.DiscardHandler)
	return service.NewObservationService(rec, clock, log), rec, clock
}

func temperature() *domain.ObservationSchema {
	return &domain.ObservationSchema{
		Name:        "Temperature",
		Timestamped: true,
		Fields:      []domain.FieldDefinition{{Name: "reading", Type: domain.FieldTypeFloat}},
	}
}

func TestObservationService_Define(t *testing.T) {
	svc, rec, _ := newService(t)

	res, err := svc.Define(context.Background(), temperature())
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Temperature", res.Table)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS Temperature (Date TIMESTAMP, reading FLOAT);", res.Statement)
	assert.Equal(t, []string{"list", "create"}, rec.Calls())
	assert.Equal(t, []string{res.Statement}, rec.Statements())
}

func TestObservationService_DefineExisting(t *testing.T) {
	svc, rec, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Define(ctx, temperature())
	require.NoError(t, err)
	res, err := svc.Define(ctx, temperature())
	require.NoError(t, err)
	assert.False(t, res.Created)

	tables, err := rec.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Temperature"}, tables)
}

func TestObservationService_DefineInvalidSchemaMakesNoCalls(t *testing.T) {
	svc, rec, _ := newService(t)

	_, err := svc.Define(context.Background(), &domain.ObservationSchema{Name: "Empty"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptySchema)
	assert.Equal(t, domain.KindSchema, domain.Kind(err))
	assert.Empty(t, rec.Calls())
}

func TestObservationService_DefineStorageFailure(t *testing.T) {
	svc, rec, _ := newService(t)
	rec.Fail["create"] = errors.New("disk full")

	_, err := svc.Define(context.Background(), temperature())
	require.Error(t, err)
	assert.Equal(t, domain.KindStorage, domain.Kind(err))
}

func TestObservationService_ListObservations(t *testing.T) {
	svc, rec, _ := newService(t)
	ctx := context.Background()
	rec.Seed("Mood", domain.ColumnInfo{Name: "score", Type: "INTEGER"})
	rec.Seed("bad name", domain.ColumnInfo{Name: "x", Type: "TEXT"})

	obs := &domain.ObservationSchema{Name: "Mood", Fields: []domain.FieldDefinition{{Name: "score", Type: domain.FieldTypeInteger}}}
	require.NoError(t, svc.Append(ctx, obs, []any{int64(3)}))

	tables, err := svc.ListObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TableInfo{
		{Name: "Mood", Rows: 1},
		{Name: "bad name", Rows: -1},
	}, tables)
}

func TestObservationService_Load(t *testing.T) {
	svc, rec, _ := newService(t)
	rec.Seed("Temperature",
		domain.ColumnInfo{Name: "Date", Type: "TIMESTAMP"},
		domain.ColumnInfo{Name: "reading", Type: "FLOAT"},
		domain.ColumnInfo{Name: "note", Type: "TEXT"},
	)

	obs, err := svc.Load(context.Background(), "Temperature")
	require.NoError(t, err)
	assert.True(t, obs.Timestamped)
	require.Len(t, obs.Fields, 2)
	assert.Equal(t, domain.FieldTypeFloat, obs.Fields[0].Type)
	assert.Equal(t, domain.FieldTypeOpaque, obs.Fields[1].Type)
	assert.Equal(t, "TEXT", obs.Fields[1].Declared)
}

func TestObservationService_LoadMissing(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Load(context.Background(), "Nope")
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
	assert.NotEqual(t, domain.KindStorage, domain.Kind(err))
}

func TestObservationService_AppendStampsDate(t *testing.T) {
	svc, rec, clock := newService(t)
	ctx := context.Background()
	_, err := svc.Define(ctx, temperature())
	require.NoError(t, err)

	require.NoError(t, svc.Append(ctx, temperature(), []any{21.5}))
	clock.Advance(time.Hour)
	require.NoError(t, svc.Append(ctx, temperature(), []any{22.0}))

	rows := rec.Rows("Temperature")
	require.Len(t, rows, 2)
	assert.Equal(t, []any{epoch, 21.5}, rows[0])
	assert.Equal(t, []any{epoch.Add(time.Hour), 22.0}, rows[1])
	assert.Contains(t, rec.Statements(), "INSERT INTO Temperature (Date, reading) VALUES (?, ?);")
}

func TestObservationService_AppendKeepsStoredDateSpelling(t *testing.T) {
	svc, rec, _ := newService(t)
	ctx := context.Background()
	rec.Seed("Walk",
		domain.ColumnInfo{Name: "date", Type: "timestamp without time zone"},
		domain.ColumnInfo{Name: "steps", Type: "bigint"},
	)

	obs, err := svc.Load(ctx, "Walk")
	require.NoError(t, err)
	require.NoError(t, svc.Append(ctx, obs, []any{int64(10)}))
	assert.Contains(t, rec.Statements(), "INSERT INTO Walk (date, steps) VALUES (?, ?);")
}

func TestObservationService_AppendWrongArity(t *testing.T) {
	svc, rec, _ := newService(t)

	err := svc.Append(context.Background(), temperature(), []any{1.0, 2.0})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.Empty(t, rec.Calls())
}

func TestObservationService_AppendText(t *testing.T) {
	svc, rec, _ := newService(t)
	ctx := context.Background()
	obs := &domain.ObservationSchema{
		Name: "Walk",
		Fields: []domain.FieldDefinition{
			{Name: "steps", Type: domain.FieldTypeInteger},
			{Name: "outside", Type: domain.FieldTypeBoolean},
		},
	}

	require.NoError(t, svc.AppendText(ctx, obs, map[string]string{"steps": "4200", "outside": "y"}))
	assert.Equal(t, [][]any{{int64(4200), true}}, rec.Rows("Walk"))

	err := svc.AppendText(ctx, obs, map[string]string{"steps": "many"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.Equal(t, domain.KindInput, domain.Kind(err))
	assert.Len(t, rec.Rows("Walk"), 1)
}
