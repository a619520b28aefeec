package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/tsforecast-tui/internal/models"
)

func mustAdd(t *testing.T, db *DB, date string, value float64) *models.Observation {
	t.Helper()
	obs, err := models.NewObservation(date, value)
	require.NoError(t, err)
	require.NoError(t, db.AddObservation(context.Background(), &obs))
	return &obs
}

func dates(obs []models.Observation) []string {
	out := make([]string, len(obs))
	for i, o := range obs {
		out[i] = o.Date.String()
	}
	return out
}

func TestAddObservation(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	obs := mustAdd(t, db, "2024-01", 100)
	assert.NotZero(t, obs.ID)

	got, err := db.GetObservation(context.Background(), models.MustParseMonth("2024-01"))
	require.NoError(t, err)
	assert.Equal(t, obs.ID, got.ID)
	assert.Equal(t, 100.0, got.Value)
}

func TestAddObservation_Duplicate(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mustAdd(t, db, "2024-01", 100)
	mustAdd(t, db, "2024-02", 110)

	dup, err := models.NewObservation("2024-01", 999)
	require.NoError(t, err)

	err = db.AddObservation(ctx, &dup)
	require.ErrorIs(t, err, ErrDuplicateDate)

	all, err := db.ListObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01", "2024-02"}, dates(all))
	assert.Equal(t, 100.0, all[0].Value)
}

func TestListObservations_OrderedByDate(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for _, d := range []string{"2024-05", "2023-12", "2024-02", "2024-01", "2025-01"} {
		mustAdd(t, db, d, 1)
	}

	all, err := db.ListObservations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-02", "2024-05", "2025-01"}, dates(all))
}

func TestListObservations_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	all, err := db.ListObservations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestUpdateObservation(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mustAdd(t, db, "2024-01", 100)
	mustAdd(t, db, "2024-02", 110)

	require.NoError(t, db.UpdateObservation(ctx, models.MustParseMonth("2024-02"), 115))

	all, err := db.ListObservations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 100.0, all[0].Value)
	assert.Equal(t, 115.0, all[1].Value)
}

func TestUpdateObservation_Missing(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mustAdd(t, db, "2024-01", 100)

	err := db.UpdateObservation(ctx, models.MustParseMonth("2030-01"), 5)
	require.ErrorIs(t, err, ErrNotFound)

	count, err := db.CountObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteLastObservation_InsertionOrder(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mustAdd(t, db, "2024-03", 3)
	mustAdd(t, db, "2024-01", 1)

	deleted, err := db.DeleteLastObservation(ctx)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "2024-01", deleted.Date.String())
	assert.Equal(t, 1.0, deleted.Value)

	all, err := db.ListObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03"}, dates(all))
}

func TestDeleteLastObservation_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	deleted, err := db.DeleteLastObservation(context.Background())
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestDeleteLastObservation_ThenReAdd(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mustAdd(t, db, "2024-01", 1)
	mustAdd(t, db, "2024-02", 2)

	_, err := db.DeleteLastObservation(ctx)
	require.NoError(t, err)

	mustAdd(t, db, "2024-02", 20)

	got, err := db.GetObservation(ctx, models.MustParseMonth("2024-02"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Value)
}

func TestGetObservation_Missing(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	_, err := db.GetObservation(context.Background(), models.MustParseMonth("2024-01"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Scenario(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mustAdd(t, db, "2024-01", 100)
	mustAdd(t, db, "2024-02", 110)
	mustAdd(t, db, "2024-03", 120)
	mustAdd(t, db, "2024-04", 130)

	require.NoError(t, db.UpdateObservation(ctx, models.MustParseMonth("2024-02"), 115))

	deleted, err := db.DeleteLastObservation(ctx)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "2024-04", deleted.Date.String())

	all, err := db.ListObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, dates(all))
	assert.Equal(t, []float64{100, 115, 120}, models.Values(all))
}
