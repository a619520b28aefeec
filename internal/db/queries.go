package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/j-veylop/tsforecast-tui/internal/logger"
	"github.com/j-veylop/tsforecast-tui/internal/models"
)

// AddObservation inserts a new observation and sets its ID.
// Returns ErrDuplicateDate if the date is already stored.
func (db *DB) AddObservation(ctx context.Context, obs *models.Observation) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"INSERT INTO time_series_data (date, value) VALUES (?, ?)",
			obs.Date.String(),
			obs.Value,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateDate, obs.Date)
			}
			return fmt.Errorf("failed to insert observation: %w", err)
		}

		id, err := result.LastInsertId()
		if err == nil {
			obs.ID = id
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug("observation added", "date", obs.Date.String(), "value", obs.Value, "id", obs.ID)
	return nil
}

// UpdateObservation overwrites the value stored for date.
// Returns ErrNotFound if no observation has that date.
func (db *DB) UpdateObservation(ctx context.Context, date models.Month, value float64) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE time_series_data SET value = ? WHERE date = ?",
			value,
			date.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to update observation: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return nil
	})
}

// DeleteLastObservation removes the most recently inserted observation
// (maximum id, not necessarily the latest date) and returns it.
// Returns nil and no error when the table is empty.
func (db *DB) DeleteLastObservation(ctx context.Context) (*models.Observation, error) {
	var deleted *models.Observation

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			"SELECT id, date, value FROM time_series_data ORDER BY id DESC LIMIT 1",
		)

		var id int64
		var date sql.NullString
		var value sql.NullFloat64
		if err := row.Scan(&id, &date, &value); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to find last observation: %w", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM time_series_data WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete observation: %w", err)
		}

		obs := &models.Observation{ID: id, Value: value.Float64}
		if month, err := models.ParseMonth(date.String); err == nil {
			obs.Date = month
		}
		deleted = obs
		return nil
	})
	if err != nil {
		return nil, err
	}

	if deleted != nil {
		logger.Debug("observation deleted", "id", deleted.ID, "date", deleted.Date.String())
	}
	return deleted, nil
}

// GetObservation returns the observation stored for date.
// Returns ErrNotFound if there is none.
func (db *DB) GetObservation(ctx context.Context, date models.Month) (*models.Observation, error) {
	var obs models.Observation
	var value sql.NullFloat64

	err := db.QueryRowContext(ctx,
		"SELECT id, value FROM time_series_data WHERE date = ?",
		date.String(),
	).Scan(&obs.ID, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}

	obs.Date = date
	obs.Value = value.Float64
	return &obs, nil
}

// ListObservations returns all observations ordered ascending by date.
// Rows whose date cannot be parsed are skipped.
func (db *DB) ListObservations(ctx context.Context) ([]models.Observation, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, date, value FROM time_series_data ORDER BY date ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	observations := make([]models.Observation, 0)
	for rows.Next() {
		var obs models.Observation
		var date sql.NullString
		var value sql.NullFloat64

		if err := rows.Scan(&obs.ID, &date, &value); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}

		month, err := models.ParseMonth(date.String)
		if err != nil {
			logger.Warn("skipping observation with unreadable date", "id", obs.ID, "date", date.String)
			continue
		}
		obs.Date = month
		obs.Value = value.Float64
		observations = append(observations, obs)
	}

	return observations, rows.Err()
}

// CountObservations returns the number of stored rows.
func (db *DB) CountObservations(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM time_series_data").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}
	return count, nil
}
