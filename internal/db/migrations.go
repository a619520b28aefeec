package db

import (
	"context"
	"fmt"

	"github.com/j-veylop/tsforecast-tui/internal/logger"
)

// NormalizeLegacyDates rewrites dates stored without zero padding
// ("2024-3") into canonical YYYY-MM form. Databases created before input
// validation existed may contain such rows. Rows that would collide with an
// existing canonical date are left untouched and skipped on read.
func (db *DB) NormalizeLegacyDates(ctx context.Context) error {
	query := `
		UPDATE OR IGNORE time_series_data
		SET date = SUBSTR(date, 1, 5) || '0' || SUBSTR(date, 6)
		WHERE date GLOB '[0-9][0-9][0-9][0-9]-[1-9]'`

	result, err := db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to normalize legacy dates: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n > 0 {
		logger.Info("normalized legacy dates", "rows", n)
	}

	var remaining int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+tableName+" WHERE date IS NULL OR date NOT GLOB ?",
		canonicalDateGlob,
	).Scan(&remaining)
	if err != nil {
		return fmt.Errorf("failed to count non-canonical dates: %w", err)
	}
	if remaining > 0 {
		logger.Warn("rows with unreadable dates will be ignored", "rows", remaining)
	}

	return nil
}
