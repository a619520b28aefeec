package db

const (
	// tableName is the single table holding the series.
	tableName = "time_series_data"

	// canonicalDateGlob matches dates already in YYYY-MM form.
	canonicalDateGlob = "[0-9][0-9][0-9][0-9]-[0-1][0-9]"
)
