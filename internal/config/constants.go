package config

import "time"

const (
	appDirName          = "tsforecast"
	defaultDatabaseFile = "forecasting.db"
	defaultLogFileName  = "tsforecast.log"

	defaultHorizon       = 12
	defaultLogLevel      = "info"
	defaultWatchDebounce = 150 * time.Millisecond
)

// LogLevels lists the accepted LOG_LEVEL values.
var LogLevels = []string{"debug", "info", "warn", "error"}

func isLogLevel(level string) bool {
	for _, l := range LogLevels {
		if l == level {
			return true
		}
	}
	return false
}
