package config

import "time"

// Refresh lists CSV sources re-scored on a schedule, the counterpart of the
// BI tool's scheduled refresh.
type Refresh struct {
	Sources  []string      `env:"REFRESH_SOURCES" envSeparator:","`
	Interval time.Duration `env:"REFRESH_INTERVAL" envDefault:"15m"`
}
