package config

import "time"

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN" envDefault:":8080"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN" envDefault:":8081"`
	MetricsListenAddress string        `env:"METRICS_LISTEN" envDefault:":9091"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// LogMasking redacts customer identifiers and feature values from
	// request/response log dumps. Disable only in local debugging.
	LogMasking bool `env:"HTTP_LOG_MASKING" envDefault:"true"`
}
