// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, copies log output to a rotating file
	// (the pipeline's audit trail of drops and corrections).
	LogFile string `koanf:"log_file"`

	// RecordCount is the default number of primary readings to generate.
	RecordCount int `koanf:"record_count"`

	// Seed makes generator output structurally reproducible. Zero means
	// seed from entropy.
	Seed int64 `koanf:"seed"`

	// OutputPath is the destination of the clean CSV artifact.
	OutputPath string `koanf:"output_path"`

	// MetricsAddr, when set, exposes the Prometheus registry over HTTP,
	// e.g. ":9091". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// Defect-injection probabilities. The source revisions disagree on the
	// exact rates, so they are configuration, not contract.
	CriticalFailureRate float64 `koanf:"critical_failure_rate"`
	MissingFieldsRate   float64 `koanf:"missing_fields_rate"`
	OutOfRangeRate      float64 `koanf:"out_of_range_rate"`
	DuplicateRate       float64 `koanf:"duplicate_rate"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		RecordCount:         100,
		OutputPath:          "data/telemetry_clean.csv",
		CriticalFailureRate: 0.02,
		MissingFieldsRate:   0.03,
		OutOfRangeRate:      0.05,
		DuplicateRate:       0.04,
	}
}
