// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
//
// Model coefficients and the WFNS severity threshold are deliberately not
// configuration: they are the published model, fixed in the scoring package.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxBatchSize caps the number of patients accepted by a single
	// batch assessment or export request.
	MaxBatchSize int `koanf:"max_batch_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":8080",
		MaxBatchSize: 500,
	}
}
