// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, an optional YAML file, and environment.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CatalogPath points at the YAML question catalog.
	CatalogPath string `koanf:"catalog_path"`

	// RecommendationCap bounds the remediation list per report.
	RecommendationCap int `koanf:"recommendation_cap"`

	// WorkerCount sets the number of concurrent batch scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// MetricsAddr, when non-empty, serves Prometheus metrics during
	// long batch runs, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		CatalogPath:       "",
		RecommendationCap: 5,
		WorkerCount:       runtime.NumCPU(),
		MetricsAddr:       "",
	}
}
