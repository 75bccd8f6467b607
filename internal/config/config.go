// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the job's environment-driven configuration. CLI flags
// override individual fields after parsing.
type Config struct {
	// DBPath is the primary database (series_data writes go here).
	DBPath string `env:"HINDSIGHT_DB" envDefault:"hindsight.db"`

	// ReplicaDBPath serves the read-heavy replay and count queries.
	// Empty means read from the primary.
	ReplicaDBPath string `env:"HINDSIGHT_REPLICA_DB"`

	// DataDir holds the per-product time-series files.
	DataDir string `env:"HINDSIGHT_DATA_DIR" envDefault:"data"`

	// RenamesFile is an optional YAML category-rename table.
	RenamesFile string `env:"HINDSIGHT_RENAMES_FILE"`

	// Workers bounds the per-product worker pool.
	Workers int `env:"HINDSIGHT_WORKERS" envDefault:"4"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
