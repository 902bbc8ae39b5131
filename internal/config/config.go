// Package config loads the ambient settings every witnessrep run needs:
// where to optionally persist reputation snapshots, where to optionally
// serve the status API from, and the log level, all from the environment
// with the same getenv/parse helpers the rest of this service uses.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds process-wide settings. Scenario and sweep parameters are not
// part of Config: those are hard-coded per spec.md §8 and only overridable
// via cmd/witnessrep flags.
type Config struct {
	// DatabaseURL is the optional Postgres DSN for runstore.PostgresSnapshots.
	// Empty means snapshots are written to disk only (runstore.WriteRunArtifacts).
	DatabaseURL string

	// StatusAddr, if non-empty, is the address statusapi.Server listens on.
	StatusAddr string

	// OutputDir is where runstore.WriteRunArtifacts writes a run's files.
	OutputDir string

	// LogLevel parses into a zerolog level name ("debug", "info", "warn", "error").
	LogLevel string
}

// Load reads configuration from the environment, falling back to defaults
// matched to a local, database-free run.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" && parseBool(getenv("WITNESSREP_USE_POSTGRES", "false"), false) {
		user := getenv("POSTGRES_USER", "witnessrep")
		pass := getenv("POSTGRES_PASSWORD", "witnessrep_pass")
		db := getenv("POSTGRES_DB", "witnessrep")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	return &Config{
		DatabaseURL: dsn,
		StatusAddr:  getenv("WITNESSREP_STATUS_ADDR", ""),
		OutputDir:   getenv("WITNESSREP_OUTPUT_DIR", "./witnessrep-output"),
		LogLevel:    getenv("WITNESSREP_LOG_LEVEL", "info"),
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}
