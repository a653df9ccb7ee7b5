package inspector

import (
	"context"
	"database/sql"

	"github.com/hazyhaar/elinspect/inspector/internal/config"
)

// Config is the top-level inspector configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig = config.BrowserConfig

// FormatConfig selects the output layout.
type FormatConfig = config.FormatConfig

// Target is a page to inspect.
type Target = config.Target

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	return config.Default()
}

// OpenTargetsDB opens (creating if needed) a SQLite targets database.
func OpenTargetsDB(path string) (*sql.DB, error) {
	return config.OpenDB(path)
}

// LoadTargets reads the active targets of a targets database.
func LoadTargets(ctx context.Context, db *sql.DB) ([]Target, error) {
	return config.LoadTargets(ctx, db)
}

// SaveTarget upserts a target into a targets database.
func SaveTarget(ctx context.Context, db *sql.DB, t Target) error {
	return config.SaveTarget(ctx, db, t)
}
