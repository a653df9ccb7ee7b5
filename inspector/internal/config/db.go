package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/elinspect/dbopen"
)

// Schema for the inspect_targets table.
const Schema = `
CREATE TABLE IF NOT EXISTS inspect_targets (
	id         TEXT PRIMARY KEY,
	url        TEXT NOT NULL,
	format     TEXT DEFAULT '',
	status     TEXT DEFAULT 'active',
	updated_at INTEGER NOT NULL
);
`

// OpenDB opens (creating if needed) a targets database.
func OpenDB(path string) (*sql.DB, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("config: targets db: %w", err)
	}
	return db, nil
}

// LoadTargets reads all active targets, ordered by id.
func LoadTargets(ctx context.Context, db *sql.DB) ([]Target, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, url, format
		FROM inspect_targets
		WHERE status = 'active'
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("config: load targets: %w", err)
	}
	defer rows.Close()

	var targets []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.URL, &t.Format); err != nil {
			return nil, fmt.Errorf("config: scan target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// SaveTarget inserts or replaces an active target.
func SaveTarget(ctx context.Context, db *sql.DB, t Target) error {
	_, err := dbopen.Exec(ctx, db, `
		INSERT INTO inspect_targets (id, url, format, status, updated_at)
		VALUES (?, ?, ?, 'active', ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			format = excluded.format,
			status = 'active',
			updated_at = excluded.updated_at
	`, t.ID, t.URL, t.Format, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("config: save target %s: %w", t.ID, err)
	}
	return nil
}
