package database

import (
	"context"
	"database/sql"
	"errors"
)

const (
	metaSchemaVersion = "schema_version"
	metaActiveTaskID  = "active_task_id"
	metaSavedAt       = "saved_at"
)

// GetMeta returns a stored metadata value.
func (d *Database) GetMeta(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	var value sql.NullString
	err := d.DB.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value.String, value.Valid, nil
}

func setMetaTx(ctx context.Context, tx *sql.Tx, key string, value sql.NullString) error {
	_, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
	return err
}
