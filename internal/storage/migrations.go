package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

const currentSchemaVersion = 2

// migrate brings the settings table up to currentSchemaVersion
func (ss *SQLiteStorage) migrate() error {
	var version sql.NullInt64
	if err := ss.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return fmt.Errorf("checking migration version: %w", err)
	}

	if !version.Valid || version.Int64 < 1 {
		if err := ss.recordVersion(1); err != nil {
			return err
		}
	}
	if !version.Valid || version.Int64 < 2 {
		if err := ss.migrateToV2(); err != nil {
			return err
		}
	}
	return nil
}

// migrateToV2 normalizes server addresses written by older releases, which stored the
// address exactly as typed, scheme included.
func (ss *SQLiteStorage) migrateToV2() error {
	tx, err := ss.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var address string
	err = tx.QueryRow(`SELECT value FROM settings WHERE key = ?`, keyServerAddress).Scan(&address)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return fmt.Errorf("reading server address: %w", err)
	default:
		if i := strings.Index(address, "://"); i >= 0 {
			bare := strings.TrimRight(address[i+3:], "/")
			if _, err := tx.Exec(`UPDATE settings SET value = ? WHERE key = ?`, bare, keyServerAddress); err != nil {
				return fmt.Errorf("normalizing server address: %w", err)
			}
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (2)`); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}

func (ss *SQLiteStorage) recordVersion(version int) error {
	if _, err := ss.db.Exec(`INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("recording migration v%d: %w", version, err)
	}
	return nil
}
