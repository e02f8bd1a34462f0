package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/martinsuchenak/advisorctl/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

const (
	keyServerAddress = "server_address"
	keyUsername      = "username"
	keyToken         = "token"

	databaseFile = "advisorctl.db"
)

// SQLiteStorage implements Storage with a SQLite key/value table
type SQLiteStorage struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens (or creates) the session database under dataDir
func NewSQLiteStorage(dataDir string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, databaseFile)

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ss := &SQLiteStorage{
		db:   db,
		path: dbPath,
	}

	if err := ss.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if err := ss.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return ss, nil
}

// initSchema creates the database schema
func (ss *SQLiteStorage) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	_, err = ss.db.Exec(string(schema))
	return err
}

// Path returns the database file location
func (ss *SQLiteStorage) Path() string {
	return ss.path
}

// Close closes the database connection
func (ss *SQLiteStorage) Close() error {
	return ss.db.Close()
}

// GetSession loads the persisted session. Missing keys are returned as empty strings.
func (ss *SQLiteStorage) GetSession() (*model.Session, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	rows, err := ss.db.Query(`SELECT key, value, updated_at FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	session := &model.Session{}
	for rows.Next() {
		var key, value string
		var updatedAt time.Time
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning setting: %w", err)
		}
		switch key {
		case keyServerAddress:
			session.ServerAddress = value
		case keyUsername:
			session.Username = value
		case keyToken:
			session.Token = value
		}
		if updatedAt.After(session.UpdatedAt) {
			session.UpdatedAt = updatedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating settings: %w", err)
	}

	return session, nil
}

func (ss *SQLiteStorage) SaveServerAddress(address string) error {
	return ss.setValue(keyServerAddress, address)
}

func (ss *SQLiteStorage) SaveUsername(username string) error {
	return ss.setValue(keyUsername, username)
}

func (ss *SQLiteStorage) SaveToken(token string) error {
	return ss.setValue(keyToken, token)
}

// ClearSession removes the server address and token in one transaction
func (ss *SQLiteStorage) ClearSession() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	tx, err := ss.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM settings WHERE key IN (?, ?)`, keyServerAddress, keyToken); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	return tx.Commit()
}

// setValue upserts a single setting. An empty value deletes the key.
func (ss *SQLiteStorage) setValue(key, value string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if value == "" {
		if _, err := ss.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
		return nil
	}

	_, err := ss.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
