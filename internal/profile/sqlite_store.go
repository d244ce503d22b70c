package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one row per user, each holding the profile as a JSON document.
// Save swaps the full row set inside a single transaction, which preserves the
// whole-store replace semantics of the file store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Single writer; one connection keeps SQLite from returning SQLITE_BUSY to ourselves.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	log.Debug().Str("path", dbPath).Msg("SQLite profile store ready")
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Load returns every stored profile; an empty table yields an empty map.
func (s *SQLiteStore) Load(ctx context.Context) (Profiles, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, data FROM profiles`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close profile rows")
		}
	}()

	profiles := Profiles{}
	for rows.Next() {
		var userID, data string
		if err := rows.Scan(&userID, &data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
		}
		var p UserProfile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("%w: user %s: %w", ErrStoreDecode, userID, err)
		}
		profiles[userID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}
	return profiles, nil
}

// Save replaces all rows with the given profiles in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, profiles Profiles) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrStoreWrite, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles`); err != nil {
		return fmt.Errorf("%w: clear: %w", ErrStoreWrite, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO profiles (user_id, data, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %w", ErrStoreWrite, err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for userID, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStoreEncode, err)
		}
		if _, err := stmt.ExecContext(ctx, userID, string(data), now); err != nil {
			return fmt.Errorf("%w: insert %s: %w", ErrStoreWrite, userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrStoreWrite, err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
