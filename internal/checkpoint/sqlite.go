package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shravan2453/ProjectForge/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	session_id TEXT PRIMARY KEY,
	snapshot   BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// SQLiteStore persists checkpoints in a SQLite database, so sessions
// survive process restarts. Use ":memory:" for an ephemeral database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the checkpoint database at path
// and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, types.WrapError(types.CHECKPOINT_SAVE_FAILED, "failed to create checkpoint directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, types.WrapError(types.CHECKPOINT_SAVE_FAILED, "failed to open checkpoint database", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, types.WrapError(types.CHECKPOINT_SAVE_FAILED, "failed to set journal mode", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, types.WrapError(types.CHECKPOINT_SAVE_FAILED, "failed to create checkpoint schema", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save upserts the session's snapshot.
func (s *SQLiteStore) Save(ctx context.Context, sessionID string, snapshot []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (session_id, snapshot, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at`,
		sessionID, snapshot, time.Now().UTC())
	if err != nil {
		return types.WrapError(types.CHECKPOINT_SAVE_FAILED, "failed to save checkpoint", err)
	}
	return nil
}

// Load returns the session's snapshot.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var snapshot []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot FROM checkpoints WHERE session_id = ?`, sessionID).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, types.WrapError(types.CHECKPOINT_LOAD_FAILED, "failed to load checkpoint", err)
	}
	return snapshot, nil
}

// Delete removes the session's snapshot.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM checkpoints WHERE session_id = ?`, sessionID); err != nil {
		return types.WrapError(types.CHECKPOINT_SAVE_FAILED, "failed to delete checkpoint", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
