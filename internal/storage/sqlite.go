package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/sagaforge/adventure-engine/pkg/adventure"
)

// SQLiteStore implements the Store interface on a local SQLite database.
// Adventures are stored as JSON documents in a single table; the schema
// stays in the document so saves written by older builds still load.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS adventures (
	id       TEXT PRIMARY KEY,
	saved_at TEXT NOT NULL,
	doc      TEXT NOT NULL
);`

// NewSQLiteStore opens (and if necessary creates) the database at path.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create adventures table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close sqlite database", "error", err)
		return err
	}
	return nil
}

func (s *SQLiteStore) SaveAdventure(ctx context.Context, sa *adventure.SavedAdventure) error {
	if sa == nil {
		return fmt.Errorf("saved adventure cannot be nil")
	}
	if sa.ID == uuid.Nil {
		return fmt.Errorf("saved adventure id cannot be nil")
	}

	data, err := json.Marshal(sa)
	if err != nil {
		s.logger.Error("Failed to marshal adventure", "uuid", sa.ID, "error", err)
		return fmt.Errorf("failed to marshal adventure: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO adventures (id, saved_at, doc) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, doc = excluded.doc`,
		sa.ID.String(), sa.SavedAt.UTC().Format("2006-01-02T15:04:05Z"), string(data))
	if err != nil {
		s.logger.Error("Failed to save adventure", "uuid", sa.ID, "error", err)
		return fmt.Errorf("failed to save adventure: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAdventure(ctx context.Context, id uuid.UUID) (*adventure.SavedAdventure, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM adventures WHERE id = ?`, id.String()).Scan(&doc)
	if err == sql.ErrNoRows {
		s.logger.Warn("Adventure not found", "uuid", id)
		return nil, nil // Return nil for not found
	}
	if err != nil {
		s.logger.Error("Failed to load adventure", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load adventure: %w", err)
	}

	var sa adventure.SavedAdventure
	if err := json.Unmarshal([]byte(doc), &sa); err != nil {
		s.logger.Error("Failed to unmarshal adventure", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal adventure: %w", err)
	}
	return &sa, nil
}

func (s *SQLiteStore) ListAdventures(ctx context.Context) ([]adventure.SavedAdventure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM adventures ORDER BY saved_at DESC`)
	if err != nil {
		s.logger.Error("Failed to query adventures", "error", err)
		return nil, fmt.Errorf("failed to list adventures: %w", err)
	}
	defer rows.Close()

	var out []adventure.SavedAdventure
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan adventure row: %w", err)
		}
		var sa adventure.SavedAdventure
		if err := json.Unmarshal([]byte(doc), &sa); err != nil {
			s.logger.Warn("Skipping malformed adventure record", "error", err)
			continue
		}
		out = append(out, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate adventures: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) DeleteAdventure(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM adventures WHERE id = ?`, id.String()); err != nil {
		s.logger.Error("Failed to delete adventure", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete adventure: %w", err)
	}
	return nil
}
