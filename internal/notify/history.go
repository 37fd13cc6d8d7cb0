package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// History persists toasts to a local SQLite database so the user can
// review notifications that scrolled past.
type History struct {
	db *sqlx.DB
}

// NewHistory opens (or creates) the history database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewHistory(dbPath string) (*History, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	// WAL keeps reads cheap while the feed writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	h := &History{db: db}
	if err := h.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return h, nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (h *History) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := h.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = h.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := h.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Record inserts a toast into the history.
func (h *History) Record(ctx context.Context, t Toast) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO toasts (id, level, message, created_at)
		VALUES (?, ?, ?, ?)`,
		t.ID, string(t.Level), t.Message, t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording toast: %w", err)
	}
	return nil
}

// Recent returns up to limit toasts, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Toast, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.QueryxContext(ctx,
		"SELECT id, level, message, created_at FROM toasts ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying toasts: %w", err)
	}
	defer rows.Close()

	var toasts []Toast
	for rows.Next() {
		var (
			t         Toast
			level     string
			createdAt time.Time
		)
		if err := rows.Scan(&t.ID, &level, &t.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning toast row: %w", err)
		}
		t.Level = Level(level)
		t.CreatedAt = createdAt
		toasts = append(toasts, t)
	}

	return toasts, rows.Err()
}

// Prune deletes history entries older than the given age.
func (h *History) Prune(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge).UTC()
	_, err := h.db.ExecContext(ctx, "DELETE FROM toasts WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("pruning toasts: %w", err)
	}
	return nil
}
