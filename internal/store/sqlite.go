package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/obra-tracker/internal/model"
)

// SQLiteStore implements OverrideStore using a local SQLite database. The
// full mapping is loaded into memory at open and kept in sync on every
// write, so reads never touch the database.
type SQLiteStore struct {
	db    *sqlx.DB
	mu    sync.RWMutex
	cache map[model.OverrideKey]model.Date
}

// overrideRow mirrors a row of the overrides table.
type overrideRow struct {
	Segment string `db:"segment"`
	Project string `db:"project"`
	Stage   string `db:"stage"`
	Kind    string `db:"kind"`
	Value   string `db:"value"`
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, runs any pending schema migrations and loads every
// stored override.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases from splitting per
	// connection; there is only ever one writer anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := s.load(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// load reads the whole overrides table into the cache.
func (s *SQLiteStore) load(ctx context.Context) error {
	var rows []overrideRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT segment, project, stage, kind, value FROM overrides")
	if err != nil {
		return fmt.Errorf("loading overrides: %w", err)
	}

	cache := make(map[model.OverrideKey]model.Date, len(rows))
	for _, r := range rows {
		d, err := model.ParseDate(r.Value)
		if err != nil || d.IsZero() {
			continue
		}
		cache[rowKey(r)] = d
	}

	s.mu.Lock()
	s.cache = cache
	s.mu.Unlock()
	return nil
}

// Get returns the override for key, if any.
func (s *SQLiteStore) Get(
	_ context.Context,
	key model.OverrideKey,
) (model.Date, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.cache[key]
	return d, ok, nil
}

// All returns a copy of every stored override.
func (s *SQLiteStore) All(_ context.Context) (map[model.OverrideKey]model.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.OverrideKey]model.Date, len(s.cache))
	for k, v := range s.cache {
		out[k] = v
	}
	return out, nil
}

// Set upserts the override for key. A blank value deletes it instead.
func (s *SQLiteStore) Set(
	ctx context.Context,
	key model.OverrideKey,
	value string,
) error {
	d, err := normalize(key, value)
	if err != nil {
		return err
	}
	if d.IsZero() {
		return s.Delete(ctx, key)
	}

	return s.write(ctx, key, d, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO overrides (segment, project, stage, kind, value, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(segment, project, stage, kind)
			DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			string(key.Segment), key.Project, string(key.Stage), string(key.Kind),
			d.String(), time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting override %s: %w", key, err)
		}
		return nil
	})
}

// Delete removes the override for key. Deleting a missing key is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, key model.OverrideKey) error {
	if err := key.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.cache[key]
	s.mu.RUnlock()
	if !exists {
		return nil
	}

	return s.write(ctx, key, model.Date{}, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM overrides
			WHERE segment = ? AND project = ? AND stage = ? AND kind = ?`,
			string(key.Segment), key.Project, string(key.Stage), string(key.Kind),
		)
		if err != nil {
			return fmt.Errorf("deleting override %s: %w", key, err)
		}
		return nil
	})
}

// write runs mutate and the history insert in one transaction, then
// updates the cache once the commit succeeded.
func (s *SQLiteStore) write(
	ctx context.Context,
	key model.OverrideKey,
	newValue model.Date,
	mutate func(tx *sqlx.Tx) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.cache[key]
	if old == newValue {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := mutate(tx); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO override_history (id, segment, project, stage, kind, old_value, new_value, changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		string(key.Segment), key.Project, string(key.Stage), string(key.Kind),
		old.String(), newValue.String(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording history for %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing override %s: %w", key, err)
	}

	if newValue.IsZero() {
		delete(s.cache, key)
	} else {
		s.cache[key] = newValue
	}
	return nil
}

// History returns every recorded change to key, oldest first.
func (s *SQLiteStore) History(
	ctx context.Context,
	key model.OverrideKey,
) ([]HistoryEntry, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, old_value, new_value, changed_at
		FROM override_history
		WHERE segment = ? AND project = ? AND stage = ? AND kind = ?
		ORDER BY changed_at, rowid`,
		string(key.Segment), key.Project, string(key.Stage), string(key.Kind),
	)
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", key, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		e := HistoryEntry{Key: key}
		if err := rows.Scan(&e.ID, &e.OldValue, &e.NewValue, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func rowKey(r overrideRow) model.OverrideKey {
	return model.OverrideKey{
		Segment: model.Segment(r.Segment),
		Project: r.Project,
		Stage:   model.Stage(r.Stage),
		Kind:    model.OverrideKind(r.Kind),
	}
}
