package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/record"
)

// SQLiteStore keeps snapshots in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates) the database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// initSchema creates the snapshots table.
func (s *SQLiteStore) initSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
    product TEXT PRIMARY KEY,
    view TEXT NOT NULL,
    record TEXT NOT NULL,
    digest TEXT NOT NULL,
    saved_at TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the snapshot of a product.
func (s *SQLiteStore) Load(ctx context.Context, product string) (Snapshot, error) {
	if err := checkProduct(product); err != nil {
		return Snapshot{}, err
	}

	var view, raw, savedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT view, record, saved_at FROM snapshots WHERE product = ?`, product,
	).Scan(&view, &raw, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}

	rec := record.New(product)
	if err := json.Unmarshal([]byte(raw), rec); err != nil {
		return Snapshot{}, fmt.Errorf("decode record: %w", err)
	}

	v, ok := parts.ParseView(view)
	if !ok {
		v = parts.ViewNormal
	}

	snap := Snapshot{Product: product, View: v, Record: rec}
	if t, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
		snap.SavedAt = t
	}

	return snap, nil
}

// Save upserts the snapshot of a product.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	if err := checkProduct(snap.Product); err != nil {
		return err
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	if snap.Record == nil {
		snap.Record = record.New(snap.Product)
	}

	raw, err := json.Marshal(snap.Record)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO snapshots (product, view, record, digest, saved_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(product) DO UPDATE SET
    view = excluded.view,
    record = excluded.record,
    digest = excluded.digest,
    saved_at = excluded.saved_at`,
		snap.Product,
		string(snap.View),
		string(raw),
		strconv.FormatUint(snap.Record.Digest(), 16),
		snap.SavedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}
