// Package store persists the client state of a product: its current view and configuration record.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/record"
)

var (
	// ErrNotFound is returned when nothing was saved for a product.
	ErrNotFound = errors.New("snapshot not found")

	// ErrBadProduct is returned for product names unsafe as keys.
	ErrBadProduct = errors.New("invalid product name")
)

var productName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Snapshot is the persisted state of one product.
type Snapshot struct {
	Product string         `json:"product"`
	View    parts.View     `json:"view"`
	Record  *record.Record `json:"record"`
	SavedAt time.Time      `json:"saved_at"`
}

// Store loads and saves snapshots keyed by product name.
type Store interface {
	Load(ctx context.Context, product string) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}

// Open opens a store. Drivers: "file" (dsn is a directory) and "sqlite" (dsn is a database path).
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "file":
		return NewFileStore(dsn)
	case "sqlite":
		return NewSQLiteStore(dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// checkProduct validates a product key.
func checkProduct(product string) error {
	if !productName.MatchString(product) {
		return fmt.Errorf("%w: %q", ErrBadProduct, product)
	}

	return nil
}

// fingerprint identifies a saved state.
type fingerprint struct {
	view   parts.View
	digest uint64
}

// Deduped skips saves whose view and record digest match the last write for the product.
type Deduped struct {
	Store

	mu      sync.Mutex
	last    map[string]fingerprint
	skipped int
}

// NewDeduped wraps a store.
func NewDeduped(s Store) *Deduped {
	return &Deduped{Store: s, last: map[string]fingerprint{}}
}

// Load loads a snapshot and remembers it as the last written state.
func (d *Deduped) Load(ctx context.Context, product string) (Snapshot, error) {
	snap, err := d.Store.Load(ctx, product)
	if err != nil {
		return snap, err
	}

	d.mu.Lock()
	d.last[product] = fingerprintOf(snap)
	d.mu.Unlock()

	return snap, nil
}

// Save writes a snapshot unless it matches the last write.
func (d *Deduped) Save(ctx context.Context, snap Snapshot) error {
	fp := fingerprintOf(snap)

	d.mu.Lock()
	if prev, ok := d.last[snap.Product]; ok && prev == fp {
		d.skipped++
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	if err := d.Store.Save(ctx, snap); err != nil {
		return err
	}

	d.mu.Lock()
	d.last[snap.Product] = fp
	d.mu.Unlock()

	return nil
}

// Skipped returns the number of skipped saves.
func (d *Deduped) Skipped() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.skipped
}

// fingerprintOf computes the dedup key of a snapshot.
func fingerprintOf(s Snapshot) fingerprint {
	fp := fingerprint{view: s.View}
	if s.Record != nil {
		fp.digest = s.Record.Digest()
	}

	return fp
}
