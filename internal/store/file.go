package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/record"
)

// FileStore keeps one JSON document per product. The document uses the
// browser storage keys <product>_currentView and <product>_chosenColors.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

// path returns the document path of a product.
func (s *FileStore) path(product string) string {
	return filepath.Join(s.dir, product+".json")
}

// Load reads the snapshot of a product.
func (s *FileStore) Load(_ context.Context, product string) (Snapshot, error) {
	if err := checkProduct(product); err != nil {
		return Snapshot{}, err
	}

	raw, err := os.ReadFile(s.path(product))
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", s.path(product), err)
	}

	snap := Snapshot{Product: product, Record: record.New(product)}

	if v, ok := doc[product+"_currentView"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return Snapshot{}, fmt.Errorf("decode view: %w", err)
		}
		view, ok := parts.ParseView(name)
		if !ok {
			view = parts.ViewNormal
		}
		snap.View = view
	}

	if v, ok := doc[product+"_chosenColors"]; ok {
		if err := json.Unmarshal(v, snap.Record); err != nil {
			return Snapshot{}, fmt.Errorf("decode colors: %w", err)
		}
	}

	if v, ok := doc["saved_at"]; ok {
		_ = json.Unmarshal(v, &snap.SavedAt)
	}

	return snap, nil
}

// Save writes the snapshot of a product atomically.
func (s *FileStore) Save(_ context.Context, snap Snapshot) error {
	if err := checkProduct(snap.Product); err != nil {
		return err
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}
	if snap.Record == nil {
		snap.Record = record.New(snap.Product)
	}

	doc := map[string]any{
		snap.Product + "_currentView":  snap.View,
		snap.Product + "_chosenColors": snap.Record,
		"saved_at":                     snap.SavedAt,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, snap.Product+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), s.path(snap.Product))
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
