package product

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

//go:embed defs/*.yaml
var builtinFS embed.FS

// ErrUnknownProduct is returned for a product the catalog does not hold.
var ErrUnknownProduct = errors.New("unknown product")

// Builtin returns the embedded definitions.
func Builtin() ([]Definition, error) {
	entries, err := fs.ReadDir(builtinFS, "defs")
	if err != nil {
		return nil, err
	}

	var out []Definition
	for _, e := range entries {
		raw, err := builtinFS.ReadFile("defs/" + e.Name())
		if err != nil {
			return nil, err
		}
		def, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", e.Name(), err)
		}
		out = append(out, def)
	}

	return out, nil
}

// ReadDir reads every *.yaml, *.yml and *.json definition of a directory.
// Model paths are resolved relative to the directory.
func ReadDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []Definition
	for _, e := range entries {
		if e.IsDir() || !isDefinitionFile(e.Name()) {
			continue
		}

		def, err := ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if def.Model != "" && !filepath.IsAbs(def.Model) {
			def.Model = filepath.Join(dir, def.Model)
		}
		out = append(out, def)
	}

	return out, nil
}

// isDefinitionFile checks the file extension.
func isDefinitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// Catalog holds the served definitions. It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	onSet []func(Definition)
}

// NewCatalog validates and stores definitions.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{defs: map[string]Definition{}}
	if err := c.Replace(defs); err != nil {
		return nil, err
	}

	return c, nil
}

// Replace validates defs and swaps them in. Products missing from defs are kept.
// On error nothing changes.
func (c *Catalog) Replace(defs []Definition) error {
	if err := Validate(defs); err != nil {
		return err
	}

	c.mu.Lock()
	for _, d := range defs {
		c.defs[d.Name] = d
	}
	hooks := append([]func(Definition){}, c.onSet...)
	c.mu.Unlock()

	for _, d := range defs {
		for _, fn := range hooks {
			fn(d)
		}
	}

	return nil
}

// OnChange registers a callback run after a definition is stored.
func (c *Catalog) OnChange(fn func(Definition)) {
	c.mu.Lock()
	c.onSet = append(c.onSet, fn)
	c.mu.Unlock()
}

// Get returns a definition by name.
func (c *Catalog) Get(name string) (Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.defs[strings.ToLower(name)]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
	}

	return d, nil
}

// Names returns the product names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.defs))
	for name := range c.defs {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// All returns every definition sorted by name.
func (c *Catalog) All() []Definition {
	names := c.Names()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Definition, 0, len(names))
	for _, n := range names {
		out = append(out, c.defs[n])
	}

	return out
}
