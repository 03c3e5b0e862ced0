package palette

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownColor is returned when a color name is not offered by a palette.
var ErrUnknownColor = errors.New("unknown color")

// Swatch is one named color of a palette.
type Swatch struct {
	Name  string `json:"name"` // color name shown to the user (e.g. Rojo)
	Value Color  `json:"hex"`  // color value (e.g. #E52421)
}

// Palette is an ordered list of swatches.
type Palette []Swatch

// Lookup finds a swatch by name. Matching is case-insensitive.
func (p Palette) Lookup(name string) (Swatch, bool) {
	for _, s := range p {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}

	return Swatch{}, false
}

// Names returns the swatch names in palette order.
func (p Palette) Names() []string {
	out := make([]string, 0, len(p))
	for _, s := range p {
		out = append(out, s.Name)
	}

	return out
}

// Registry maps a view name to its palette. It is immutable once built.
type Registry struct {
	byView map[string]Palette
}

// NewRegistry builds a registry from view name -> palette.
func NewRegistry(views map[string]Palette) (*Registry, error) {
	r := &Registry{byView: make(map[string]Palette, len(views))}
	for view, p := range views {
		if len(p) == 0 {
			return nil, fmt.Errorf("palette for %q is empty", view)
		}

		seen := map[string]struct{}{}
		for _, s := range p {
			key := strings.ToLower(s.Name)
			if key == "" {
				return nil, fmt.Errorf("palette for %q has a swatch without name", view)
			}
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("palette for %q: duplicate color %q", view, s.Name)
			}
			seen[key] = struct{}{}
		}

		r.byView[view] = append(Palette(nil), p...)
	}

	return r, nil
}

// Palette returns the palette for a view (nil when the view has none).
func (r *Registry) Palette(view string) Palette {
	if r == nil {
		return nil
	}

	return r.byView[view]
}

// Lookup finds a color of a view's palette.
func (r *Registry) Lookup(view, name string) (Swatch, error) {
	s, ok := r.Palette(view).Lookup(name)
	if !ok {
		return Swatch{}, fmt.Errorf("%w: %q in %s palette", ErrUnknownColor, name, view)
	}

	return s, nil
}
