package product

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/woozymasta/beato-configurator/internal/camera"
	"github.com/woozymasta/beato-configurator/internal/configurator"
	"github.com/woozymasta/beato-configurator/internal/parts"
)

// Validate checks a set of definitions before they are served.
// This catches typos in views, colors and patterns before a session starts.
func Validate(defs []Definition) error {
	seen := map[string]struct{}{}
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("product without name")
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("duplicate product %q", d.Name)
		}
		seen[d.Name] = struct{}{}

		if err := d.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks one definition.
func (d Definition) Validate() error {
	if len(d.Views) == 0 {
		return fmt.Errorf("product %q: no views", d.Name)
	}
	for _, v := range d.Views {
		if _, ok := parts.ParseView(string(v)); !ok {
			return fmt.Errorf("product %q: unknown view %q", d.Name, v)
		}
	}

	if _, err := configurator.ParseOrphanRing(string(d.OrphanRing)); err != nil {
		return fmt.Errorf("product %q: %w", d.Name, err)
	}

	reg, err := d.Registry()
	if err != nil {
		return fmt.Errorf("product %q: %w", d.Name, err)
	}
	for _, v := range d.Views {
		if v.Editable() && len(reg.Palette(string(v))) == 0 {
			return fmt.Errorf("product %q: view %q has no palette", d.Name, v)
		}
	}

	if len(d.Rules) == 0 {
		return fmt.Errorf("product %q: no rules", d.Name)
	}
	if _, err := d.Classifier(); err != nil {
		return err
	}

	for i, r := range d.Rules {
		view := r.View
		if view == "" {
			view = parts.DefaultView(r.Category)
		}
		if !d.HasView(view) {
			return fmt.Errorf("product %q: rule %d (%s): view %q is not offered", d.Name, i, r.Category, view)
		}
		if strings.TrimSpace(r.Default) == "" {
			return fmt.Errorf("product %q: rule %d (%s): no default color", d.Name, i, r.Category)
		}
		if _, err := reg.Lookup(string(view), r.Default); err != nil {
			return fmt.Errorf("product %q: rule %d (%s): default: %w", d.Name, i, r.Category, err)
		}
	}

	for _, p := range d.Pairings {
		if p.Primary == p.Companion || p.Primary == parts.Unknown || p.Companion == parts.Unknown {
			return fmt.Errorf("product %q: invalid pairing %s -> %s", d.Name, p.Primary, p.Companion)
		}
	}

	if _, ok := d.Cameras[camera.PoseNormal]; !ok {
		return fmt.Errorf("product %q: missing %q camera", d.Name, camera.PoseNormal)
	}

	for _, f := range d.SpecFields {
		if !d.HasView(f.View) {
			return fmt.Errorf("product %q: spec field %q refers to view %q which is not offered", d.Name, f.Label, f.View)
		}
	}

	return nil
}

// jsonIndent encodes v as indented JSON.
func jsonIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
