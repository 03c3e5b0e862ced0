// Package record holds the configuration record: the accumulated color choices of a session.
package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TypeConfigUpdate is the type tag of a record message sent to the host page.
const TypeConfigUpdate = "configUpdate"

// Record maps part names to color names, plus one chassis-wide color.
// Parts are grouped by view so the host page receives one object per editing view.
type Record struct {
	product string
	chassis string
	colors  map[string]string // part -> color name
	groups  map[string]string // part -> view name
}

// New returns an empty record for a product.
func New(product string) *Record {
	return &Record{
		product: product,
		colors:  map[string]string{},
		groups:  map[string]string{},
	}
}

// Product returns the product name.
func (r *Record) Product() string {
	return r.product
}

// Chassis returns the chassis-wide color name.
func (r *Record) Chassis() string {
	return r.chassis
}

// SetChassis sets the chassis-wide color name.
func (r *Record) SetChassis(color string) {
	r.chassis = color
}

// Set records the color of a part in a view group.
func (r *Record) Set(group, part, color string) {
	r.colors[part] = color
	r.groups[part] = group
}

// Color returns the color recorded for a part.
func (r *Record) Color(part string) (string, bool) {
	c, ok := r.colors[part]
	return c, ok
}

// Len returns the number of per-part entries.
func (r *Record) Len() int {
	return len(r.colors)
}

// Group returns part -> color for one view group.
func (r *Record) Group(group string) map[string]string {
	out := map[string]string{}
	for part, g := range r.groups {
		if g == group {
			out[part] = r.colors[part]
		}
	}

	return out
}

// Groups returns the group names in sorted order.
func (r *Record) Groups() []string {
	seen := map[string]struct{}{}
	for _, g := range r.groups {
		seen[g] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)

	return out
}

// GroupColors returns the color names of a group ordered by part name.
func (r *Record) GroupColors(group string) []string {
	entries := r.Group(group)
	names := make([]string, 0, len(entries))
	for part := range entries {
		names = append(names, part)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, entries[n])
	}

	return out
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	out := New(r.product)
	out.chassis = r.chassis
	for part, c := range r.colors {
		out.colors[part] = c
		out.groups[part] = r.groups[part]
	}

	return out
}

// Equal reports whether two records hold the same choices.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.product != o.product || r.chassis != o.chassis || len(r.colors) != len(o.colors) {
		return false
	}
	for part, c := range r.colors {
		if oc, ok := o.colors[part]; !ok || oc != c || o.groups[part] != r.groups[part] {
			return false
		}
	}

	return true
}

// String returns a compact description (e.g. "chassis=Azul buttons[aro1=Rojo boton1=Rojo]").
func (r *Record) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "chassis=%s", r.chassis)
	for _, g := range r.Groups() {
		entries := r.Group(g)
		names := make([]string, 0, len(entries))
		for n := range entries {
			names = append(names, n)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, n := range names {
			parts = append(parts, n+"="+entries[n])
		}
		fmt.Fprintf(&b, " %s[%s]", g, strings.Join(parts, " "))
	}

	return b.String()
}

// MarshalJSON encodes the record as the host-page message:
// {"type":"configUpdate","product":"mixo","chassis":"Azul","buttons":{"boton1":"Rojo"}}.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type":    TypeConfigUpdate,
		"product": r.product,
		"chassis": r.chassis,
	}
	for _, g := range r.Groups() {
		out[g] = r.Group(g)
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the host-page message form.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fresh := New("")
	for key, val := range raw {
		switch key {
		case "type":
			var tag string
			if err := json.Unmarshal(val, &tag); err != nil {
				return fmt.Errorf("record type: %w", err)
			}
			if tag != TypeConfigUpdate {
				return fmt.Errorf("record type %q", tag)
			}
		case "product":
			if err := json.Unmarshal(val, &fresh.product); err != nil {
				return fmt.Errorf("record product: %w", err)
			}
		case "chassis", "chasis":
			if err := json.Unmarshal(val, &fresh.chassis); err != nil {
				return fmt.Errorf("record chassis: %w", err)
			}
		default:
			var group map[string]string
			if err := json.Unmarshal(val, &group); err != nil {
				return fmt.Errorf("record group %q: %w", key, err)
			}
			for part, color := range group {
				fresh.Set(key, part, color)
			}
		}
	}

	*r = *fresh
	return nil
}
