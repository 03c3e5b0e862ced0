// Package parts classifies named model meshes into colorable categories and pairs companions.
package parts

import (
	"fmt"
	"strings"
)

// Category represents the kind of a colorable part.
type Category int

const (
	// Unknown is an unclassified mesh.
	Unknown Category = iota

	// Chassis part. One color paints every chassis part.
	Chassis

	// Button part.
	Button

	// Knob part.
	Knob

	// Fader part.
	Fader

	// Ring surrounding a button. Never selectable on its own.
	Ring
)

var categoryNames = map[Category]string{
	Unknown: "unknown",
	Chassis: "chassis",
	Button:  "button",
	Knob:    "knob",
	Fader:   "fader",
	Ring:    "ring",
}

// String returns the category name.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}

	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory parses a category name.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, name := range categoryNames {
		if c != Unknown && name == s {
			return c, true
		}
	}

	return Unknown, false
}

// MarshalText encodes the category name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, ok := ParseCategory(string(b))
	if !ok {
		return fmt.Errorf("unknown category %q", string(b))
	}

	*c = parsed
	return nil
}

// View is an editing view of the configurator. Each view intersects one bucket of parts.
type View string

const (
	// ViewNormal is the overview. Orbit is enabled and clicks are inert.
	ViewNormal View = "normal"
	// ViewChassis edits the chassis color.
	ViewChassis View = "chassis"
	// ViewButtons edits buttons (and, through pairing, their rings).
	ViewButtons View = "buttons"
	// ViewKnobs edits knobs.
	ViewKnobs View = "knobs"
	// ViewFaders edits faders.
	ViewFaders View = "faders"
)

// Views lists every view in menu order.
var Views = []View{ViewNormal, ViewChassis, ViewButtons, ViewKnobs, ViewFaders}

// ParseView parses a view name. The historical spelling "chasis" is accepted.
func ParseView(s string) (View, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "chasis" {
		return ViewChassis, true
	}

	for _, v := range Views {
		if string(v) == s {
			return v, true
		}
	}

	return "", false
}

// UnmarshalText decodes a view name.
func (v *View) UnmarshalText(b []byte) error {
	parsed, ok := ParseView(string(b))
	if !ok {
		return fmt.Errorf("unknown view %q", string(b))
	}

	*v = parsed
	return nil
}

// Editable reports whether the view edits colors.
func (v View) Editable() bool {
	return v != ViewNormal && v != ""
}

// MultiSelect reports whether the view allows extend-selection.
func (v View) MultiSelect() bool {
	return v == ViewButtons || v == ViewKnobs || v == ViewFaders
}

// DefaultView returns the editing view a category belongs to.
func DefaultView(c Category) View {
	switch c {
	case Chassis:
		return ViewChassis
	case Button, Ring:
		return ViewButtons
	case Knob:
		return ViewKnobs
	case Fader:
		return ViewFaders
	default:
		return ""
	}
}
