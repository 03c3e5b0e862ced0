// Package configurator implements part selection and color application for one product session.
// It is renderer independent: materials, highlights and the camera are reached through interfaces.
// A Configurator is not safe for concurrent use; callers serialize access.
package configurator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/record"
)

var (
	// ErrNothingSelected is returned when a color is applied without a target.
	ErrNothingSelected = errors.New("nothing selected")

	// ErrNotLoaded is returned when no model has been classified yet.
	ErrNotLoaded = errors.New("model not loaded")

	// ErrUnknownView is returned for a view the configurator does not offer.
	ErrUnknownView = errors.New("unknown view")
)

// NoticeNothingSelected is the user-facing notice for a color click without selection.
const NoticeNothingSelected = "Selecciona una pieza antes de elegir un color."

// Material is the visual state assigned to a part.
type Material struct {
	Color  palette.Color `json:"color"`
	Finish parts.Finish  `json:"finish"`
}

// Surface receives visual state changes. The scene owns material state.
type Surface interface {
	SetMaterial(part string, m Material)
	SetColor(part string, c palette.Color)
	SetHighlight(part string, on bool)
}

// Camera moves to view poses. MoveTo returns an animation token;
// Settle reports whether the token is still the latest one.
type Camera interface {
	MoveTo(view parts.View) uint64
	Settle(token uint64) bool
}

// Listener receives record changes and user notices.
type Listener interface {
	RecordChanged(rec *record.Record)
	Notice(msg string)
}

// OrphanRing decides what a click on a ring without a button does.
type OrphanRing string

const (
	// OrphanIgnore leaves the selection unchanged.
	OrphanIgnore OrphanRing = "ignore"
	// OrphanSelect selects the ring itself.
	OrphanSelect OrphanRing = "select"
)

// ParseOrphanRing parses an orphan ring policy. Empty means ignore.
func ParseOrphanRing(s string) (OrphanRing, error) {
	switch OrphanRing(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrphanIgnore:
		return OrphanIgnore, nil
	case OrphanSelect:
		return OrphanSelect, nil
	default:
		return "", fmt.Errorf("unknown orphan ring policy %q", s)
	}
}

// Options configure a configurator.
type Options struct {
	Product    string            // product name stamped on records
	Palettes   *palette.Registry // swatches per view
	OrphanRing OrphanRing        // ring without button
	Surface    Surface           // visual state sink (optional)
	Camera     Camera            // camera rig (optional)
	Listener   Listener          // record and notice sink (optional)
}

// Configurator drives selection and coloring for one product.
type Configurator struct {
	opts Options
	cl   *parts.Classification
	rec  *record.Record
	view parts.View
	sel  selection
}

// New returns a configurator in the normal view with no model loaded.
func New(opts Options) *Configurator {
	if opts.OrphanRing == "" {
		opts.OrphanRing = OrphanIgnore
	}

	return &Configurator{
		opts: opts,
		rec:  record.New(opts.Product),
		view: parts.ViewNormal,
	}
}

// Load installs a classification: default materials are applied to every part,
// light-toned parts are painted white and the default record is pushed.
func (c *Configurator) Load(cl *parts.Classification) {
	c.clearSelection()
	c.cl = cl
	c.rec = cl.DefaultRecord(c.opts.Product)

	if cl != nil {
		for _, p := range cl.Parts {
			c.setMaterial(p.Name, Material{Color: c.colorOf(p, p.Default), Finish: p.Finish})
		}
		for _, name := range cl.Fixed {
			c.setMaterial(name, Material{Color: palette.White})
		}
	}

	c.publish()
}

// Restore applies a persisted record and view on top of the loaded defaults.
// Parts or colors unknown to the current model and palettes are skipped.
func (c *Configurator) Restore(view parts.View, saved *record.Record) (uint64, error) {
	if c.cl.Empty() {
		return 0, ErrNotLoaded
	}

	if saved != nil {
		if name := saved.Chassis(); name != "" {
			if sw, err := c.opts.Palettes.Lookup(string(parts.ViewChassis), name); err == nil {
				c.paintChassis(sw.Name, sw.Value)
			}
		}

		for _, p := range c.cl.Parts {
			if p.Category == parts.Chassis {
				continue
			}
			name, ok := saved.Color(p.Name)
			if !ok {
				continue
			}
			sw, err := c.opts.Palettes.Lookup(string(p.View), name)
			if err != nil {
				continue
			}
			c.setColor(p.Name, sw.Value)
			c.rec.Set(string(p.View), p.Name, sw.Name)
		}
		c.publish()
	}

	return c.ChangeView(view)
}

// View returns the active view.
func (c *Configurator) View() parts.View {
	return c.view
}

// Record returns a copy of the configuration record.
func (c *Configurator) Record() *record.Record {
	return c.rec.Clone()
}

// Classification returns the loaded classification (nil before Load).
func (c *Configurator) Classification() *parts.Classification {
	return c.cl
}

// Palette returns the swatches of the active view.
func (c *Configurator) Palette() palette.Palette {
	return c.opts.Palettes.Palette(string(c.view))
}

// colorOf resolves a color name in the palette of a part's view; unknown names paint white.
func (c *Configurator) colorOf(p parts.Part, name string) palette.Color {
	sw, err := c.opts.Palettes.Lookup(string(p.View), name)
	if err != nil {
		return palette.White
	}

	return sw.Value
}

// publish pushes the current record to the listener.
func (c *Configurator) publish() {
	if c.opts.Listener != nil {
		c.opts.Listener.RecordChanged(c.rec.Clone())
	}
}

// notice sends a user-facing message to the listener.
func (c *Configurator) notice(msg string) {
	if c.opts.Listener != nil {
		c.opts.Listener.Notice(msg)
	}
}

// setMaterial forwards a material to the surface.
func (c *Configurator) setMaterial(name string, m Material) {
	if c.opts.Surface != nil {
		c.opts.Surface.SetMaterial(name, m)
	}
}

// setColor forwards a color to the surface.
func (c *Configurator) setColor(name string, v palette.Color) {
	if c.opts.Surface != nil {
		c.opts.Surface.SetColor(name, v)
	}
}

// setHighlight forwards a highlight toggle to the surface.
func (c *Configurator) setHighlight(name string, on bool) {
	if c.opts.Surface != nil {
		c.opts.Surface.SetHighlight(name, on)
	}
}
