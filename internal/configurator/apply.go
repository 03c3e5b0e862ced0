package configurator

import (
	"fmt"

	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
)

// ApplySwatch applies a color of the active view's palette by name.
func (c *Configurator) ApplySwatch(name string) error {
	if !c.hasTarget() {
		return c.nothingSelected()
	}

	sw, err := c.opts.Palettes.Lookup(string(c.view), name)
	if err != nil {
		return err
	}

	return c.ApplyColor(sw.Name, sw.Value)
}

// ApplyColor paints the current target and records the color name.
//
// In the chassis view every chassis part is painted. Otherwise the multi-selection
// (cleared afterwards) or the single active part (highlight cleared) is painted,
// together with its companion. Without a target a notice is sent and nothing changes.
func (c *Configurator) ApplyColor(name string, value palette.Color) error {
	if c.cl.Empty() {
		return ErrNotLoaded
	}

	switch {
	case c.view == parts.ViewChassis:
		c.paintChassis(name, value)

	case c.view.MultiSelect() && len(c.sel.set) > 0:
		for member := range c.sel.set {
			c.paintPart(member, name, value)
		}
		c.clearSelection()

	case c.sel.active != "":
		c.paintPart(c.sel.active, name, value)
		if c.sel.highlighted {
			c.setHighlight(c.sel.active, false)
			c.sel.highlighted = false
		}

	default:
		return c.nothingSelected()
	}

	c.publish()

	return nil
}

// hasTarget reports whether a color application would paint anything.
func (c *Configurator) hasTarget() bool {
	if c.cl.Empty() {
		return false
	}

	return c.view == parts.ViewChassis || len(c.sel.set) > 0 || c.sel.active != ""
}

// nothingSelected sends the notice and returns ErrNothingSelected.
func (c *Configurator) nothingSelected() error {
	c.notice(NoticeNothingSelected)

	return fmt.Errorf("apply color in %s view: %w", c.view, ErrNothingSelected)
}

// paintChassis paints every chassis part and records the chassis-wide color.
func (c *Configurator) paintChassis(name string, value palette.Color) {
	for _, p := range c.cl.Parts {
		if p.Category == parts.Chassis {
			c.setColor(p.Name, value)
		}
	}

	c.rec.SetChassis(name)
}

// paintPart paints one part and its companion, recording both.
func (c *Configurator) paintPart(partName, name string, value palette.Color) {
	p, ok := c.cl.Part(partName)
	if !ok {
		return
	}

	c.setColor(p.Name, value)
	c.rec.Set(string(p.View), p.Name, name)

	if comp, ok := c.cl.Pairs.FindCompanion(p.Name); ok {
		c.setColor(comp.Name, value)
		c.rec.Set(string(comp.View), comp.Name, name)
	}
}
