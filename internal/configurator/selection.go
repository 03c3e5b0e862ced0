package configurator

import (
	"sort"

	"github.com/woozymasta/beato-configurator/internal/parts"
)

// Mode is the state of the selection machine.
type Mode int

const (
	// Empty means nothing is armed for coloring.
	Empty Mode = iota
	// SingleActive means one part is armed.
	SingleActive
	// MultiActive means a set of parts of one view is armed.
	MultiActive
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case SingleActive:
		return "single"
	case MultiActive:
		return "multi"
	default:
		return "empty"
	}
}

// MarshalText encodes the mode name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Selection is a read-only view of the selection state.
type Selection struct {
	Mode  Mode       `json:"mode"`
	View  parts.View `json:"view,omitempty"`
	Parts []string   `json:"parts"` // sorted; one entry for SingleActive
}

// ClickResult describes the outcome of a click.
type ClickResult struct {
	Hit       string    `json:"hit,omitempty"`      // part under the pointer after resolution
	Selected  string    `json:"selected,omitempty"` // part the click armed or toggled
	Changed   bool      `json:"changed"`            // selection changed
	Selection Selection `json:"selection"`
}

// selection is the internal state. active and set are never both populated.
type selection struct {
	active      string
	set         map[string]struct{}
	highlighted bool // active part carries the highlight
}

// mode derives the state from the fields.
func (s *selection) mode() Mode {
	switch {
	case len(s.set) > 0:
		return MultiActive
	case s.active != "":
		return SingleActive
	default:
		return Empty
	}
}

// Selection returns the current selection.
func (c *Configurator) Selection() Selection {
	out := Selection{Mode: c.sel.mode(), Parts: []string{}}
	switch out.Mode {
	case SingleActive:
		out.View = c.view
		out.Parts = []string{c.sel.active}
	case MultiActive:
		out.View = c.view
		for name := range c.sel.set {
			out.Parts = append(out.Parts, name)
		}
		sort.Strings(out.Parts)
	}

	return out
}

// Click handles a pointer click. name is the ray-test hit ("" for empty space).
// Hits outside the active view's bucket count as misses.
func (c *Configurator) Click(name string, extend bool) ClickResult {
	if c.cl.Empty() {
		return ClickResult{Selection: c.Selection()}
	}

	p, inBucket := c.inBucket(name)

	if c.view == parts.ViewNormal {
		res := ClickResult{Selection: c.Selection()}
		if inBucket {
			res.Hit = p.Name
		}
		return res
	}

	if !inBucket {
		changed := c.sel.mode() != Empty
		c.clearSelection()
		return ClickResult{Changed: changed, Selection: c.Selection()}
	}

	target, ok := c.resolve(p)
	if !ok {
		return ClickResult{Hit: p.Name, Selection: c.Selection()}
	}

	if extend && c.view.MultiSelect() {
		c.extend(target.Name)
	} else {
		c.selectSingle(target.Name, true)
	}

	return ClickResult{Hit: p.Name, Selected: target.Name, Changed: true, Selection: c.Selection()}
}

// inBucket finds a hit among the active view's parts.
func (c *Configurator) inBucket(name string) (parts.Part, bool) {
	if name == "" {
		return parts.Part{}, false
	}

	p, ok := c.cl.Part(name)
	if !ok {
		return parts.Part{}, false
	}

	want := c.view
	if want == parts.ViewNormal {
		want = parts.ViewButtons
	}

	return p, p.View == want
}

// resolve maps a companion hit onto its primary part.
func (c *Configurator) resolve(p parts.Part) (parts.Part, bool) {
	if !c.cl.Pairs.IsCompanion(p.Category) {
		return p, true
	}

	if prim, ok := c.cl.Pairs.FindPrimary(p.Name); ok {
		return prim, true
	}
	if c.opts.OrphanRing == OrphanSelect {
		return p, true
	}

	return parts.Part{}, false
}

// selectSingle makes name the lone active part.
func (c *Configurator) selectSingle(name string, highlight bool) {
	c.clearSelection()
	c.sel.active = name
	c.sel.highlighted = highlight
	if highlight {
		c.setHighlight(name, true)
	}
}

// extend applies an extend-click to the selection.
func (c *Configurator) extend(name string) {
	switch c.sel.mode() {
	case Empty:
		c.sel.set = map[string]struct{}{name: {}}
		c.setHighlight(name, true)

	case SingleActive:
		prev := c.sel.active
		c.sel.active = ""
		c.sel.highlighted = false
		c.sel.set = map[string]struct{}{prev: {}, name: {}}
		c.setHighlight(prev, true)
		c.setHighlight(name, true)

	case MultiActive:
		if _, ok := c.sel.set[name]; ok {
			delete(c.sel.set, name)
			c.setHighlight(name, false)
			if len(c.sel.set) == 0 {
				c.sel.set = nil
			}
			return
		}
		c.sel.set[name] = struct{}{}
		c.setHighlight(name, true)
	}
}

// clearSelection removes every highlight and returns to Empty.
func (c *Configurator) clearSelection() {
	if c.sel.active != "" && c.sel.highlighted {
		c.setHighlight(c.sel.active, false)
	}
	for name := range c.sel.set {
		c.setHighlight(name, false)
	}

	c.sel = selection{}
}
