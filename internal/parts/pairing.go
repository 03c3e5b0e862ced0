package parts

// Pairing declares that parts of the Companion category follow the color of the
// Primary part sharing the same embedded index (e.g. button "boton1" and ring "aro1").
type Pairing struct {
	Primary   Category `json:"primary"`
	Companion Category `json:"companion"`
}

// Table is the pairing table built once per classification.
type Table struct {
	companion  map[string]Part       // primary name -> companion
	primary    map[string]Part       // companion name -> primary
	companions map[Category]struct{} // categories that only follow a primary
}

// buildTable pairs parts by their first digit run.
// When several candidates share an index, the first in traversal order wins.
func buildTable(parts []Part, pairings []Pairing) *Table {
	t := &Table{
		companion:  map[string]Part{},
		primary:    map[string]Part{},
		companions: map[Category]struct{}{},
	}

	for _, pr := range pairings {
		t.companions[pr.Companion] = struct{}{}
		companions := map[string]Part{}
		primaries := map[string]Part{}
		for _, p := range parts {
			if p.Index == "" {
				continue
			}

			switch p.Category {
			case pr.Companion:
				if _, ok := companions[p.Index]; !ok {
					companions[p.Index] = p
				}
			case pr.Primary:
				if _, ok := primaries[p.Index]; !ok {
					primaries[p.Index] = p
				}
			}
		}

		for _, p := range parts {
			if p.Index == "" {
				continue
			}

			switch p.Category {
			case pr.Primary:
				if c, ok := companions[p.Index]; ok {
					t.companion[p.Name] = c
				}
			case pr.Companion:
				if prim, ok := primaries[p.Index]; ok {
					t.primary[p.Name] = prim
				}
			}
		}
	}

	return t
}

// FindCompanion returns the companion of a primary part.
func (t *Table) FindCompanion(name string) (Part, bool) {
	if t == nil {
		return Part{}, false
	}

	p, ok := t.companion[name]
	return p, ok
}

// FindPrimary returns the primary part a companion belongs to.
func (t *Table) FindPrimary(name string) (Part, bool) {
	if t == nil {
		return Part{}, false
	}

	p, ok := t.primary[name]
	return p, ok
}

// IsCompanion reports whether parts of a category only follow a primary.
func (t *Table) IsCompanion(c Category) bool {
	if t == nil {
		return false
	}

	_, ok := t.companions[c]
	return ok
}
