package parts

import (
	"strings"

	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/record"
)

// Mesh is a named sub-mesh of a loaded model.
type Mesh struct {
	Name string        `json:"name"`           // mesh name as authored (e.g. boton1)
	Base palette.Color `json:"base,omitempty"` // baseline tone of its original material
}

// Part is a classified, colorable mesh.
type Part struct {
	Name     string   `json:"name"`     // unique mesh name
	Category Category `json:"category"` // chassis, button, knob, fader or ring
	View     View     `json:"view"`     // bucket the part is intersected in
	Default  string   `json:"default"`  // default color name
	Finish   Finish   `json:"finish"`   // material finish
	Index    string   `json:"index"`    // first digit run of the name
}

// Classifier buckets meshes by ordered naming rules.
type Classifier struct {
	rules    []compiledRule
	pairings []Pairing
	ignore   []string
}

// NewClassifier compiles rules and pairings. Rule order matters: the first match wins.
func NewClassifier(rules []Rule, pairings []Pairing) (*Classifier, error) {
	c := &Classifier{pairings: append([]Pairing(nil), pairings...)}
	for _, r := range rules {
		cr, err := r.compile()
		if err != nil {
			return nil, err
		}
		c.rules = append(c.rules, cr)
	}

	return c, nil
}

// WithIgnore skips meshes whose lowercase name contains one of keys (logos, labels).
// Skipped meshes are reported as unclassified.
func (c *Classifier) WithIgnore(keys ...string) *Classifier {
	for _, k := range keys {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			c.ignore = append(c.ignore, k)
		}
	}

	return c
}

// Classification is the result of scanning a model once.
type Classification struct {
	Parts        []Part   `json:"parts"`        // selectable parts in traversal order
	Fixed        []string `json:"fixed"`        // light-toned parts kept white
	Unclassified []string `json:"unclassified"` // meshes matching no rule
	Pairs        *Table   `json:"-"`            // companion lookups

	byName        map[string]int
	chassisColor  string
	chassisFinish Finish
}

// Classify scans meshes in traversal order.
func (c *Classifier) Classify(meshes []Mesh) *Classification {
	out := &Classification{byName: map[string]int{}}

	for _, m := range meshes {
		name := strings.ToLower(m.Name)
		if _, dup := out.byName[m.Name]; dup {
			continue
		}

		rule, ok := c.match(name)
		if !ok || c.ignored(name) {
			out.Unclassified = append(out.Unclassified, m.Name)
			continue
		}

		if rule.MaxLightness > 0 && !m.Base.IsDark(rule.MaxLightness) {
			out.Fixed = append(out.Fixed, m.Name)
			continue
		}

		p := Part{
			Name:     m.Name,
			Category: rule.Category,
			View:     rule.View,
			Default:  rule.Default,
			Finish:   rule.Finish,
			Index:    DigitRun(name),
		}
		if p.Category == Chassis && out.chassisColor == "" {
			out.chassisColor = rule.Default
			out.chassisFinish = rule.Finish
		}

		out.byName[p.Name] = len(out.Parts)
		out.Parts = append(out.Parts, p)
	}

	out.Pairs = buildTable(out.Parts, c.pairings)

	return out
}

// ignored reports whether a lowercase name is on the ignore list.
func (c *Classifier) ignored(name string) bool {
	for _, k := range c.ignore {
		if strings.Contains(name, k) {
			return true
		}
	}

	return false
}

// match returns the first rule matching a lowercase name.
func (c *Classifier) match(name string) (compiledRule, bool) {
	for _, r := range c.rules {
		if r.match(name) {
			return r, true
		}
	}

	return compiledRule{}, false
}

// Part finds a classified part by name.
func (cl *Classification) Part(name string) (Part, bool) {
	if cl == nil {
		return Part{}, false
	}

	i, ok := cl.byName[name]
	if !ok {
		return Part{}, false
	}

	return cl.Parts[i], true
}

// Bucket returns the parts intersected in a view, in traversal order.
// The normal view intersects the buttons bucket.
func (cl *Classification) Bucket(v View) []Part {
	if cl == nil {
		return nil
	}
	if v == ViewNormal {
		v = ViewButtons
	}

	var out []Part
	for _, p := range cl.Parts {
		if p.View == v {
			out = append(out, p)
		}
	}

	return out
}

// Names returns the part names of a view's bucket.
func (cl *Classification) Names(v View) []string {
	bucket := cl.Bucket(v)
	out := make([]string, 0, len(bucket))
	for _, p := range bucket {
		out = append(out, p.Name)
	}

	return out
}

// Empty reports whether nothing was classified.
func (cl *Classification) Empty() bool {
	return cl == nil || len(cl.Parts) == 0
}

// DefaultRecord builds the configuration record holding every default color.
func (cl *Classification) DefaultRecord(product string) *record.Record {
	rec := record.New(product)
	if cl == nil {
		return rec
	}

	rec.SetChassis(cl.chassisColor)
	for _, p := range cl.Parts {
		if p.Category == Chassis {
			continue
		}
		rec.Set(string(p.View), p.Name, p.Default)
	}

	return rec
}

// ChassisDefault returns the chassis default color and finish.
func (cl *Classification) ChassisDefault() (string, Finish) {
	if cl == nil {
		return "", Finish{}
	}

	return cl.chassisColor, cl.chassisFinish
}
