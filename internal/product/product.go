// Package product loads product definitions: naming rules, palettes, camera poses and checkout data.
package product

import (
	"fmt"
	"os"
	"strings"

	"github.com/invopop/yaml"

	"github.com/woozymasta/beato-configurator/internal/camera"
	"github.com/woozymasta/beato-configurator/internal/configurator"
	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
)

// SpecField is one segment of the human-readable specification string (e.g. "Chasis: Azul").
type SpecField struct {
	View  parts.View `json:"view"`
	Label string     `json:"label"`
}

// Definition describes one product variant.
type Definition struct {
	Name       string                     `json:"name"`                  // key used in URLs and storage (e.g. mixo)
	Title      string                     `json:"title"`                 // display name
	ProductID  string                     `json:"product_id"`            // store product identifier for add-to-cart
	Package    string                     `json:"package"`               // price package choice (e.g. Paquete Pro)
	Price      string                     `json:"price"`                 // decimal amount (e.g. 250.00)
	Currency   string                     `json:"currency"`              // ISO currency (e.g. USD)
	Model      string                     `json:"model,omitempty"`       // .glb path, relative to the definition
	Views      []parts.View               `json:"views"`                 // views offered in menu order
	Ignore     []string                   `json:"ignore,omitempty"`      // mesh name substrings never classified
	Rules      []parts.Rule               `json:"rules"`                 // ordered naming rules
	Pairings   []parts.Pairing            `json:"pairings,omitempty"`    // companion pairs
	OrphanRing configurator.OrphanRing    `json:"orphan_ring,omitempty"` // ignore | select
	Palettes   map[string]palette.Palette `json:"palettes"`              // view -> swatches
	Cameras    map[string]camera.Pose     `json:"cameras"`               // normal, top or per view
	SpecFields []SpecField                `json:"spec_fields"`           // specification string layout
}

// Parse decodes a YAML (or JSON) definition.
func Parse(raw []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return Definition{}, err
	}
	def.Name = strings.ToLower(strings.TrimSpace(def.Name))

	return def, nil
}

// ReadFile reads a definition file.
func ReadFile(path string) (Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}

	def, err := Parse(raw)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}

	return def, nil
}

// Encode encodes a definition as yaml or json.
func Encode(def Definition, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(def)
	case "json":
		return jsonIndent(def)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// HasView reports whether the product offers a view.
func (d Definition) HasView(v parts.View) bool {
	for _, x := range d.Views {
		if x == v {
			return true
		}
	}

	return false
}

// Registry builds the palette registry.
func (d Definition) Registry() (*palette.Registry, error) {
	return palette.NewRegistry(d.Palettes)
}

// Classifier builds the part classifier.
func (d Definition) Classifier() (*parts.Classifier, error) {
	c, err := parts.NewClassifier(d.Rules, d.Pairings)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", d.Name, err)
	}

	return c.WithIgnore(d.Ignore...), nil
}

// Rig builds the camera rig.
func (d Definition) Rig() (*camera.Rig, error) {
	rig, err := camera.NewRig(d.Cameras)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", d.Name, err)
	}

	return rig, nil
}
