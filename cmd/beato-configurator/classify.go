package main

import (
	"fmt"
	"strings"

	"github.com/woozymasta/beato-configurator/internal/glb"
	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/product"
)

type classifyCmd struct {
	Args struct {
		Product string `positional-arg-name:"PRODUCT" required:"true" description:"Product name (e.g. beato)"`
		Model   string `positional-arg-name:"MODEL" description:"Model file (default: the product model)"`
	} `positional-args:"true"`

	Products string `short:"p" long:"products" description:"Product definitions directory (default: builtin)"`
	Format   string `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"Output format"`
	Output   string `short:"o" long:"output" description:"Output file (default: stdout)"`
}

// classifyReport is the printed result of a classification.
type classifyReport struct {
	Product      string                  `json:"product"`
	Model        string                  `json:"model"`
	Buckets      map[parts.View][]string `json:"buckets"`
	Fixed        []string                `json:"fixed,omitempty"`
	Unclassified []string                `json:"unclassified,omitempty"`
	Defaults     map[string]any          `json:"defaults"`
}

// Execute classifies the model meshes and prints buckets and default colors.
func (c *classifyCmd) Execute(_ []string) error {
	def, err := findDefinition(c.Products, c.Args.Product)
	if err != nil {
		return err
	}

	model := c.Args.Model
	if model == "" {
		model = def.Model
	}
	if model == "" {
		return fmt.Errorf("product %s has no model, pass one", def.Name)
	}

	report, err := classifyModel(def, model)
	if err != nil {
		return err
	}

	out, err := encodeValue(report, strings.ToLower(c.Format))
	if err != nil {
		return err
	}

	return writeOutput(c.Output, out)
}

// findDefinition returns a definition by name.
func findDefinition(dir, name string) (product.Definition, error) {
	defs, err := loadDefinitions(dir)
	if err != nil {
		return product.Definition{}, err
	}
	catalog, err := product.NewCatalog(defs)
	if err != nil {
		return product.Definition{}, err
	}

	return catalog.Get(name)
}

// classifyModel reads a model and classifies it against a definition.
func classifyModel(def product.Definition, model string) (classifyReport, error) {
	meshes, err := glb.ReadFile(model)
	if err != nil {
		return classifyReport{}, err
	}

	classifier, err := def.Classifier()
	if err != nil {
		return classifyReport{}, err
	}
	cl := classifier.Classify(meshes)

	report := classifyReport{
		Product:      def.Name,
		Model:        model,
		Buckets:      map[parts.View][]string{},
		Fixed:        cl.Fixed,
		Unclassified: cl.Unclassified,
		Defaults:     map[string]any{},
	}
	for _, v := range def.Views {
		if names := cl.Names(v); len(names) > 0 {
			report.Buckets[v] = names
		}
	}

	rec := cl.DefaultRecord(def.Name)
	report.Defaults["chassis"] = rec.Chassis()
	for _, group := range rec.Groups() {
		report.Defaults[group] = rec.Group(group)
	}

	return report, nil
}
