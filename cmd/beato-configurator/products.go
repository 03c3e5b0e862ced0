package main

import (
	"fmt"
	"strings"

	"github.com/woozymasta/beato-configurator/internal/product"
)

type productsCmd struct {
	Args struct {
		Product string `positional-arg-name:"PRODUCT" description:"Print this definition (default: list names)"`
	} `positional-args:"true"`

	Products string `short:"p" long:"products" description:"Product definitions directory (default: builtin)"`
	Format   string `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"Output format"`
	Output   string `short:"o" long:"output" description:"Output file (default: stdout)"`
}

// Execute lists the products, or prints one definition.
func (c *productsCmd) Execute(_ []string) error {
	format := strings.ToLower(c.Format)

	if c.Args.Product == "" {
		defs, err := loadDefinitions(c.Products)
		if err != nil {
			return err
		}
		if err := product.Validate(defs); err != nil {
			return err
		}

		var b strings.Builder
		for _, d := range defs {
			fmt.Fprintf(&b, "%-8s %-8s %s %s  views=%v\n", d.Name, d.Title, d.Price, d.Currency, d.Views)
		}

		return writeOutput(c.Output, []byte(b.String()))
	}

	def, err := findDefinition(c.Products, c.Args.Product)
	if err != nil {
		return err
	}

	out, err := product.Encode(def, format)
	if err != nil {
		return err
	}

	return writeOutput(c.Output, out)
}
