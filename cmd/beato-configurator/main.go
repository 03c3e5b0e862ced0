// Command beato-configurator serves the MIDI controller configurator and its payment backend.
package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/beato-configurator/internal/vars"
)

type rootCmd struct {
	Debug bool `short:"d" long:"debug" description:"Enable debug logging"`

	Version  versionCmd  `command:"version" description:"Show version information"`
	Serve    serveCmd    `command:"serve" description:"Run the configurator server"`
	Classify classifyCmd `command:"classify" description:"Classify the meshes of a model for a product"`
	Scan     scanCmd     `command:"scan" description:"Scan a directory of models and report classification"`
	Products productsCmd `command:"products" description:"List or print product definitions"`
	Sign     signCmd     `command:"sign" description:"Compute a payment signature"`
}

var root rootCmd

func main() {
	parser := flags.NewParser(&root, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

type versionCmd struct{}

// Execute prints the version information.
func (c *versionCmd) Execute(_ []string) error {
	vars.Print()

	return nil
}
