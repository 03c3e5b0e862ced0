package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/woozymasta/beato-configurator/internal/glb"
	"github.com/woozymasta/beato-configurator/internal/parts"
)

type scanCmd struct {
	Args struct {
		Product string `positional-arg-name:"PRODUCT" required:"true" description:"Product name (e.g. beato)"`
		Dir     string `positional-arg-name:"DIR" required:"true" description:"Directory of models"`
	} `positional-args:"true"`

	Products string `short:"p" long:"products" description:"Product definitions directory (default: builtin)"`
	Format   string `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"Output format"`
	Output   string `short:"o" long:"output" description:"Output file (default: stdout)"`
	Verbose  bool   `short:"v" long:"verbose" description:"Verbose per-file output"`
}

// scanEntry summarizes one model.
type scanEntry struct {
	Model        string             `json:"model"`
	Counts       map[parts.View]int `json:"counts"`
	Fixed        int                `json:"fixed"`
	Unclassified []string           `json:"unclassified,omitempty"`
}

// Execute walks the directory, classifies every model and prints a summary.
func (c *scanCmd) Execute(_ []string) error {
	def, err := findDefinition(c.Products, c.Args.Product)
	if err != nil {
		return err
	}

	var (
		totalFiles, filesModel, filesUnknown, filesBroken int
		entries                                           []scanEntry
	)

	err = filepath.WalkDir(c.Args.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if c.Verbose {
				fmt.Fprintf(os.Stderr, "skip: %s (walk error)\n", path)
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		totalFiles++
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".glb", ".gltf":
		default:
			return nil
		}

		filesModel++
		kind, err := glb.Sniff(path)
		if err != nil || kind == glb.KindUnknown {
			filesUnknown++
			if c.Verbose {
				fmt.Fprintf(os.Stderr, "skip: %s (unknown header)\n", path)
			}
			return nil
		}

		report, err := classifyModel(def, path)
		if err != nil {
			filesBroken++
			if c.Verbose {
				fmt.Fprintf(os.Stderr, "skip: %s (%v)\n", path, err)
			}
			return nil
		}

		entry := scanEntry{
			Model:        path,
			Counts:       map[parts.View]int{},
			Fixed:        len(report.Fixed),
			Unclassified: report.Unclassified,
		}
		for v, names := range report.Buckets {
			entry.Counts[v] = len(names)
		}
		entries = append(entries, entry)

		if c.Verbose {
			fmt.Fprintf(os.Stderr, "add: %s (%s, %d unclassified)\n", path, kind, len(report.Unclassified))
		}

		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Model < entries[j].Model })

	if c.Verbose {
		fmt.Fprintf(os.Stderr, "summary: files=%d models=%d unknown=%d broken=%d classified=%d\n",
			totalFiles, filesModel, filesUnknown, filesBroken, len(entries))
	}

	out, err := encodeValue(entries, strings.ToLower(c.Format))
	if err != nil {
		return err
	}

	return writeOutput(c.Output, out)
}
