package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/invopop/yaml"

	"github.com/woozymasta/beato-configurator/internal/product"
)

// newLogger returns a text logger on stderr.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if root.Debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadDefinitions reads definitions from dir, or the builtin set when dir is empty.
func loadDefinitions(dir string) ([]product.Definition, error) {
	if dir == "" {
		return product.Builtin()
	}

	return product.ReadDir(dir)
}

// encodeValue encodes v to the raw data.
func encodeValue(v any, format string) ([]byte, error) {
	switch format {
	case "yaml":
		return yaml.Marshal(v)
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
