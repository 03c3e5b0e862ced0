// Package vars holds build information injected with -ldflags.
package vars

import (
	"fmt"
	"runtime"
)

var (
	// Version of the build (e.g. v1.2.0).
	Version = "dev"
	// Commit hash of the build.
	Commit = "unknown"
	// BuildTime in RFC3339.
	BuildTime = "unknown"
	// URL of the project.
	URL = "https://github.com/woozymasta/beato-configurator"
)

// Print prints the build information.
func Print() {
	fmt.Printf("url:      %s\n", URL)
	fmt.Printf("version:  %s\n", Version)
	fmt.Printf("commit:   %s\n", Commit)
	fmt.Printf("built:    %s\n", BuildTime)
	fmt.Printf("runtime:  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
