// Package buildinfo exposes build-time metadata stamped via -ldflags.
package buildinfo

import (
	"fmt"
	"io"
)

// Populated by the build pipeline:
//
//	go build -ldflags "-X github.com/saikai-app/cardvault/internal/buildinfo.Version=v1.0.0 ..."
var (
	Version = "dev"
	Commit  = "N/A"
	Date    = "N/A"
)

// IsDev reports whether this binary is an unversioned development build.
// Release builds always get a stamped Version, so dev-only escape hatches
// (such as the insecure cipher) key off this.
func IsDev() bool {
	return Version == "dev"
}

// PrintBuildData writes the build metadata to w in the standard format.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
