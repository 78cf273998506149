// Package buildtime holds the version stamped into the binaries.
//
// Release builds overwrite VERSION and revision before compiling.
package buildtime

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

//go:embed revision
var revision string

func init() {
	version = strings.TrimSpace(version)
	revision = strings.TrimSpace(revision)
}

// Version of orcaobra.
func Version() string {
	return version
}

func Revision() string {
	return revision
}

// String is the version with its git revision, like "v0.3.0 (commit: 1a2b3c4)".
func String() string {
	if revision == "" {
		return version
	}
	return version + " (commit: " + revision + ")"
}
