// Package buildinfo exposes values injected at link time.
//
//	go build -ldflags "-X github.com/dmitrijs2005/authportal/internal/buildinfo.Version=v1.0.0"
package buildinfo

import (
	"cmp"
	"fmt"
	"io"
)

var (
	Version string
	Date    string
	Commit  string
)

// PrintBuildData writes the build banner, using "N/A" for unset values.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", cmp.Or(Version, "N/A"))
	fmt.Fprintf(w, "Build date: %s\n", cmp.Or(Date, "N/A"))
	fmt.Fprintf(w, "Build commit: %s\n", cmp.Or(Commit, "N/A"))
}
