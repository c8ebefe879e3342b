/*
	Package version provides utilities for displaying version information about a Go application.
	To use this package, a program would set the package variables at build time, using the
	-ldflags go build flag.
	Example:
		go build -ldflags "-X ulidgen.io/pkg/version.version=1.0.0"
	Available values and defaults to use with ldflags:
		version   = "unknown"
		branch    = "unknown"
		revision  = "unknown"
		buildDate = "unknown"
		buildUser = "unknown"
		appName   = "ulidgen"
*/
package version

import (
	"fmt"
	"io"
	"os"

	goversion "rsc.io/goversion/version"
)

var (
	version   = "unknown"
	branch    = "unknown"
	revision  = "unknown"
	buildDate = "unknown"
	buildUser = "unknown"
	appName   = "ulidgen"
)

// Info holds version and build info about the program.
type Info struct {
	Version   string `json:"version"`
	Branch    string `json:"branch"`
	Revision  string `json:"revision"`
	BuildDate string `json:"build_date"`
	BuildUser string `json:"build_user"`
}

// Version returns a struct with the current version information.
func Version() Info {
	return Info{
		Version:   version,
		Branch:    branch,
		Revision:  revision,
		BuildDate: buildDate,
		BuildUser: buildUser,
	}
}

// Print outputs the app name and version string.
func Print(w io.Writer) {
	v := Version()
	fmt.Fprintf(w, "%s version %s\n", appName, v.Version)
}

// PrintFull outputs the app name and detailed version information.
// The Go release is read from the running executable; failing to read it is an error.
func PrintFull(w io.Writer) error {
	v := Version()
	fmt.Fprintf(w, "%s - version %s\n", appName, v.Version)
	fmt.Fprintf(w, "branch: \t%s\n", v.Branch)
	fmt.Fprintf(w, "revision: \t%s\n", v.Revision)
	fmt.Fprintf(w, "build date: \t%s\n", v.BuildDate)
	fmt.Fprintf(w, "build user: \t%s\n", v.BuildUser)

	binary, err := os.Executable()
	if err != nil {
		return err
	}

	binVersion, err := goversion.ReadExe(binary)
	if err != nil {
		return fmt.Errorf("read go version of %s: %w", binary, err)
	}
	fmt.Fprintf(w, "go release: \t%s\n", binVersion.Release)
	fmt.Fprintln(w)
	fmt.Fprintln(w, binVersion.ModuleInfo)
	return nil
}
