// Package version holds build metadata for the displaydoc binary.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"text/tabwriter"
)

const devel = "devel"

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = getRevision()
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
	// GoOS is the operating system target.
	GoOS = runtime.GOOS
	// GoArch is the architecture target.
	GoArch = runtime.GOARCH
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch,omitempty"`
	BuildUser string `json:"buildUser,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the current build metadata. Without ldflags, the version is
// taken from the main module, as set by go install.
func Get() Info {
	v := Version
	if v == "" {
		v = moduleVersion()
	}

	return Info{
		Version:   v,
		Revision:  Revision,
		Branch:    Branch,
		BuildUser: BuildUser,
		BuildDate: BuildDate,
		GoVersion: GoVersion,
		Platform:  GoOS + "/" + GoArch,
	}
}

// Print writes i as aligned key/value lines, omitting empty values.
func (i Info) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	for _, kv := range [][2]string{
		{"version", i.Version},
		{"revision", i.Revision},
		{"branch", i.Branch},
		{"build user", i.BuildUser},
		{"build date", i.BuildDate},
		{"go version", i.GoVersion},
		{"platform", i.Platform},
	} {
		if kv[1] == "" {
			continue
		}

		_, err := fmt.Fprintf(tw, "%s:\t%s\n", kv[0], kv[1])
		if err != nil {
			return fmt.Errorf("write version: %w", err)
		}
	}

	err := tw.Flush()
	if err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	return nil
}

func moduleVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok || buildInfo.Main.Version == "" || buildInfo.Main.Version == "(devel)" {
		return devel
	}

	return buildInfo.Main.Version
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
