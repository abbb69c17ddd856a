package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/scanreport/internal/archive"
	"github.com/spf13/cobra"
)

// buildDetails identifies the running binary.
type buildDetails struct {
	Version string
	Commit  string
	Date    string
	Runtime string
}

// resolveBuild prefers values stamped through ldflags and falls back to the
// module and VCS metadata recorded by the Go toolchain.
func resolveBuild(info *debug.BuildInfo, ok bool) buildDetails {
	d := buildDetails{Version: version, Commit: commit, Date: date, Runtime: runtime.Version()}
	if !ok || info == nil {
		return d
	}
	if d.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		d.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if d.Commit == "none" {
				d.Commit = s.Value
			}
		case "vcs.time":
			if d.Date == "unknown" {
				d.Date = s.Value
			}
		}
	}
	return d
}

func writeVersion(w io.Writer, d buildDetails) {
	_, _ = fmt.Fprintf(w, "scanreport %s\n", d.Version)
	_, _ = fmt.Fprintf(w, "  commit:          %s\n", d.Commit)
	_, _ = fmt.Fprintf(w, "  built:           %s\n", d.Date)
	_, _ = fmt.Fprintf(w, "  go:              %s\n", d.Runtime)
	_, _ = fmt.Fprintf(w, "  max entry size:  %s (default)\n", humanize.IBytes(archive.DefaultMaxEntryBytes))
}

// versionCmd prints build details and the default decoding limits.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build details of scanreport.",
	Long: `Print the release, commit and build time of this binary.

Builds without stamped ldflags fall back to the module version and VCS
metadata embedded by the Go toolchain. The default per-entry size limit
is printed as well, since archives produced by other scanner versions
may need --max-entry-size.`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		writeVersion(os.Stdout, resolveBuild(debug.ReadBuildInfo()))
	},
}
