package cmd

import (
	"errors"
	"fmt"
	"runtime/debug"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rollkit/evmopts/pkg/config"
)

var (
	// GitSHA is set at build time. When empty the VCS revision stamped by the
	// go toolchain is used.
	GitSHA string

	// Version is set at build time
	Version = config.Version
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GitSHA    string
	Modified  bool
	GoVersion string
}

// ResolveBuildInfo combines the values set at build time with the build
// information embedded in the binary.
func ResolveBuildInfo() BuildInfo {
	info := BuildInfo{Version: Version, GitSHA: GitSHA}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitSHA == "" {
				info.GitSHA = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// VersionCmd returns the command showing version info for the evmopts CLI.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := ResolveBuildInfo()
			if info.GitSHA == "" {
				return errors.New("git SHA not set")
			}
			if info.Version == "" {
				return errors.New("version not set")
			}

			sha := info.GitSHA
			if info.Modified {
				sha += "-dirty"
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 0, 2, ' ', 0)
			_, err1 := fmt.Fprintf(w, "\n%s version:\t%v\n", AppName, info.Version)
			_, err2 := fmt.Fprintf(w, "%s git sha:\t%v\n", AppName, sha)
			var err3 error
			if info.GoVersion != "" {
				_, err3 = fmt.Fprintf(w, "go version:\t%v\n", info.GoVersion)
			}
			_, err4 := fmt.Fprintln(w, "")
			return errors.Join(err1, err2, err3, err4, w.Flush())
		},
	}
}
