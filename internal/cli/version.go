package cli

import (
	"errors"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boltzap/boltzap/internal/retry"
	versionpkg "github.com/boltzap/boltzap/internal/version"
)

const (
	// devVersionString marks builds without an injected release version.
	devVersionString = "dev"
	// releaseOwner is the GitHub repository owner for release lookups.
	releaseOwner = "boltzap"
	// releaseRepo is the GitHub repository name for release lookups.
	releaseRepo = "boltzap"
)

// BuildInfo carries version details injected at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

//nolint:gochecknoglobals // set once from main before Execute
var buildInfo = BuildInfo{}

// SetBuildInfo records the build metadata injected by the linker.
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
}

// GetCurrentVersion returns the running binary's version.
func GetCurrentVersion() string {
	if buildInfo.Version == "" {
		return devVersionString
	}
	return buildInfo.Version
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// versionCheck also queries GitHub for the latest release.
	versionCheck bool
)

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Example: `  boltzap version
  boltzap version --check`,
	RunE: runVersion,
}

// VersionResponse is the version command output.
type VersionResponse struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Date     string `json:"date,omitempty"`
	Platform string `json:"platform"`
	Latest   string `json:"latest,omitempty"`
	Outdated bool   `json:"outdated,omitempty"`
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)

	resp := VersionResponse{
		Version:  GetCurrentVersion(),
		Commit:   buildInfo.Commit,
		Date:     buildInfo.Date,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	if versionCheck {
		ctx, cancel := contextWithTimeout(cmd, versionpkg.RequestTimeout)
		defer cancel()

		// GitHub hiccups are transient; probe with a short backoff.
		checker := versionpkg.NewChecker(releaseOwner, releaseRepo)
		release, err := retry.Do(ctx, retry.BackoffConfig(),
			func(err error) bool { return errors.Is(err, versionpkg.ErrReleaseLookupFailed) },
			func() (*versionpkg.Release, error) { return checker.Latest(ctx) })
		if err != nil {
			return err
		}
		resp.Latest = strings.TrimPrefix(release.Tag, "v")
		resp.Outdated = versionpkg.IsNewer(resp.Version, resp.Latest)
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}

	w := cmd.OutOrStdout()
	out(w, "boltzap %s (%s)\n", resp.Version, resp.Platform)
	if resp.Commit != "" {
		out(w, "  commit: %s\n", resp.Commit)
	}
	if resp.Date != "" {
		out(w, "  built:  %s\n", resp.Date)
	}
	if versionCheck {
		if resp.Outdated {
			out(w, "A newer release is available: %s\n", resp.Latest)
		} else {
			out(w, "You are on the latest release (%s)\n", resp.Latest)
		}
	}
	return nil
}
