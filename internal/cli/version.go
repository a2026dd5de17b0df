package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relprep/relprep/internal/build"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for relprep",
	Example: `  # Show version info
  relprep version

  # Plain output (for scripts)
  relprep version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlain {
			printPlainVersion(cmd)
		} else {
			printPrettyVersion(cmd)
		}
	},
}

func init() {
	versionCmd.GroupID = GroupUtility
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "relprep %s\n", build.Version)
	fmt.Fprintf(out, "commit: %s\n", build.Commit)
	fmt.Fprintf(out, "built: %s\n", build.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints a styled version output
func printPrettyVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	version := build.Version
	if build.IsDevBuild() {
		version = fmt.Sprintf("%s %s", version, dim("(development build)"))
	}

	fmt.Fprintf(out, "%s %s\n", cyan("relprep"), version)
	fmt.Fprintf(out, "  %s  %s\n", yellow("Commit"), truncateCommit(build.Commit))
	fmt.Fprintf(out, "  %s   %s\n", yellow("Built"), build.BuildDate)
	fmt.Fprintf(out, "  %s      %s\n", yellow("Go"), runtime.Version())
	fmt.Fprintf(out, "  %s      %s/%s\n", yellow("OS"), runtime.GOOS, runtime.GOARCH)
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
