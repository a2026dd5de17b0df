package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relprep/relprep/internal/config"
	"github.com/relprep/relprep/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past release-preparation runs",
	Long: `View the advisory log of past relprep runs with timestamp, command,
target version, mode, outcome, exit code, and duration.

The log lives in the state directory (state_dir, default ~/.relprep/state)
and is pruned to history.max_entries. Recording failures warn on stderr
and never affect the run outcome.`,
	Example: `  # All recorded runs
  relprep history

  # The last five runs for version 1.4.0
  relprep history --version 1.4.0 --limit 5

  # Forget everything
  relprep history --clear`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistoryWithStateDir(cmd, resolveStateDir())
	},
}

func init() {
	historyCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("version", "", "Filter by target version")
	historyCmd.Flags().IntP("limit", "n", 0, "Limit to last N entries (most recent)")
	historyCmd.Flags().BoolP("clear", "c", false, "Clear all history")
}

// resolveStateDir returns the configured state directory, falling back
// to the default when configuration cannot be loaded.
func resolveStateDir() string {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: cfgFile,
		SkipWarnings:      true,
	})
	if err != nil || cfg.StateDir == "" {
		return config.DefaultStateDir()
	}
	return cfg.StateDir
}

// runHistoryWithStateDir runs the history command against stateDir.
func runHistoryWithStateDir(cmd *cobra.Command, stateDir string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	versionFilter, _ := cmd.Flags().GetString("version")
	limit, _ := cmd.Flags().GetInt("limit")

	if limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	if clearFlag {
		if err := history.ClearHistory(stateDir); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	}

	histFile, err := history.LoadHistory(stateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := filterEntries(histFile.Entries, versionFilter, limit)

	if len(entries) == 0 {
		if versionFilter != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No matching entries for version '%s'.\n", versionFilter)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
		}
		return nil
	}

	displayEntries(cmd, entries)
	return nil
}

// filterEntries filters by target version and limits to the most recent
// entries.
func filterEntries(entries []history.HistoryEntry, versionFilter string, limit int) []history.HistoryEntry {
	var result []history.HistoryEntry

	for _, entry := range entries {
		if versionFilter == "" || entry.Version == versionFilter {
			result = append(result, entry)
		}
	}

	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}

	return result
}

// displayEntries formats and displays history entries.
func displayEntries(cmd *cobra.Command, entries []history.HistoryEntry) {
	out := cmd.OutOrStdout()

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")

		exitCodeStr := fmt.Sprintf("%d", entry.ExitCode)
		if entry.ExitCode == 0 {
			exitCodeStr = green(exitCodeStr)
		} else {
			exitCodeStr = red(exitCodeStr)
		}

		version := entry.Version
		if version == "" {
			version = "-"
		}
		status := entry.Status
		if status == "" {
			status = "-"
		}

		fmt.Fprintf(out, "%s  %-8s  %-12s  %-8s  %-11s  exit=%s  %s\n",
			cyan(timestamp),
			entry.Command,
			version,
			entry.Mode,
			status,
			exitCodeStr,
			entry.Duration,
		)
	}
}
