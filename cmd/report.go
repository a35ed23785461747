package cmd

import (
	"time"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd lists the commits of all configured repositories in a window.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List commits across all configured repositories",
	Long: `Collect the commits of every configured repository between --start and --end.

Each commit carries the developer identity from the directory, line counts
and a link to the hosted commit. Commits are listed newest first.

Examples:
  # Commits for January
  gitasana report --start 2024-01-01 --end 2024-01-31

  # Reuse a stored report for the same window and export it
  gitasana report --start 2024-01-01 --end 2024-01-31 --use-cache --output parquet --output-file jan.parquet`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(cmd, args); err != nil {
			return err
		}
		return requireDates(cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		engine, err := buildEngine(rootCtx, nil)
		if err != nil {
			contract.LogFatal("Cannot set up report", err)
		}
		start := time.Now()
		records, err := engine.GenerateCommitReport(rootCtx, cfg.StartDate, cfg.EndDate, cfg.UseCache)
		if err != nil {
			contract.LogFatal("Cannot generate commit report", err)
		}
		if err := outwriter.NewOutWriter().WriteCommits(records, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write commit report", err)
		}
	},
}
