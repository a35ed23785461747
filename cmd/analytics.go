package cmd

import (
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/outwriter"
	"github.com/spf13/cobra"
)

// analyticsCmd merges task state with live commit statistics per developer.
var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show task and commit statistics per developer",
	Long: `Combine the in-progress and done tasks of each assignee with the commit
counts and line statistics of a freshly generated report.

Examples:
  gitasana analytics --start 2024-01-01 --end 2024-01-31 --output json`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(cmd, args); err != nil {
			return err
		}
		return requireDates(cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		engine, err := buildEngine(rootCtx, nil)
		if err != nil {
			contract.LogFatal("Cannot set up analytics", err)
		}
		report, err := engine.DeveloperPerformance(rootCtx, cfg.StartDate, cfg.EndDate)
		if err != nil {
			contract.LogFatal("Cannot build analytics", err)
		}
		if err := outwriter.NewOutWriter().WriteAnalytics(report, cfg); err != nil {
			contract.LogFatal("Cannot write analytics", err)
		}
	},
}
