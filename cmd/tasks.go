package cmd

import (
	"fmt"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/outwriter"
	"github.com/spf13/cobra"
)

// tasksCmd groups the Asana task commands.
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Summarize Asana tasks and the effort spent on them",
	Long: `Read tasks from the configured Asana project and relate them to commits.

Subcommands:
  summary    - Count in-progress and done tasks per assignee
  efforts    - Estimate minutes spent per task from matching commits
  developers - Total the effort estimates per assignee
  reload     - Refresh the cached task snapshot from Asana`,
}

var tasksSummaryCmd = &cobra.Command{
	Use:     "summary",
	Short:   "Count in-progress and done tasks per assignee",
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		engine, err := buildEngine(rootCtx, nil)
		if err != nil {
			contract.LogFatal("Cannot set up task summary", err)
		}
		summary, err := engine.TaskSummary(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot summarize tasks", err)
		}
		if err := outwriter.NewOutWriter().WriteTasks(summary, cfg); err != nil {
			contract.LogFatal("Cannot write task summary", err)
		}
	},
}

var tasksEffortsCmd = &cobra.Command{
	Use:   "efforts",
	Short: "Estimate the time spent on each task from its commits",
	Long: `Match every task to the commits that mention its id or the part of its
name before the first colon, then report the span between the first and last
matching commit. A summarizer, when configured, adds a short analysis.

Examples:
  gitasana tasks efforts --start 2024-01-01 --end 2024-01-31 --summarizer none`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(cmd, args); err != nil {
			return err
		}
		return requireDates(cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		engine, err := buildEngine(rootCtx, nil)
		if err != nil {
			contract.LogFatal("Cannot set up task efforts", err)
		}
		records, err := engine.CorrelateTasks(rootCtx, cfg.StartDate, cfg.EndDate)
		if err != nil {
			contract.LogFatal("Cannot correlate tasks", err)
		}
		if err := outwriter.NewOutWriter().WriteEfforts(records, cfg); err != nil {
			contract.LogFatal("Cannot write task efforts", err)
		}
	},
}

var tasksDevelopersCmd = &cobra.Command{
	Use:   "developers",
	Short: "Total the effort estimates per assignee",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(cmd, args); err != nil {
			return err
		}
		return requireDates(cmd, args)
	},
	Run: func(_ *cobra.Command, _ []string) {
		engine, err := buildEngine(rootCtx, nil)
		if err != nil {
			contract.LogFatal("Cannot set up developer summary", err)
		}
		summaries, err := engine.SummarizeByDeveloper(rootCtx, cfg.StartDate, cfg.EndDate)
		if err != nil {
			contract.LogFatal("Cannot summarize by developer", err)
		}
		if err := outwriter.NewOutWriter().WriteDevelopers(summaries, cfg); err != nil {
			contract.LogFatal("Cannot write developer summary", err)
		}
	},
}

var tasksReloadCmd = &cobra.Command{
	Use:     "reload",
	Short:   "Refresh the cached task snapshot from Asana",
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		engine, err := buildEngine(rootCtx, nil)
		if err != nil {
			contract.LogFatal("Cannot set up task reload", err)
		}
		n, err := engine.ReloadWorkItems(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot reload tasks", err)
		}
		fmt.Printf("Cached %d tasks.\n", n)
	},
}
