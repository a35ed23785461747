package cmd

import (
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/outwriter"
	"github.com/spf13/cobra"
)

// reloadAllCmd clears the report cache, refreshes tasks and pulls every repository.
var reloadAllCmd = &cobra.Command{
	Use:   "reload-all",
	Short: "Clear cached reports, refresh tasks and pull all repositories",
	Long: `Run a full reload in three steps:

1. Delete every file in the cache directory
2. Fetch a fresh task snapshot from Asana
3. Run git pull in every configured repository

Examples:
  gitasana reload-all --output json`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		engine, err := buildEngine(rootCtx, nil)
		if err != nil {
			contract.LogFatal("Cannot set up reload", err)
		}
		result, err := engine.ReloadAll(rootCtx)
		if err != nil {
			contract.LogFatal("Reload failed", err)
		}
		if err := outwriter.NewOutWriter().WriteReload(result, cfg); err != nil {
			contract.LogFatal("Cannot write reload result", err)
		}
	},
}
