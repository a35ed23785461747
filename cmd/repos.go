package cmd

import (
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/outwriter"
	"github.com/spf13/cobra"
)

// reposCmd groups the local clone commands.
var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Manage the local clones of the configured repositories",
	Long: `Keep the local clones used for commit extraction up to date.

Subcommands:
  pull  - Run git pull in every configured repository
  setup - Clone missing repositories and check out the prod branch when present`,
}

var reposPullCmd = &cobra.Command{
	Use:     "pull",
	Short:   "Run git pull in every configured repository",
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		statuses := newRepoManager().Pull(rootCtx)
		if err := outwriter.NewOutWriter().WriteStatuses("🔄 Pull", statuses, cfg); err != nil {
			contract.LogFatal("Cannot write pull results", err)
		}
	},
}

var reposSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Clone missing repositories",
	Long: `Clone every configured repository that has a clone URL and no local copy.

A directory that exists but is not a git repository is replaced. After cloning,
the prod branch is checked out when the remote has one. With GITHUB_TOKEN set,
the GitHub API is asked first so absent branches are skipped.`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		statuses := newRepoManager().Setup(rootCtx)
		if err := outwriter.NewOutWriter().WriteStatuses("📦 Setup", statuses, cfg); err != nil {
			contract.LogFatal("Cannot write setup results", err)
		}
	},
}
