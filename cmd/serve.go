package cmd

import (
	"context"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/directory"
	"github.com/rehman-1/git-asana-backend/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reports over HTTP",
	Long: `Start the HTTP API with JSON endpoints for commit reports, task summaries,
effort estimates and analytics, plus Prometheus metrics on /metrics.

Dates are passed as start_date and end_date query parameters (YYYY-MM-DD).
With --reload-schedule the server runs a full reload on that cron schedule.
A developer directory file is reloaded automatically when it changes.

Examples:
  gitasana serve --addr :8000 --reload-schedule "0 6 * * *"`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(rootCtx)
		defer cancel()

		dir, err := loadDirectory()
		if err != nil {
			return err
		}
		if dir.Path() != "" && viper.GetBool("watch-directory") {
			go func() {
				if err := dir.Watch(ctx, directory.DefaultDebounce); err != nil {
					contract.LogWarn("Directory watch stopped", err)
				}
			}()
		}

		engine, err := buildEngine(ctx, dir)
		if err != nil {
			return err
		}
		srv, err := server.New(engine, cfg.ServeAddr, cfg.ReloadSchedule)
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}
