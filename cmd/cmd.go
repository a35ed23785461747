// Package cmd defines the command-line interface for gitasana.
package cmd

import (
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(reloadAllCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(secretCmd)

	// Add the tasks subcommands to the parent tasks command
	tasksCmd.AddCommand(tasksSummaryCmd)
	tasksCmd.AddCommand(tasksEffortsCmd)
	tasksCmd.AddCommand(tasksDevelopersCmd)
	tasksCmd.AddCommand(tasksReloadCmd)

	// Add the repos subcommands to the parent repos command
	reposCmd.AddCommand(reposPullCmd)
	reposCmd.AddCommand(reposSetupCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	secretCmd.AddCommand(secretSetCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringArray("repo", nil, "Repository as name=path or name=path=url (repeatable)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of repositories extracted concurrently")
	rootCmd.PersistentFlags().String("start", "", "Start date of the window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("end", "", "End date of the window (YYYY-MM-DD), inclusive")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("cache-dir", contract.DefaultCacheDir, "Directory for cached reports and the task snapshot")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Commit stats store: sqlite or mysql or postgresql or bolt or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("directory-file", "", "Developer directory file (yaml or toml)")
	rootCmd.PersistentFlags().String("asana-project-id", "", "Asana project to read tasks from")
	rootCmd.PersistentFlags().String("asana-base-url", contract.DefaultAsanaBaseURL, "Asana API base URL")
	rootCmd.PersistentFlags().StringSlice("asana-sections", nil, "Comma-separated section names to read (default: board sections)")
	rootCmd.PersistentFlags().Float64("asana-rate-limit", contract.DefaultAsanaRateLimit, "Maximum Asana requests per second")
	rootCmd.PersistentFlags().String("asana-timeout", "", "Timeout per Asana request (e.g. 30s)")
	rootCmd.PersistentFlags().String("summarizer", string(schema.OpenAIProvider), "Commit summarizer: openai or gemini or none")
	rootCmd.PersistentFlags().String("summarizer-model", "", "Model name for the summarizer")
	rootCmd.PersistentFlags().String("summarizer-timeout", "", "Timeout per summarizer call (e.g. 30s)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("env-file", contract.DefaultEnvFile, "Path to a .env file loaded before reading the environment")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().Bool("use-cache", false, "Serve a stored report for the same window when available")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Address to listen on")
	serveCmd.Flags().String("reload-schedule", "", "Cron schedule for a full reload (e.g. '0 6 * * *')")
	serveCmd.Flags().Bool("watch-directory", true, "Reload the developer directory when its file changes")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
