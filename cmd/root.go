package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rehman-1/git-asana-backend/core"
	"github.com/rehman-1/git-asana-backend/internal/asana"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/internal/directory"
	"github.com/rehman-1/git-asana-backend/internal/iocache"
	"github.com/rehman-1/git-asana-backend/internal/repos"
	"github.com/rehman-1/git-asana-backend/internal/summarizer"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// legacyEnv maps config keys to environment names used by older deployments.
// The GITASANA_ prefixed name always wins.
var legacyEnv = map[string]string{
	"asana-token":      "ASANA_ACCESS_TOKEN",
	"asana-project-id": "ASANA_PROJECT_ID",
	"openai-api-key":   "OPENAI_API_KEY",
	"gemini-api-key":   "GEMINI_API_KEY",
	"github-token":     "GITHUB_TOKEN",
	"cache-dir":        "CACHE_DIR",
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "gitasana",
	Short:              "Mine Git commits and correlate them with Asana tasks.",
	Long:               `Gitasana collects commits across your repositories and estimates the effort spent on each Asana task.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig loads the .env file and wires environment variables into Viper.
func initConfig() {
	envFile := viper.GetString("env-file")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn(fmt.Sprintf("Could not load %s", envFile), err)
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("GITASANA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	for key, legacy := range legacyEnv {
		envName := "GITASANA_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		if err := viper.BindEnv(key, envName, legacy); err != nil {
			contract.LogFatal("Error binding environment", err)
		}
	}

	// Set defaults in Viper
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("cache-dir", contract.DefaultCacheDir)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("summarizer", schema.OpenAIProvider)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".gitasana") // Name of config file (without extension)
		viper.SetConfigType("yaml")      // We'll use YAML format
		viper.AddConfigPath(".")         // Look in the current directory
		viper.AddConfigPath("$HOME")     // Look in the home directory
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the caches.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Initialize the caches with validated config
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheDir); err != nil {
		return fmt.Errorf("failed to initialize caching: %w", err)
	}
	return nil
}

// requireDates checks that a date window was given for commands that need one.
func requireDates(_ *cobra.Command, _ []string) error {
	if cfg.StartDate == "" || cfg.EndDate == "" {
		return fmt.Errorf("--start and --end are required (YYYY-MM-DD)")
	}
	return nil
}

// loadDirectory returns the developer directory from the configured file, or
// from the developers section of the config when no file is set.
func loadDirectory() (*directory.Directory, error) {
	if cfg.DirectoryFile == "" {
		return directory.New(cfg.Developers), nil
	}
	return directory.Load(cfg.DirectoryFile)
}

// newRepoManager returns the clone manager for the configured repositories.
func newRepoManager() *repos.Manager {
	var checker repos.BranchChecker
	if cfg.GitHubToken != "" {
		checker = repos.NewGitHubBranchChecker(cfg.GitHubToken)
	}
	return repos.NewManager(contract.NewLocalGitClient(), cfg.Repos, checker)
}

// buildEngine wires the collaborators of the report engine from cfg.
func buildEngine(ctx context.Context, dir *directory.Directory) (*core.Engine, error) {
	if dir == nil {
		var err error
		if dir, err = loadDirectory(); err != nil {
			return nil, err
		}
	}

	deps := core.Deps{
		Git:      contract.NewLocalGitClient(),
		Resolver: dir,
		Caches:   iocache.Manager,
		Repos:    newRepoManager(),
	}
	if cfg.AsanaToken != "" && cfg.AsanaProjectID != "" {
		deps.Source = asana.NewClientFromConfig(cfg)
	}

	s, err := summarizer.New(ctx, cfg)
	if err != nil {
		// The correlation still runs without analyses.
		contract.LogWarn("Summarizer disabled", err)
	} else {
		deps.Summarizer = s
	}
	return core.NewEngine(cfg, deps), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
