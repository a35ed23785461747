package contract

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/rehman-1/git-asana-backend/schema"
)

// Default values for configuration.
const (
	DefaultCacheDir          = "cache"
	DefaultAsanaBaseURL      = "https://app.asana.com/api/1.0"
	DefaultAsanaRateLimit    = 5.0
	DefaultRequestTimeout    = 30 * time.Second
	DefaultSummarizerTimeout = 30 * time.Second
	DefaultOpenAIModel       = "gpt-3.5-turbo"
	DefaultGeminiModel       = "gemini-2.0-flash"
	DefaultServeAddr         = ":8000"
	DefaultLogLevel          = "info"
	DefaultEnvFile           = ".env"
)

// DefaultWorkers is the default number of repositories extracted concurrently.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// RepoConfig describes one local repository clone.
type RepoConfig struct {
	Name     string // display name used in commit records
	Path     string // absolute path of the local clone
	URL      string // web URL used to build commit links
	CloneURL string // clone URL used by repository setup
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Repos   []RepoConfig
	Workers int

	StartDate string
	EndDate   string
	UseCache  bool

	CacheDir       string
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	DirectoryFile string
	Developers    map[string]schema.Developer

	AsanaToken     string
	AsanaProjectID string
	AsanaBaseURL   string
	AsanaSections  []string
	AsanaRateLimit float64
	AsanaTimeout   time.Duration

	SummarizerProvider schema.SummarizerProvider
	SummarizerAPIKey   string
	SummarizerModel    string
	SummarizerTimeout  time.Duration

	GitHubToken string

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	ServeAddr      string
	ReloadSchedule string

	LogLevel string
}

// RepoRawInput is a repository entry from the config file.
type RepoRawInput struct {
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"`
	URL      string `mapstructure:"url"`
	CloneURL string `mapstructure:"clone_url"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Repo           []string `mapstructure:"repo"`
	Workers        int      `mapstructure:"workers"`
	Start          string   `mapstructure:"start"`
	End            string   `mapstructure:"end"`
	CacheDir       string   `mapstructure:"cache-dir"`
	CacheBackend   string   `mapstructure:"cache-backend"`
	CacheDBConnect string   `mapstructure:"cache-db-connect"`
	DirectoryFile  string   `mapstructure:"directory-file"`
	Output         string   `mapstructure:"output"`
	OutputFile     string   `mapstructure:"output-file"`
	Width          int      `mapstructure:"width"`
	Color          string   `mapstructure:"color"`
	LogLevel       string   `mapstructure:"log-level"`

	// --- Work-item source ---
	AsanaToken     string   `mapstructure:"asana-token"`
	AsanaProjectID string   `mapstructure:"asana-project-id"`
	AsanaBaseURL   string   `mapstructure:"asana-base-url"`
	AsanaSections  []string `mapstructure:"asana-sections"`
	AsanaRateLimit float64  `mapstructure:"asana-rate-limit"`
	AsanaTimeout   string   `mapstructure:"asana-timeout"`

	// --- Summarizer ---
	Summarizer        string `mapstructure:"summarizer"`
	SummarizerModel   string `mapstructure:"summarizer-model"`
	SummarizerTimeout string `mapstructure:"summarizer-timeout"`
	OpenAIAPIKey      string `mapstructure:"openai-api-key"`
	GeminiAPIKey      string `mapstructure:"gemini-api-key"`

	GitHubToken string `mapstructure:"github-token"`

	// --- Fields from reportCmd.Flags() ---
	UseCache bool `mapstructure:"use-cache"`

	// --- Fields from serveCmd.Flags() ---
	Addr           string `mapstructure:"addr"`
	ReloadSchedule string `mapstructure:"reload-schedule"`

	// --- Config file only ---
	Repos      []RepoRawInput              `mapstructure:"repos"`
	Developers map[string]schema.Developer `mapstructure:"developers"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Repos = slices.Clone(c.Repos)
	clone.AsanaSections = slices.Clone(c.AsanaSections)
	if c.Developers != nil {
		clone.Developers = make(map[string]schema.Developer, len(c.Developers))
		for k, v := range c.Developers {
			clone.Developers[k] = v
		}
	}
	return &clone
}

// RepoSetKey returns a short stable hash of the configured repository set.
// Order of configuration does not matter.
func (c *Config) RepoSetKey() string {
	pairs := make([]string, 0, len(c.Repos))
	for _, r := range c.Repos {
		pairs = append(pairs, r.Name+"="+r.Path)
	}
	slices.Sort(pairs)
	sum := sha256.Sum256([]byte(strings.Join(pairs, "\n")))
	return fmt.Sprintf("%x", sum)[:12]
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processRepos(cfg, input); err != nil {
		return err
	}
	if err := processDates(cfg, input); err != nil {
		return err
	}
	if err := processWorkItemSource(cfg, input); err != nil {
		return err
	}
	if err := processSummarizer(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.UseCache = input.UseCache
	cfg.DirectoryFile = strings.TrimSpace(input.DirectoryFile)
	cfg.Developers = input.Developers
	cfg.GitHubToken = firstNonEmpty(input.GitHubToken, LookupSecret(GitHubTokenItem))
	cfg.ServeAddr = firstNonEmpty(input.Addr, DefaultServeAddr)
	cfg.ReloadSchedule = strings.TrimSpace(input.ReloadSchedule)

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.LogLevel = firstNonEmpty(input.LogLevel, DefaultLogLevel)
	if err := SetLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}

	cfg.CacheDir = firstNonEmpty(strings.TrimSpace(input.CacheDir), DefaultCacheDir)
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, bolt, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// processRepos merges repositories from the config file with --repo flags.
// A flag entry overrides a file entry with the same name.
func processRepos(cfg *Config, input *ConfigRawInput) error {
	cfg.Repos = nil
	index := map[string]int{}
	add := func(r RepoConfig) error {
		if r.Name == "" {
			return fmt.Errorf("repository entry is missing a name")
		}
		if r.Path == "" {
			return fmt.Errorf("repository %q is missing a path", r.Name)
		}
		abs, err := filepath.Abs(r.Path)
		if err != nil {
			return fmt.Errorf("repository %q: cannot resolve path %q: %w", r.Name, r.Path, err)
		}
		r.Path = abs
		r.URL = strings.TrimSuffix(strings.TrimSuffix(r.URL, "/"), ".git")
		if i, ok := index[r.Name]; ok {
			cfg.Repos[i] = r
			return nil
		}
		index[r.Name] = len(cfg.Repos)
		cfg.Repos = append(cfg.Repos, r)
		return nil
	}

	for _, raw := range input.Repos {
		r := RepoConfig{Name: raw.Name, Path: raw.Path, URL: raw.URL, CloneURL: raw.CloneURL}
		if err := add(r); err != nil {
			return err
		}
	}
	for _, spec := range input.Repo {
		r, err := ParseRepoFlag(spec)
		if err != nil {
			return err
		}
		if err := add(r); err != nil {
			return err
		}
	}
	return nil
}

// ParseRepoFlag parses "name=path[=url]" into a RepoConfig.
func ParseRepoFlag(spec string) (RepoConfig, error) {
	parts := strings.SplitN(strings.TrimSpace(spec), "=", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoConfig{}, fmt.Errorf("invalid --repo value %q. Expected name=path or name=path=url", spec)
	}
	r := RepoConfig{Name: parts[0], Path: parts[1]}
	if len(parts) == 3 {
		r.URL = parts[2]
		r.CloneURL = strings.TrimSuffix(parts[2], "/") + ".git"
	}
	return r, nil
}

// processDates validates the optional --start/--end pair.
func processDates(cfg *Config, input *ConfigRawInput) error {
	cfg.StartDate = strings.TrimSpace(input.Start)
	cfg.EndDate = strings.TrimSpace(input.End)
	if cfg.StartDate == "" && cfg.EndDate == "" {
		return nil
	}
	if cfg.StartDate == "" || cfg.EndDate == "" {
		return fmt.Errorf("both --start and --end must be given")
	}
	_, err := ParseDateWindow(cfg.StartDate, cfg.EndDate)
	return err
}

// processWorkItemSource fills the Asana client settings.
func processWorkItemSource(cfg *Config, input *ConfigRawInput) error {
	cfg.AsanaToken = firstNonEmpty(input.AsanaToken, LookupSecret(AsanaTokenItem))
	cfg.AsanaProjectID = strings.TrimSpace(input.AsanaProjectID)
	cfg.AsanaBaseURL = strings.TrimSuffix(firstNonEmpty(input.AsanaBaseURL, DefaultAsanaBaseURL), "/")

	cfg.AsanaSections = nil
	for _, s := range input.AsanaSections {
		if s = strings.TrimSpace(s); s != "" {
			cfg.AsanaSections = append(cfg.AsanaSections, s)
		}
	}
	if len(cfg.AsanaSections) == 0 {
		cfg.AsanaSections = slices.Clone(schema.DefaultTargetSections)
	}

	cfg.AsanaRateLimit = input.AsanaRateLimit
	if cfg.AsanaRateLimit <= 0 {
		cfg.AsanaRateLimit = DefaultAsanaRateLimit
	}

	timeout, err := parseTimeout(input.AsanaTimeout, DefaultRequestTimeout)
	if err != nil {
		return fmt.Errorf("invalid --asana-timeout value: %w", err)
	}
	cfg.AsanaTimeout = timeout
	return nil
}

// processSummarizer selects the provider, model and key.
func processSummarizer(cfg *Config, input *ConfigRawInput) error {
	cfg.SummarizerProvider = schema.SummarizerProvider(strings.ToLower(firstNonEmpty(input.Summarizer, string(schema.OpenAIProvider))))
	if _, ok := schema.ValidSummarizerProviders[cfg.SummarizerProvider]; !ok {
		return fmt.Errorf("invalid summarizer '%s'. must be openai, gemini, none", input.Summarizer)
	}

	switch cfg.SummarizerProvider {
	case schema.OpenAIProvider:
		cfg.SummarizerAPIKey = firstNonEmpty(input.OpenAIAPIKey, LookupSecret(OpenAIKeyItem))
		cfg.SummarizerModel = firstNonEmpty(input.SummarizerModel, DefaultOpenAIModel)
	case schema.GeminiProvider:
		cfg.SummarizerAPIKey = firstNonEmpty(input.GeminiAPIKey, LookupSecret(GeminiKeyItem))
		cfg.SummarizerModel = firstNonEmpty(input.SummarizerModel, DefaultGeminiModel)
	default:
		cfg.SummarizerAPIKey = ""
		cfg.SummarizerModel = ""
	}

	timeout, err := parseTimeout(input.SummarizerTimeout, DefaultSummarizerTimeout)
	if err != nil {
		return fmt.Errorf("invalid --summarizer-timeout value: %w", err)
	}
	cfg.SummarizerTimeout = timeout
	return nil
}

// parseTimeout parses a Go duration string, using def when s is empty.
func parseTimeout(s string, def time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive (received %s)", s)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
