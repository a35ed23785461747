package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the commit stats store.
	DatabaseBackend string

	// SummarizerProvider represents the AI provider used to analyze matched commits.
	SummarizerProvider string

	// TaskState represents the board state of a work item.
	TaskState string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All stats store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	BoltBackend       DatabaseBackend = "bolt"
	NoneBackend       DatabaseBackend = "none"
)

// All summarizer providers supported.
const (
	OpenAIProvider SummarizerProvider = "openai" // default
	GeminiProvider SummarizerProvider = "gemini"
	NoProvider     SummarizerProvider = "none"
)

// Board states derived from section names and completion flags.
const (
	InProgressState TaskState = "in_progress"
	DoneState       TaskState = "done"
	OtherState      TaskState = "other"
)

// Labels used when the work-item source omits a field.
const (
	UnassignedLabel = "Unassigned"
	NoNameLabel     = "No name"
	NoURLLabel      = "No URL"
)

// DateLayout is the calendar date format accepted for report windows.
const DateLayout = "2006-01-02"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid stats store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	BoltBackend:       {},
	NoneBackend:       {},
}

// ValidSummarizerProviders lists all valid summarizer providers.
var ValidSummarizerProviders = map[SummarizerProvider]struct{}{
	OpenAIProvider: {},
	GeminiProvider: {},
	NoProvider:     {},
}

// DefaultTargetSections are the board sections fetched from the work-item source.
var DefaultTargetSections = []string{"🏃 In Progress", "👏 Done"}
