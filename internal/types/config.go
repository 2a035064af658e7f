package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server with in-memory repositories
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running the API server against postgres
	ModeAPI RunMode = "api"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RepositoryDriver selects the storage backing the repositories
type RepositoryDriver string

const (
	RepositoryDriverMemory   RepositoryDriver = "memory"
	RepositoryDriverPostgres RepositoryDriver = "postgres"
)
