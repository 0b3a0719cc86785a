package config

import (
	"time"
)

// Config is the root configuration for the dataloader pipeline. It is built
// once at process start by a Loader and read-only afterward; components
// receive it by explicit injection rather than through a package-level
// singleton.
type Config struct {
	Environment    string                      `mapstructure:"environment" yaml:"environment"`
	DataSources    map[string]DataSourceConfig `mapstructure:"data_sources" yaml:"data_sources" validate:"required,min=1,dive"`
	LLM            LLMConfig                   `mapstructure:"llm_config" yaml:"llm_config" validate:"required"`
	Neo4j          Neo4jConfig                 `mapstructure:"neo4j_config" yaml:"neo4j_config" validate:"required"`
	TextProcessing TextProcessingConfig        `mapstructure:"text_processing" yaml:"text_processing"`
	History        HistoryConfig               `mapstructure:"history" yaml:"history,omitempty"`
	Logging        LoggingConfig               `mapstructure:"logging" yaml:"logging"`

	// Environments holds per-environment override blocks that the loader
	// deep-merges into the root sections before resolution.
	Environments map[string]map[string]any `mapstructure:"environments" yaml:"environments,omitempty"`
}

// DataSourceConfig describes one named source of raw system files.
type DataSourceConfig struct {
	Type         string              `mapstructure:"type" yaml:"type" validate:"required,oneof=filesystem"`
	BasePath     string              `mapstructure:"base_path" yaml:"base_path" validate:"required"`
	FilePatterns map[string][]string `mapstructure:"file_patterns" yaml:"file_patterns" validate:"required,min=1"`
}

// LLMConfig names the environment variables that carry the extraction
// endpoint settings, plus a fallback triple used when they are absent.
// The resolved values are filled in by the loader; resolution fails when a
// required value has neither an environment variable nor a fallback.
type LLMConfig struct {
	BaseURLEnv string      `mapstructure:"base_url_env" yaml:"base_url_env"`
	APIKeyEnv  string      `mapstructure:"api_key_env" yaml:"api_key_env"`
	ModelEnv   string      `mapstructure:"model_env" yaml:"model_env"`
	TimeoutEnv string      `mapstructure:"timeout_env" yaml:"timeout_env"`
	Fallback   LLMFallback `mapstructure:"fallback_config" yaml:"fallback_config,omitempty"`

	// Resolved values. Never set these in YAML.
	BaseURL string        `mapstructure:"-" yaml:"-"`
	APIKey  string        `mapstructure:"-" yaml:"-"`
	Model   string        `mapstructure:"-" yaml:"-"`
	Timeout time.Duration `mapstructure:"-" yaml:"-"`
}

// LLMFallback holds the values used when the configured environment
// variables are not set.
type LLMFallback struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	APIKey  string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Model   string `mapstructure:"model" yaml:"model,omitempty"`
	Timeout int    `mapstructure:"timeout" yaml:"timeout,omitempty"`
}

// Neo4jConfig names the environment variables for the graph database
// connection, a fallback block, and the management flags controlling
// startup behavior.
type Neo4jConfig struct {
	URIEnv      string         `mapstructure:"uri_env" yaml:"uri_env"`
	UsernameEnv string         `mapstructure:"username_env" yaml:"username_env"`
	PasswordEnv string         `mapstructure:"password_env" yaml:"password_env"`
	DatabaseEnv string         `mapstructure:"database_env" yaml:"database_env"`
	Fallback    Neo4jFallback  `mapstructure:"fallback_config" yaml:"fallback_config,omitempty"`
	Management  ManagementFlag `mapstructure:"management" yaml:"management"`

	// Resolved values. Never set these in YAML.
	URI      string `mapstructure:"-" yaml:"-"`
	Username string `mapstructure:"-" yaml:"-"`
	Password string `mapstructure:"-" yaml:"-"`
	Database string `mapstructure:"-" yaml:"-"`
}

// Neo4jFallback holds connection values used when the configured
// environment variables are not set.
type Neo4jFallback struct {
	URI      string `mapstructure:"uri" yaml:"uri,omitempty"`
	Username string `mapstructure:"username" yaml:"username,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Database string `mapstructure:"database" yaml:"database,omitempty"`
}

// ManagementFlag controls destructive startup behavior against the graph.
type ManagementFlag struct {
	ClearOnStartup    bool `mapstructure:"clear_on_startup" yaml:"clear_on_startup"`
	BackupBeforeClear bool `mapstructure:"backup_before_clear" yaml:"backup_before_clear"`
	MaxConnections    int  `mapstructure:"max_connections" yaml:"max_connections" validate:"min=0,max=200"`
}

// TextProcessingConfig tunes the normalizer.
type TextProcessingConfig struct {
	Chunking ChunkingConfig `mapstructure:"chunking" yaml:"chunking"`
	Cleaning CleaningConfig `mapstructure:"cleaning" yaml:"cleaning"`
}

// ChunkingConfig bounds document chunks handed to the extractor.
type ChunkingConfig struct {
	MaxChunkSize int `mapstructure:"max_chunk_size" yaml:"max_chunk_size" validate:"min=1"`
	ChunkOverlap int `mapstructure:"chunk_overlap" yaml:"chunk_overlap" validate:"min=0"`
}

// CleaningConfig selects which cleanup passes run over raw file content.
type CleaningConfig struct {
	RemoveANSICodes     bool `mapstructure:"remove_ansi_codes" yaml:"remove_ansi_codes"`
	NormalizeWhitespace bool `mapstructure:"normalize_whitespace" yaml:"normalize_whitespace"`
	RemoveDebugLines    bool `mapstructure:"remove_debug_lines" yaml:"remove_debug_lines"`
}

// HistoryConfig configures the local SQLite run ledger.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}
