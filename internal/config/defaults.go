package config

import (
	"os"
	"path/filepath"
)

// DefaultEnvironment is used when neither the --environment flag nor the
// ENVIRONMENT variable selects one.
const DefaultEnvironment = "production"

// DefaultConfig returns a Config with sensible default values. The fallback
// blocks mirror a local developer setup; production deployments are expected
// to supply the OPENAI_* and NEO4J_* environment variables instead.
func DefaultConfig() *Config {
	return &Config{
		Environment: DefaultEnvironment,
		DataSources: map[string]DataSourceConfig{
			"systems": {
				Type:     "filesystem",
				BasePath: "simulated_systems",
				FilePatterns: map[string][]string{
					"config_files": {"etc/redhat-release", "etc/yum.conf", "etc/**/*.conf"},
					"log_files":    {"var/log/**/*.log", "var/log/secure", "var/log/messages"},
					"system_files": {"var/lib/rpm/packages.txt", "usr/lib/systemd/system/*.service", "**/system_info.txt"},
				},
			},
		},
		LLM: LLMConfig{
			BaseURLEnv: "OPENAI_BASE_URL",
			APIKeyEnv:  "OPENAI_API_KEY",
			ModelEnv:   "MODEL",
			TimeoutEnv: "HTTP_TIMEOUT",
			Fallback: LLMFallback{
				BaseURL: "http://localhost:11434/v1",
				Model:   "llama3",
				Timeout: 180,
			},
		},
		Neo4j: Neo4jConfig{
			URIEnv:      "NEO4J_URI",
			UsernameEnv: "NEO4J_USERNAME",
			PasswordEnv: "NEO4J_PASSWORD",
			DatabaseEnv: "NEO4J_DATABASE",
			Fallback: Neo4jFallback{
				URI:      "bolt://localhost:7687",
				Username: "neo4j",
				Database: "neo4j",
			},
			Management: ManagementFlag{
				ClearOnStartup:    false,
				BackupBeforeClear: true,
				MaxConnections:    50,
			},
		},
		TextProcessing: TextProcessingConfig{
			Chunking: ChunkingConfig{
				MaxChunkSize: 2000,
				ChunkOverlap: 200,
			},
			Cleaning: CleaningConfig{
				RemoveANSICodes:     true,
				NormalizeWhitespace: true,
				RemoveDebugLines:    true,
			},
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(defaultDataDir(), "runs.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// defaultDataDir returns the directory for local state such as the run
// ledger, falling back to the temporary directory when the user home cannot
// be determined.
func defaultDataDir() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".dataloader")
	}
	return filepath.Join(userHome, ".dataloader")
}

// DefaultConfigPath returns the conventional location of the config file.
func DefaultConfigPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}
