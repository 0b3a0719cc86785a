package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rrbanda/dataloader/internal/types"
)

// Loader resolves configuration from a YAML file, per-environment override
// blocks, and process environment variables.
type Loader interface {
	// Load reads the file at path and resolves it for the named environment.
	Load(path, environment string) (*Config, error)

	// LoadWithOverrides is Load plus an optional inline override mapping
	// that is merged on top of the file (same shape as the YAML document).
	LoadWithOverrides(path, environment string, overrides map[string]any) (*Config, error)

	// LoadWithDefaults behaves like Load but returns the resolved default
	// configuration when the file does not exist.
	LoadWithDefaults(path, environment string) (*Config, error)
}

// viperLoader implements Loader using Viper.
type viperLoader struct {
	validator Validator
}

// NewLoader creates a new Loader instance.
func NewLoader(validator Validator) Loader {
	return &viperLoader{validator: validator}
}

func (l *viperLoader) Load(path, environment string) (*Config, error) {
	return l.LoadWithOverrides(path, environment, nil)
}

func (l *viperLoader) LoadWithOverrides(path, environment string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	settings := v.AllSettings()

	// Per-environment override blocks win over the file defaults, and
	// inline overrides win over both.
	if envBlock, ok := settings["environments"].(map[string]any); ok {
		if overlay, ok := envBlock[environment].(map[string]any); ok {
			deepMerge(settings, overlay)
		}
	}
	if overrides != nil {
		deepMerge(settings, overrides)
	}

	interpolated, ok := interpolateEnvVars(settings).(map[string]any)
	if !ok {
		return nil, types.NewError(types.CONFIG_PARSE_FAILED, "config root is not a mapping")
	}

	merged := viper.New()
	if err := merged.MergeConfigMap(interpolated); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to merge config", err)
	}

	var cfg Config
	if err := merged.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}
	cfg.Environment = environment

	if err := l.finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *viperLoader) LoadWithDefaults(path, environment string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.Environment = environment
		if err := l.finish(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return l.Load(path, environment)
}

// finish resolves environment-variable-backed values and validates the
// result. It runs before any data filesystem or network access so that a
// missing credential aborts startup immediately.
func (l *viperLoader) finish(cfg *Config) error {
	if err := resolveLLM(&cfg.LLM); err != nil {
		return err
	}
	if err := resolveNeo4j(&cfg.Neo4j); err != nil {
		return err
	}
	if err := l.validator.Validate(cfg); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "configuration validation failed", err)
	}
	return nil
}

// resolveLLM fills LLMConfig's resolved fields: environment variable first,
// fallback second, error when a required value has neither.
func resolveLLM(c *LLMConfig) error {
	c.BaseURL = envOr(orDefault(c.BaseURLEnv, "OPENAI_BASE_URL"), c.Fallback.BaseURL)
	c.APIKey = envOr(orDefault(c.APIKeyEnv, "OPENAI_API_KEY"), c.Fallback.APIKey)
	c.Model = envOr(orDefault(c.ModelEnv, "MODEL"), c.Fallback.Model)

	timeoutSecs := c.Fallback.Timeout
	if raw := os.Getenv(orDefault(c.TimeoutEnv, "HTTP_TIMEOUT")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return types.WrapError(types.CONFIG_PARSE_FAILED,
				fmt.Sprintf("%s must be an integer number of seconds", orDefault(c.TimeoutEnv, "HTTP_TIMEOUT")), err)
		}
		timeoutSecs = parsed
	}
	if timeoutSecs <= 0 {
		timeoutSecs = 180
	}
	c.Timeout = time.Duration(timeoutSecs) * time.Second

	if c.BaseURL == "" {
		return missingKey(orDefault(c.BaseURLEnv, "OPENAI_BASE_URL"), "llm_config.fallback_config.base_url")
	}
	if c.APIKey == "" {
		return missingKey(orDefault(c.APIKeyEnv, "OPENAI_API_KEY"), "llm_config.fallback_config.api_key")
	}
	if c.Model == "" {
		return missingKey(orDefault(c.ModelEnv, "MODEL"), "llm_config.fallback_config.model")
	}
	return nil
}

// resolveNeo4j fills Neo4jConfig's resolved fields with the same
// env-first-then-fallback rule. The database name defaults to "neo4j".
func resolveNeo4j(c *Neo4jConfig) error {
	c.URI = envOr(orDefault(c.URIEnv, "NEO4J_URI"), c.Fallback.URI)
	c.Username = envOr(orDefault(c.UsernameEnv, "NEO4J_USERNAME"), c.Fallback.Username)
	c.Password = envOr(orDefault(c.PasswordEnv, "NEO4J_PASSWORD"), c.Fallback.Password)
	c.Database = envOr(orDefault(c.DatabaseEnv, "NEO4J_DATABASE"), c.Fallback.Database)
	if c.Database == "" {
		c.Database = "neo4j"
	}

	if c.URI == "" {
		return missingKey(orDefault(c.URIEnv, "NEO4J_URI"), "neo4j_config.fallback_config.uri")
	}
	if c.Username == "" {
		return missingKey(orDefault(c.UsernameEnv, "NEO4J_USERNAME"), "neo4j_config.fallback_config.username")
	}
	if c.Password == "" {
		return missingKey(orDefault(c.PasswordEnv, "NEO4J_PASSWORD"), "neo4j_config.fallback_config.password")
	}
	return nil
}

func missingKey(envName, fallbackKey string) error {
	return types.NewError(types.CONFIG_MISSING_KEY,
		fmt.Sprintf("%s is not set and %s has no value", envName, fallbackKey))
}

func envOr(envName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return fallback
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// deepMerge merges overlay into base in place. Nested mappings merge
// recursively; every other value type is replaced.
func deepMerge(base map[string]any, overlay map[string]any) {
	for key, value := range overlay {
		if overlayMap, ok := value.(map[string]any); ok {
			if baseMap, ok := base[key].(map[string]any); ok {
				deepMerge(baseMap, overlayMap)
				continue
			}
		}
		base[key] = value
	}
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateEnvVars recursively replaces ${VAR_NAME} placeholders in string
// values with the corresponding environment variable. Unset variables leave
// the placeholder untouched.
func interpolateEnvVars(data any) any {
	switch v := data.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, value := range v {
			result[key] = interpolateEnvVars(value)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, value := range v {
			result[i] = interpolateEnvVars(value)
		}
		return result
	case string:
		return interpolateString(v)
	default:
		return v
	}
}

// interpolateString replaces ${VAR_NAME} with environment variable values.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if envValue := os.Getenv(varName); envValue != "" {
			return envValue
		}
		return match
	})
}
