// Package core provides the main LocalMem client and memory management functionality.
package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Default tunables for the memory pipeline. These mirror the values the
// pipeline was calibrated with and can be overridden via environment
// variables or a JSON config file.
const (
	// DefaultImportanceThreshold is the minimum importance score a fact
	// must reach to be stored.
	DefaultImportanceThreshold = 0.1

	// DefaultConflictThreshold is the lexical overlap above which a new
	// fact is flagged as conflicting with an existing entry.
	DefaultConflictThreshold = 0.6

	// DefaultDecayRate controls how quickly the recency component of
	// the heuristic ranking score falls off per hour of age.
	DefaultDecayRate = 0.01

	// DefaultSearchLimit is the number of results Search returns when
	// the caller passes a non-positive limit.
	DefaultSearchLimit = 5

	// DefaultImportanceProbe is the reference query used to measure a
	// candidate fact's importance before it is admitted to the store.
	DefaultImportanceProbe = "Important personal details, names, relationships, life events, or preferences."
)

// Config contains the complete configuration for a LocalMem client.
//
// It includes settings for:
//   - LLM provider (fact extraction and relevance scoring)
//   - Embedding provider (embedding-based scoring)
//   - Storage backend (memory persistence)
//   - Memory pipeline tunables (thresholds, decay, probe)
//
// Example:
//
//	config := &core.Config{
//	    LLM: core.LLMConfig{
//	        Provider: "openai",
//	        APIKey:   "sk-...",
//	        Model:    "gpt-4o-mini",
//	    },
//	    Storage: core.StorageConfig{
//	        Provider: "file",
//	        Config: map[string]interface{}{
//	            "base_dir": "./memory",
//	        },
//	    },
//	}
type Config struct {
	// LLM contains LLM provider configuration.
	LLM LLMConfig `json:"llm"`

	// Embedder contains embedding provider configuration.
	Embedder EmbedderConfig `json:"embedder"`

	// Storage contains storage backend configuration.
	Storage StorageConfig `json:"storage"`

	// Scorer selects the stage two relevance scorer ("llm" or "embedding").
	Scorer string `json:"scorer,omitempty"`

	// Memory contains the pipeline tunables.
	Memory MemoryConfig `json:"memory"`
}

// LLMConfig contains configuration for the LLM provider.
//
// Any OpenAI-compatible endpoint works: set BaseURL for DeepSeek, Qwen,
// Ollama, or a local gateway.
type LLMConfig struct {
	// Provider is the LLM provider name. Currently "openai" covers all
	// OpenAI-compatible endpoints.
	Provider string `json:"provider"`

	// APIKey is the API key for the LLM provider.
	APIKey string `json:"api_key"`

	// Model is the model name to use (e.g., "gpt-4o-mini").
	Model string `json:"model"`

	// BaseURL is the base URL for the API (optional, uses provider default if empty).
	BaseURL string `json:"base_url,omitempty"`
}

// EmbedderConfig contains configuration for the embedding provider.
type EmbedderConfig struct {
	// Provider is the embedding provider name. Currently "openai" covers
	// all OpenAI-compatible endpoints.
	Provider string `json:"provider"`

	// APIKey is the API key for the embedding provider.
	APIKey string `json:"api_key"`

	// BaseURL is the base URL for the API (optional, uses provider default if empty).
	BaseURL string `json:"base_url,omitempty"`
}

// StorageConfig contains configuration for the storage backend.
//
// Supported providers: file, sqlite, postgres, mysql
//
// Example:
//
//	storeConfig := core.StorageConfig{
//	    Provider: "sqlite",
//	    Config: map[string]interface{}{
//	        "db_path": "./memories.db",
//	    },
//	}
type StorageConfig struct {
	// Provider is the storage provider name (file, sqlite, postgres, mysql).
	Provider string `json:"provider"`

	// Config contains provider-specific configuration.
	// For file: base_dir
	// For SQLite: db_path
	// For PostgreSQL and MySQL: host, port, user, password, db_name, ssl_mode
	Config map[string]interface{} `json:"config"`
}

// MemoryConfig contains the pipeline tunables.
type MemoryConfig struct {
	// ImportanceThreshold is the minimum importance score for storage.
	// Zero means DefaultImportanceThreshold.
	ImportanceThreshold float64 `json:"importance_threshold,omitempty"`

	// ConflictThreshold is the lexical overlap above which a new fact
	// is flagged as conflicting. Zero means DefaultConflictThreshold.
	ConflictThreshold float64 `json:"conflict_threshold,omitempty"`

	// DecayRate is the hourly recency decay used during ranking.
	// Zero means DefaultDecayRate.
	DecayRate float64 `json:"decay_rate,omitempty"`

	// ImportanceProbe is the reference query used for importance
	// measurement. Empty means DefaultImportanceProbe.
	ImportanceProbe string `json:"importance_probe,omitempty"`
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - STORAGE_PROVIDER (file, sqlite, postgres, mysql)
//   - FILE_STORE_DIR
//   - SQLITE_PATH
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD, etc.
//   - MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, etc.
//   - LLM_PROVIDER, LLM_API_KEY, LLM_MODEL, LLM_BASE_URL
//   - EMBEDDING_PROVIDER, EMBEDDING_API_KEY, EMBEDDING_BASE_URL
//   - SCORER_PROVIDER (llm, embedding)
//   - MEMORY_IMPORTANCE_THRESHOLD, MEMORY_CONFLICT_THRESHOLD
//   - MEMORY_DECAY_RATE, MEMORY_IMPORTANCE_PROBE
//
// Example:
//
//	config, err := core.LoadConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfigFromEnv() (*Config, error) {
	// Use FindEnvFile to locate .env file (supports upward search)
	envPath, found := FindEnvFile()
	if found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	provider := getEnvOrDefault("STORAGE_PROVIDER", "file")

	storageConfig := make(map[string]interface{})

	switch provider {
	case "file":
		storageConfig = map[string]interface{}{
			"base_dir": getEnvOrDefault("FILE_STORE_DIR", "memory"),
		}
	case "sqlite":
		storageConfig = map[string]interface{}{
			"db_path": getEnvOrDefault("SQLITE_PATH", "./localmem.db"),
		}
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))

		storageConfig = map[string]interface{}{
			"host":     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			"port":     port,
			"user":     getEnvOrDefault("POSTGRES_USER", "postgres"),
			"password": os.Getenv("POSTGRES_PASSWORD"),
			"db_name":  getEnvOrDefault("POSTGRES_DATABASE", "localmem"),
			"ssl_mode": getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		}
	case "mysql":
		port, _ := strconv.Atoi(getEnvOrDefault("MYSQL_PORT", "3306"))

		storageConfig = map[string]interface{}{
			"host":     getEnvOrDefault("MYSQL_HOST", "127.0.0.1"),
			"port":     port,
			"user":     getEnvOrDefault("MYSQL_USER", "root"),
			"password": os.Getenv("MYSQL_PASSWORD"),
			"db_name":  getEnvOrDefault("MYSQL_DATABASE", "localmem"),
		}
	}

	memCfg := MemoryConfig{
		ImportanceProbe: os.Getenv("MEMORY_IMPORTANCE_PROBE"),
	}
	if v := os.Getenv("MEMORY_IMPORTANCE_THRESHOLD"); v != "" {
		memCfg.ImportanceThreshold, _ = strconv.ParseFloat(v, 64)
	}
	if v := os.Getenv("MEMORY_CONFLICT_THRESHOLD"); v != "" {
		memCfg.ConflictThreshold, _ = strconv.ParseFloat(v, 64)
	}
	if v := os.Getenv("MEMORY_DECAY_RATE"); v != "" {
		memCfg.DecayRate, _ = strconv.ParseFloat(v, 64)
	}

	config := &Config{
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", "openai"),
			APIKey:   os.Getenv("LLM_API_KEY"),
			Model:    getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			BaseURL:  os.Getenv("LLM_BASE_URL"),
		},
		Embedder: EmbedderConfig{
			Provider: getEnvOrDefault("EMBEDDING_PROVIDER", "openai"),
			APIKey:   os.Getenv("EMBEDDING_API_KEY"),
			BaseURL:  os.Getenv("EMBEDDING_BASE_URL"),
		},
		Storage: StorageConfig{
			Provider: provider,
			Config:   storageConfig,
		},
		Scorer: getEnvOrDefault("SCORER_PROVIDER", "llm"),
		Memory: memCfg,
	}

	return config, nil
}

// LoadConfigFromEnvFile loads configuration from a specific .env file.
func LoadConfigFromEnvFile(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return LoadConfigFromEnv()
}

// LoadConfigFromJSON loads configuration from a JSON file.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewMemoryError("LoadConfigFromJSON", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, NewMemoryError("LoadConfigFromJSON", err)
	}

	return &config, nil
}

// Validate validates the configuration.
//
// Checks that all required fields are set and that the tunables stay in
// their valid ranges.
//
// Returns an error if validation fails, nil otherwise.
func (c *Config) Validate() error {
	if c.Storage.Provider == "" {
		return NewMemoryError("Validate", ErrInvalidConfig)
	}
	switch c.Storage.Provider {
	case "file", "sqlite", "postgres", "mysql":
	default:
		return NewMemoryError("Validate",
			fmt.Errorf("%w: unknown storage provider %q", ErrInvalidConfig, c.Storage.Provider))
	}
	if c.Scorer != "" && c.Scorer != "llm" && c.Scorer != "embedding" {
		return NewMemoryError("Validate",
			fmt.Errorf("%w: unknown scorer %q", ErrInvalidConfig, c.Scorer))
	}
	if c.Memory.ImportanceThreshold < 0 || c.Memory.ImportanceThreshold > 1 {
		return NewMemoryError("Validate",
			fmt.Errorf("%w: importance threshold out of range", ErrInvalidConfig))
	}
	if c.Memory.ConflictThreshold < 0 || c.Memory.ConflictThreshold > 1 {
		return NewMemoryError("Validate",
			fmt.Errorf("%w: conflict threshold out of range", ErrInvalidConfig))
	}
	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
//
// Returns:
//   - path: Path to the found file (empty if not found)
//   - found: True if a file was found, false otherwise
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
