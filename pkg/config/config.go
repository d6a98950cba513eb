// Package config loads service configuration from files and environment
// variables via viper. All credentials and endpoint identifiers are
// resolved once at process start; nothing in the pipeline reads the
// environment afterwards.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Graph store configuration
	Graph GraphConfig `mapstructure:"graph"`

	// Vector index configuration
	Index IndexConfig `mapstructure:"index"`

	// Passage snapshot configuration
	Snapshot SnapshotConfig `mapstructure:"snapshot"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Extractor configuration
	Extractor ExtractorConfig `mapstructure:"extractor"`

	// Generation configuration
	Generation GenerationConfig `mapstructure:"generation"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// GraphConfig holds relationship graph store configuration.
type GraphConfig struct {
	Driver   string `mapstructure:"driver"` // neo4j, memory
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// IndexConfig holds vector index endpoint configuration. The deployed
// index must have been built with the same embedding dimensionality as
// the configured encoder or results are meaningless.
type IndexConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	IndexEndpointID string `mapstructure:"index_endpoint_id"`
	DeployedIndexID string `mapstructure:"deployed_index_id"`
	AccessToken     string `mapstructure:"access_token"`
	NeighborCount   int    `mapstructure:"neighbor_count"`
}

// SnapshotConfig holds passage store snapshot configuration.
type SnapshotConfig struct {
	Path      string `mapstructure:"path"`       // JSONL snapshot file
	BadgerDir string `mapstructure:"badger_dir"` // optional persistent store
}

// EmbeddingConfig holds embedding encoder configuration.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"` // local, openai
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
}

// ExtractorConfig holds entity extractor configuration.
type ExtractorConfig struct {
	Backend  string   `mapstructure:"backend"` // service, gliner, rustbert, llm
	Endpoint string   `mapstructure:"endpoint"`
	Model    string   `mapstructure:"model"`
	Labels   []string `mapstructure:"labels"`
}

// GenerationConfig holds hosted LLM configuration.
type GenerationConfig struct {
	Provider    string  `mapstructure:"provider"` // gemini, openai
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// CircuitBreakerConfig holds configuration for circuit breaking around
// the vector index and generation calls.
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// TelemetryConfig holds query telemetry configuration.
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values.
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Graph defaults
	viper.SetDefault("graph.driver", "memory")
	viper.SetDefault("graph.uri", "")
	viper.SetDefault("graph.username", "")
	viper.SetDefault("graph.password", "")
	viper.SetDefault("graph.database", "")

	// Vector index defaults
	viper.SetDefault("index.neighbor_count", 10)

	// Snapshot defaults
	viper.SetDefault("snapshot.path", "embeddings.jsonl")

	// Embedding defaults: the deployed indexes are built with MiniLM
	// vectors, so the local 384-dimension encoder is the default.
	viper.SetDefault("embedding.provider", "local")
	viper.SetDefault("embedding.model", "all-MiniLM-L6-v2")
	viper.SetDefault("embedding.dimensions", 384)

	// Extractor defaults
	viper.SetDefault("extractor.backend", "service")
	viper.SetDefault("extractor.endpoint", "http://localhost:8090")

	// Generation defaults
	viper.SetDefault("generation.provider", "gemini")
	viper.SetDefault("generation.model", "gemini-2.0-flash")
	viper.SetDefault("generation.temperature", 0.7)
	viper.SetDefault("generation.max_tokens", 1024)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables.
func overrideWithEnv(config *Config) {
	// Graph store credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Graph.URI = uri
	}
	if user := os.Getenv("NEO4J_USERNAME"); user != "" {
		config.Graph.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Graph.Password = pass
	}

	// Generation credentials
	if key := os.Getenv("GEMINI_KEY"); key != "" && config.Generation.Provider == "gemini" {
		config.Generation.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if config.Generation.Provider == "openai" {
			config.Generation.APIKey = key
		}
		if config.Embedding.Provider == "openai" {
			config.Embedding.APIKey = key
		}
	}

	// Vector index access token
	if token := os.Getenv("INDEX_ACCESS_TOKEN"); token != "" {
		config.Index.AccessToken = token
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
