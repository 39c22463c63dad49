package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the document Q&A service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Uploads UploadsConfig `yaml:"uploads"`
	LLM     LLMConfig     `yaml:"llm"`
	Query   QueryConfig   `yaml:"query"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Cache   CacheConfig   `yaml:"cache"`
	Watch   WatchConfig   `yaml:"watch"`
	Worker  WorkerConfig  `yaml:"worker"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// UploadsConfig holds raw upload persistence settings.
type UploadsConfig struct {
	Dir         string `yaml:"dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// LLMConfig holds settings for the OpenAI-compatible provider.
type LLMConfig struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	ChatModel      string  `yaml:"chat_model"`
	EmbeddingModel string  `yaml:"embedding_model"`
	Dimensions     int     `yaml:"dimensions"`
	Temperature    float32 `yaml:"temperature"`
}

// QueryConfig holds query dispatch settings.
type QueryConfig struct {
	RetrievalTopK    int     `yaml:"retrieval_top_k"`
	MaxSources       int     `yaml:"max_sources"`
	SourcePreviewLen int     `yaml:"source_preview_len"`
	Confidence       float64 `yaml:"confidence"`
	RefineEnabled    *bool   `yaml:"refine_enabled"`
}

// IngestConfig holds index materialization settings.
type IngestConfig struct {
	ChunkSentences int `yaml:"chunk_sentences"`
	ChunkOverlap   int `yaml:"chunk_overlap"`
}

// CacheConfig holds the optional Redis embedding cache settings.
// An empty addrs list disables the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
}

// WatchConfig holds the optional watch-folder auto-ingestion settings.
// An empty dir disables the watcher.
type WatchConfig struct {
	Dir string `yaml:"dir"`
}

// WorkerConfig holds background materialization pool settings.
type WorkerConfig struct {
	Concurrency int `yaml:"concurrency"`
	QueueSize   int `yaml:"queue_size"`
}

// Load reads configuration for a service (docqa, tabqa) from a YAML
// file by environment name (local, dev, prod).
func Load(service, env string) (Config, error) {
	configPath := findConfigPath(service, env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Query latency is dominated by the chat completion round-trip.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "data"
	}
	if c.Uploads.MaxUploadMB <= 0 {
		c.Uploads.MaxUploadMB = 32
	}
	if c.LLM.ChatModel == "" {
		c.LLM.ChatModel = "gpt-3.5-turbo"
	}
	if c.LLM.EmbeddingModel == "" {
		c.LLM.EmbeddingModel = "text-embedding-3-small"
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.1
	}
	if c.Query.RetrievalTopK <= 0 {
		c.Query.RetrievalTopK = 3
	}
	if c.Query.MaxSources <= 0 {
		c.Query.MaxSources = 2
	}
	if c.Query.SourcePreviewLen <= 0 {
		c.Query.SourcePreviewLen = 100
	}
	if c.Query.Confidence <= 0 {
		c.Query.Confidence = 0.85
	}
	if c.Query.RefineEnabled == nil {
		enabled := true
		c.Query.RefineEnabled = &enabled
	}
	if c.Ingest.ChunkSentences <= 0 {
		c.Ingest.ChunkSentences = 5
	}
	if c.Ingest.ChunkOverlap < 0 {
		c.Ingest.ChunkOverlap = 1
	}
	if c.Worker.Concurrency <= 0 {
		c.Worker.Concurrency = 2
	}
	if c.Worker.QueueSize <= 0 {
		c.Worker.QueueSize = 16
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Query.MaxSources > c.Query.RetrievalTopK {
		return fmt.Errorf(
			"query.max_sources (%d) must not exceed query.retrieval_top_k (%d)",
			c.Query.MaxSources, c.Query.RetrievalTopK,
		)
	}
	if c.Ingest.ChunkOverlap >= c.Ingest.ChunkSentences {
		return fmt.Errorf(
			"ingest.chunk_overlap (%d) must be smaller than ingest.chunk_sentences (%d)",
			c.Ingest.ChunkOverlap, c.Ingest.ChunkSentences,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(service, env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/<service>/
	if path := filepath.Join("config", service, filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", service, filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/<service>/
	return filepath.Join("config", service, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
