package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	MaxTokens int    `toml:"max_tokens"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// StorageConfig selects where graph snapshots live. For the file backend
// Path is a filesystem path; for s3 it is the object name under Prefix.
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

type QueryConfig struct {
	MaxDepth    int    `toml:"max_depth"`
	Synthesizer string `toml:"synthesizer"`
	Prompt      string `toml:"prompt"`
}

type SchemaConfig struct {
	Path   string `toml:"path"`
	Strict bool   `toml:"strict"`
}

type ConcurrencyConfig struct {
	BulkIngest int `toml:"bulk_ingest"`
}

type LoggingConfig struct {
	Debug bool `toml:"debug"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Memgraph    MemgraphConfig    `toml:"memgraph"`
	Storage     StorageConfig     `toml:"storage"`
	Query       QueryConfig       `toml:"query"`
	Schema      SchemaConfig      `toml:"schema"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Logging     LoggingConfig     `toml:"logging"`
}

const (
	StorageFile = "file"
	StorageS3   = "s3"

	SynthesizerStub = "stub"
	SynthesizerLLM  = "llm"
)

// Default returns a configuration that works without any external service.
func Default() *Config {
	return &Config{
		LLM:         LLMConfig{Provider: "openai", Model: "gpt-4o-mini"},
		Storage:     StorageConfig{Backend: StorageFile, Path: "data/knowledge_graph/biomedical_kg.json"},
		Query:       QueryConfig{MaxDepth: 1, Synthesizer: SynthesizerStub},
		Concurrency: ConcurrencyConfig{BulkIngest: 4},
	}
}

// Load reads path on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageS3:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == StorageS3 && c.Storage.Bucket == "" {
		return fmt.Errorf("storage backend s3 requires a bucket")
	}
	switch c.Query.Synthesizer {
	case SynthesizerStub, SynthesizerLLM:
	default:
		return fmt.Errorf("unknown synthesizer %q", c.Query.Synthesizer)
	}
	if c.Concurrency.BulkIngest < 1 {
		c.Concurrency.BulkIngest = 1
	}
	return nil
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	setString(&c.Storage.Path, "KG_PATH")
	setString(&c.Storage.Backend, "KG_STORAGE")
	setString(&c.Storage.Bucket, "AWS_BUCKET")
	setString(&c.Storage.Region, "AWS_REGION")
	setString(&c.Storage.Endpoint, "AWS_ENDPOINT")
	setString(&c.Storage.AccessKey, "AWS_ACCESS_KEY")
	setString(&c.Storage.SecretKey, "AWS_SECRET_KEY")

	if v, ok := os.LookupEnv("DEBUG"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Logging.Debug = b
		}
	}
}
