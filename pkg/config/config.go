// Package config loads the assistant configuration from YAML with
// environment-variable fallbacks for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel   = "openai/gpt-oss-120b"
	DefaultBaseURL = "https://api.groq.com/openai/v1"
)

// Duration wraps time.Duration so YAML can carry values like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the application configuration.
type Config struct {
	// LLM provider
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`

	// Storage
	PlansDir string       `yaml:"plans_dir"`
	Memory   MemoryConfig `yaml:"memory"`

	// Turn handling
	ResponseTimeout Duration `yaml:"response_timeout"`

	// Observability sidecar
	Metrics MetricsConfig `yaml:"metrics"`
}

// MemoryConfig selects and parameterizes the memory backend.
type MemoryConfig struct {
	Backend       string `yaml:"backend"` // file, redis
	Dir           string `yaml:"dir"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// MetricsConfig controls the metrics/health HTTP server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads configuration from a YAML file. An empty path or a missing file
// yields pure defaults, so the binary runs with nothing but an API key in
// the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Model == "" {
		c.Model = os.Getenv("MODEL_NAME")
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PlansDir == "" {
		c.PlansDir = "plans"
	}
	if c.Memory.Backend == "" {
		c.Memory.Backend = "file"
	}
	if c.Memory.Dir == "" {
		c.Memory.Dir = "memories"
	}
	if c.Memory.RedisAddr == "" {
		c.Memory.RedisAddr = "localhost:6379"
	}
	if c.ResponseTimeout == 0 {
		c.ResponseTimeout = Duration(30 * time.Second)
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 9090
	}
}

// Save writes the configuration to a YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required: set GROQ_API_KEY or api_key in the config file")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	switch c.Memory.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown memory backend %q: expected file or redis", c.Memory.Backend)
	}
	return nil
}
