package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL      = "https://cardano-mainnet.blockfrost.io/api/v0"
	DefaultProjectIDEnv = "BLOCKFROST_PROJECT_ID"
)

type Config struct {
	API   APIConfig   `yaml:"api"`
	Audit AuditConfig `yaml:"audit"`
	NATS  NATSConfig  `yaml:"nats"`
}

// APIConfig describes the Blockfrost-compatible endpoint.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`

	// ProjectID is the Blockfrost project id. If empty it is read from
	// the environment variable named by ProjectIDEnv.
	ProjectID    string `yaml:"project_id"`
	ProjectIDEnv string `yaml:"project_id_env"`

	RequestTimeout time.Duration   `yaml:"request_timeout"`
	MaxRetries     int             `yaml:"max_retries"`
	RetryDelay     time.Duration   `yaml:"retry_delay"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type AuditConfig struct {
	PageSize int `yaml:"page_size"`

	// PauseBetweenCalls is slept after every network call, on top of
	// the client rate limiter. Blockfrost free-tier quotas are easy to
	// exhaust without it.
	PauseBetweenCalls time.Duration `yaml:"pause_between_calls"`

	// MaxTransactions caps how many located transactions are audited.
	// 0 means no cap.
	MaxTransactions int `yaml:"max_transactions"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Default returns a config usable without any file, still requiring a
// project id from the environment.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads YAML from path, applies defaults, resolves the project id
// from the environment and validates. An empty path yields Default().
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.resolveProjectID()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.ProjectIDEnv == "" {
		c.API.ProjectIDEnv = DefaultProjectIDEnv
	}
	if c.API.RequestTimeout <= 0 {
		c.API.RequestTimeout = 30 * time.Second
	}
	if c.API.MaxRetries <= 0 {
		c.API.MaxRetries = 3
	}
	if c.API.RetryDelay <= 0 {
		c.API.RetryDelay = 1 * time.Second
	}
	if c.API.RateLimit.RequestsPerSecond <= 0 {
		c.API.RateLimit.RequestsPerSecond = 10
	}
	if c.API.RateLimit.BurstSize <= 0 {
		c.API.RateLimit.BurstSize = 10
	}
	if c.Audit.PageSize <= 0 {
		c.Audit.PageSize = 100
	}
	if c.Audit.PauseBetweenCalls < 0 {
		c.Audit.PauseBetweenCalls = 0
	} else if c.Audit.PauseBetweenCalls == 0 {
		c.Audit.PauseBetweenCalls = 100 * time.Millisecond
	}
}

func (c *Config) resolveProjectID() {
	if c.API.ProjectID == "" {
		c.API.ProjectID = os.Getenv(c.API.ProjectIDEnv)
	}
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be http(s), got %q", c.API.BaseURL)
	}
	if c.API.ProjectID == "" {
		return errors.New("missing Blockfrost project id: set api.project_id or " + c.API.ProjectIDEnv)
	}
	if c.Audit.MaxTransactions < 0 {
		return errors.New("audit.max_transactions must be >= 0")
	}
	return nil
}
