package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/conveyorhq/conveyor/internal/redis"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func getConfigLocations() []string {
	return []string{
		// Relative paths
		".env",
		".conveyor.yaml",
		"config/conveyor.yaml",
		"config/conveyor/config.yaml",
		"config/conveyor/.env",

		// Container-friendly absolute paths
		"/config/conveyor.yaml",
		"/config/conveyor/config.yaml",
		"/config/conveyor/.env",
	}
}

type Flags struct {
	Config string
}

// OptionalString is a string value that tracks whether it was set at all,
// so an explicitly empty value stays distinct from an absent one.
type OptionalString struct {
	Value string
	Set   bool
}

func (s *OptionalString) UnmarshalYAML(node *yaml.Node) error {
	s.Set = true
	return node.Decode(&s.Value)
}

type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Redis connection profile. AppEnv selects it; the URL values are
	// usually provided by the environment but may come from a config file.
	// The URLs bypass caarlos0/env (see applyRedisURLs): it cannot assign a
	// set-but-empty value, and it trips over non-nil pointer fields.
	AppEnv          string         `yaml:"app_env" env:"APP_ENV"`
	RedisURLPublic  OptionalString `yaml:"redis_url_public"`
	RedisURLPrivate OptionalString `yaml:"redis_url_private"`

	// Queue worker
	Queue                  string `yaml:"queue" env:"QUEUE_NAME"`
	Concurrency            int    `yaml:"concurrency" env:"QUEUE_CONCURRENCY"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds" env:"SHUTDOWN_TIMEOUT_SECONDS"`

	configPath  string
	osInterface OSInterface
}

var (
	ErrMissingQueue           = errors.New("queue name must not be empty")
	ErrInvalidConcurrency     = errors.New("concurrency must be at least 1")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must not be negative")
)

func (c *Config) initDefaults() {
	c.LogLevel = "info"
	c.Queue = "default"
	c.Concurrency = 10
	c.ShutdownTimeoutSeconds = 30
}

func (c *Config) parseConfigFile(flagPath string, osInterface OSInterface) error {
	// Get config file path from flag or env
	configPath := flagPath
	if envPath := osInterface.Getenv("CONFIG"); envPath != "" {
		if configPath != "" && configPath != envPath {
			return fmt.Errorf("conflicting config paths: flag=%s env=%s", configPath, envPath)
		}
		configPath = envPath
	}

	// If no explicit config path, try default locations
	if configPath == "" {
		for _, loc := range getConfigLocations() {
			if _, err := osInterface.Stat(loc); err == nil {
				configPath = loc
				break
			}
		}
	}

	if configPath == "" {
		return nil
	}
	c.configPath = configPath

	data, err := osInterface.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	// Parse based on file extension
	if strings.HasSuffix(strings.ToLower(configPath), ".env") {
		envMap, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return fmt.Errorf("error loading .env file: %w", err)
		}
		if err := env.ParseWithOptions(c, env.Options{
			Environment: envMap,
		}); err != nil {
			return fmt.Errorf("error parsing .env file: %w", err)
		}
		c.applyRedisURLs(func(key string) (string, bool) {
			value, ok := envMap[key]
			return value, ok
		})
	} else {
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("error parsing yaml config: %w", err)
		}
	}
	return nil
}

func (c *Config) parseEnvVariables(osInterface OSInterface) error {
	if err := env.ParseWithOptions(c, env.Options{
		Environment: environMap(osInterface),
	}); err != nil {
		return fmt.Errorf("error parsing environment variables: %w", err)
	}
	c.applyRedisURLs(osInterface.LookupEnv)
	return nil
}

// applyRedisURLs layers the raw profile URLs by hand. A key present in the
// layer overrides earlier layers; an absent key leaves them untouched.
func (c *Config) applyRedisURLs(lookup func(key string) (string, bool)) {
	if value, ok := lookup(redis.KeyPublicURL); ok {
		c.RedisURLPublic = OptionalString{Value: value, Set: true}
	}
	if value, ok := lookup(redis.KeyPrivateURL); ok {
		c.RedisURLPrivate = OptionalString{Value: value, Set: true}
	}
}

func environMap(osInterface OSInterface) map[string]string {
	environ := osInterface.Environ()
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if idx := strings.Index(kv, "="); idx != -1 {
			m[kv[:idx]] = kv[idx+1:]
		}
	}
	return m
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Queue == "" {
		return ErrMissingQueue
	}
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.ShutdownTimeoutSeconds < 0 {
		return ErrInvalidShutdownTimeout
	}
	return nil
}

func Parse(flags Flags) (*Config, error) {
	return ParseWithOS(flags, defaultOS)
}

func ParseWithOS(flags Flags, osInterface OSInterface) (*Config, error) {
	var config Config
	config.osInterface = osInterface

	// Initialize defaults
	config.initDefaults()

	// Parse config file
	if err := config.parseConfigFile(flags.Config, osInterface); err != nil {
		return nil, err
	}

	// Parse environment variables (highest priority)
	if err := config.parseEnvVariables(osInterface); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ConfigFilePath returns the config file the values were loaded from, or ""
// when only defaults and environment variables were used.
func (c *Config) ConfigFilePath() string {
	return c.configPath
}

var _ redis.ConnectionSource = (*Config)(nil)

// Lookup implements redis.ConnectionSource over the parsed configuration,
// falling through to the process environment for keys the struct does not
// model.
func (c *Config) Lookup(key string) (string, bool) {
	switch key {
	case redis.EnvDeploymentMode:
		if c.AppEnv == "" {
			return "", false
		}
		return c.AppEnv, true
	case redis.KeyPublicURL:
		return c.RedisURLPublic.Value, c.RedisURLPublic.Set
	case redis.KeyPrivateURL:
		return c.RedisURLPrivate.Value, c.RedisURLPrivate.Set
	}
	if c.osInterface == nil {
		return defaultOS.LookupEnv(key)
	}
	return c.osInterface.LookupEnv(key)
}
