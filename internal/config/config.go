package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/attachstore/attachstore/internal/metrics"
	"github.com/attachstore/attachstore/internal/remote"
)

// Configuration represents the complete backend activation configuration.
// Configuration and credential errors are fatal at activation time.
type Configuration struct {
	Global  GlobalConfig   `yaml:"global"`
	Backend BackendConfig  `yaml:"backend"`
	Remote  remote.Config  `yaml:"remote"`
	Metrics metrics.Config `yaml:"metrics"`
}

// GlobalConfig represents global settings.
type GlobalConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

// BackendConfig represents per-backend settings supplied by the host
// framework's options.
type BackendConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	Container       string `yaml:"container"`
	PathTemplate    string `yaml:"path_template"`
	SSL             bool   `yaml:"ssl"`
}

// NewDefault returns a configuration with sensible defaults.
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			Environment: "development",
			LogLevel:    "INFO",
		},
		Backend: BackendConfig{
			PathTemplate: "attachments/:style",
			SSL:          false,
		},
		Remote:  *remote.NewDefaultConfig(),
		Metrics: *metrics.NewDefaultConfig(),
	}
}

// LoadFromFile loads configuration from a YAML file.
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv loads configuration overrides from environment variables.
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("ATTACHSTORE_ENVIRONMENT"); val != "" {
		c.Global.Environment = val
	}
	if val := os.Getenv("ATTACHSTORE_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("ATTACHSTORE_CREDENTIALS_FILE"); val != "" {
		c.Backend.CredentialsFile = val
	}
	if val := os.Getenv("ATTACHSTORE_CONTAINER"); val != "" {
		c.Backend.Container = val
	}
	if val := os.Getenv("ATTACHSTORE_PATH_TEMPLATE"); val != "" {
		c.Backend.PathTemplate = val
	}
	if val := os.Getenv("ATTACHSTORE_SSL"); val != "" {
		c.Backend.SSL = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("ATTACHSTORE_REMOTE_ENDPOINT"); val != "" {
		c.Remote.Endpoint = val
	}
	if val := os.Getenv("ATTACHSTORE_REMOTE_REGION"); val != "" {
		c.Remote.Region = val
	}
	if val := os.Getenv("ATTACHSTORE_CDN_DOMAIN"); val != "" {
		c.Remote.CDNDomain = val
	}
	if val := os.Getenv("ATTACHSTORE_POOL_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			c.Remote.PoolSize = size
		}
	}
	if val := os.Getenv("ATTACHSTORE_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Metrics.Port = port
		}
	}

	return nil
}

// Validate validates the configuration.
func (c *Configuration) Validate() error {
	if c.Backend.Container == "" {
		return fmt.Errorf("backend container name must be set")
	}

	if c.Backend.PathTemplate == "" {
		return fmt.Errorf("backend path_template must be set")
	}
	if !strings.Contains(c.Backend.PathTemplate, ":style") {
		return fmt.Errorf("backend path_template must contain the :style token")
	}

	if c.Remote.PoolSize <= 0 {
		return fmt.Errorf("remote pool_size must be greater than 0")
	}
	if c.Remote.MaxRetries < 0 {
		return fmt.Errorf("remote max_retries cannot be negative")
	}
	if c.Remote.CDNDomain == "" {
		return fmt.Errorf("remote cdn_domain must be set")
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	logLevelValid := false
	for _, level := range validLogLevels {
		if c.Global.LogLevel == level {
			logLevelValid = true
			break
		}
	}
	if !logLevelValid {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.Global.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}
