package remote

import (
	"time"
)

// Config represents remote client configuration.
type Config struct {
	Region           string `yaml:"region"`
	Endpoint         string `yaml:"endpoint"`
	InternalEndpoint string `yaml:"internal_endpoint"`
	ForcePathStyle   bool   `yaml:"force_path_style"`

	// Performance settings
	MaxRetries     int           `yaml:"max_retries"`
	PoolSize       int           `yaml:"pool_size"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// CDN settings. Public container URLs are synthesized as
	// <scheme>://<container>.<domain>.
	CDNDomain    string `yaml:"cdn_domain"`
	CDNSSLDomain string `yaml:"cdn_ssl_domain"`

	// EnableOptimizedUploads routes file uploads through the CargoShip
	// transporter, falling back to the standard client on failure.
	EnableOptimizedUploads bool `yaml:"enable_optimized_uploads"`
}

// NewDefaultConfig returns a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Region:                 "us-east-1",
		ForcePathStyle:         true,
		MaxRetries:             3,
		PoolSize:               8,
		RequestTimeout:         30 * time.Second,
		CDNDomain:              "cdn.attachstore.local",
		EnableOptimizedUploads: false,
	}
}
