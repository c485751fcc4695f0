// Package config loads and validates attachstore activation configuration
// from YAML files and ATTACHSTORE_* environment variables.
package config
