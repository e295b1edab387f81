package utils

import (
	"maps"
	"strconv"
	"strings"
	"time"
)

// Config is a read-only view over the widget and gateway settings loaded from .env files. It is
// safe for concurrent use
type Config struct {
	values map[string]string
}

// NewConfig creates a new Config instance with the provided key-value pairs
func NewConfig(values map[string]string) *Config {
	config := &Config{
		values: make(map[string]string),
	}

	maps.Copy(config.values, values)

	return config
}

// NewConfigFromEnv creates a new Config instance by loading environment variables
// from the specified .env files (see LoadEnv)
func NewConfigFromEnv(files ...string) *Config {
	return NewConfig(LoadEnv(files...))
}

// lookup returns the raw value and whether the key was present
func (c *Config) lookup(key string) (string, bool) {
	value, exists := c.values[key]
	return value, exists
}

// Get retrieves a configuration value by key
// Returns empty string if key doesn't exist
func (c *Config) Get(key string) string {
	value, _ := c.lookup(key)
	return value
}

// GetWithDefault retrieves a configuration value by key with a fallback default
func (c *Config) GetWithDefault(key, defaultValue string) string {
	if value, exists := c.lookup(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// GetList splits a comma separated value into trimmed, non-empty items
func (c *Config) GetList(key string, defaultValue ...string) []string {
	value := c.Get(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return defaultValue
	}
	return items
}

// parseBool accepts strconv booleans plus a handful of common switch words
func parseBool(value string) bool {
	parsed, err := strconv.ParseBool(value)
	if err == nil {
		return parsed
	}

	switch strings.ToLower(value) {
	case "yes", "on", "enabled":
		return true
	default:
		return false
	}
}

// GetBool retrieves a configuration value as a boolean
// Returns false if key doesn't exist or cannot be parsed as boolean
func (c *Config) GetBool(key string) bool {
	return parseBool(c.Get(key))
}

// GetDurationWithDefault retrieves a configuration value as a duration with a fallback default.
// Missing, empty and unparsable values all use the default
func (c *Config) GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(c.Get(key))
	if value == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
