package utils

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from multiple .env files
// Returns a map of the process environment after loading. Values already set in the
// environment are never overwritten by a file
func LoadEnv(files ...string) map[string]string {
	config := make(map[string]string)

	// Load each file in order, skipping files that don't exist
	for _, file := range files {
		if file == "" {
			continue
		}
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				log.Printf("[UTILS]: Warning, could not load %s: %v", file, err)
			}
		}
	}

	// Read all environment variables into map
	for _, env := range os.Environ() {
		key, value, found := strings.Cut(env, "=")
		if found && key != "" {
			config[key] = value
		}
	}

	return config
}

// LoadServiceConfig loads configuration for a named binary. ENV_FILE wins when set, then the
// service-specific .env.<name> file, then the shared .env file
func LoadServiceConfig(name string) *Config {
	return NewConfigFromEnv(os.Getenv("ENV_FILE"), ".env."+name, ".env")
}
