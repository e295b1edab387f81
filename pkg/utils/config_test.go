package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Empty(t, config.Get("CHAT_BACKEND"))
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"CHAT_BACKEND": "gemini",
			"API_PORT":     "8080",
		}
		config := NewConfig(values)

		assert.Equal(t, "gemini", config.Get("CHAT_BACKEND"))
		assert.Equal(t, "8080", config.Get("API_PORT"))

		// Verify it's a copy, not a reference
		values["CHAT_BACKEND"] = "openai"
		assert.Equal(t, "gemini", config.Get("CHAT_BACKEND"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CHATWIDGET_TEST_KEY=from_file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("CHATWIDGET_TEST_KEY") })

	config := NewConfigFromEnv(envFile, filepath.Join(t.TempDir(), "missing.env"))

	require.NotNil(t, config)
	assert.Equal(t, "from_file", config.Get("CHATWIDGET_TEST_KEY"))
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"existing key", "existing", "value"},
		{"non-existing key", "missing", "default"},
		{"empty value key", "empty", "default"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetWithDefault(test.key, "default"))
		})
	}
}

func TestConfigGetList(t *testing.T) {
	config := NewConfig(map[string]string{
		"origins": "http://localhost:3000, https://example.com ,,",
		"single":  "*",
		"blank":   " , ",
	})

	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, config.GetList("origins"))
	assert.Equal(t, []string{"*"}, config.GetList("single"))
	assert.Equal(t, []string{"fallback"}, config.GetList("blank", "fallback"))
	assert.Nil(t, config.GetList("missing"))
}

func TestConfigGetBool(t *testing.T) {
	config := NewConfig(map[string]string{
		"true_bool":      "true",
		"false_bool":     "false",
		"true_1":         "1",
		"false_0":        "0",
		"true_yes":       "yes",
		"true_upper":     "YES",
		"false_no":       "no",
		"true_on":        "on",
		"false_off":      "off",
		"true_enabled":   "enabled",
		"false_disabled": "disabled",
		"invalid":        "invalid_bool",
		"empty":          "",
	})

	tests := []struct {
		key      string
		expected bool
	}{
		{"true_bool", true},
		{"false_bool", false},
		{"true_1", true},
		{"false_0", false},
		{"true_yes", true},
		{"true_upper", true},
		{"false_no", false},
		{"true_on", true},
		{"false_off", false},
		{"true_enabled", true},
		{"false_disabled", false},
		{"invalid", false},
		{"empty", false},
		{"missing", false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetBool(test.key), "GetBool(%s)", test.key)
		})
	}
}

func TestConfigGetDuration(t *testing.T) {
	config := NewConfig(map[string]string{
		"seconds":  "30",
		"duration": "1m30s",
		"millis":   "40ms",
		"invalid":  "soon",
		"empty":    "",
	})

	tests := []struct {
		key      string
		expected time.Duration
	}{
		{"seconds", 30 * time.Second},
		{"duration", 90 * time.Second},
		{"millis", 40 * time.Millisecond},
		{"invalid", 5 * time.Second},
		{"empty", 5 * time.Second},
		{"missing", 5 * time.Second},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetDurationWithDefault(test.key, 5*time.Second))
		})
	}
}

func TestConfigConcurrentReads(t *testing.T) {
	config := NewConfig(map[string]string{
		"CHAT_STREAM":          "true",
		"CHAT_TIMEOUT":         "30s",
		"CORS_ALLOWED_ORIGINS": "a,b",
	})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.True(t, config.GetBool("CHAT_STREAM"))
				assert.Equal(t, 30*time.Second, config.GetDurationWithDefault("CHAT_TIMEOUT", 0))
				assert.Len(t, config.GetList("CORS_ALLOWED_ORIGINS"), 2)
			}
		}()
	}
	wg.Wait()
}

func TestLoadServiceConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV_FILE", "")

	require.NoError(t, os.WriteFile(".env.widget", []byte("CHATWIDGET_SERVICE_KEY=service\n"), 0644))
	require.NoError(t, os.WriteFile(".env", []byte("CHATWIDGET_SERVICE_KEY=shared\nCHATWIDGET_SHARED_KEY=shared\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("CHATWIDGET_SERVICE_KEY")
		os.Unsetenv("CHATWIDGET_SHARED_KEY")
	})

	config := LoadServiceConfig("widget")
	assert.Equal(t, "service", config.Get("CHATWIDGET_SERVICE_KEY"))
	assert.Equal(t, "shared", config.Get("CHATWIDGET_SHARED_KEY"))
}
