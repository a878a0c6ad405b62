package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_INVALID", "forty-two")

	assert.Equal(t, 42, getenvInt("TEST_INT", 7))
	assert.Equal(t, 7, getenvInt("TEST_INT_INVALID", 7))
	assert.Equal(t, 7, getenvInt("TEST_INT_MISSING", 7))
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "status.example", expected: []string{"status.example"}},
		{name: "spaces and quotes", input: ` "a.example" , 'b.example',, c `, expected: []string{"a.example", "b.example", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.NotNil(t, cfg)
	assert.Equal(t, ":8080", cfg.ListenPort)
	assert.Equal(t, "/app/instances.json", cfg.InstanceFile)
	assert.Equal(t, time.Minute, cfg.CheckTick)
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, "directory:uptime:data", cfg.UptimeKey)
	assert.Equal(t, time.Hour, cfg.DiscoveryTTL)
	assert.Equal(t, 3, cfg.BreakerTrip)
	assert.False(t, cfg.UseRedis())
	assert.False(t, cfg.OTelEnabled)
	assert.Nil(t, cfg.AllowedHosts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DIRECTORY_INSTANCE_FILE", "/etc/directory/instances.yaml")
	t.Setenv("DIRECTORY_CHECK_TICK", "30s")
	t.Setenv("DIRECTORY_ALLOWED_HOSTS", "status.example, *.status.example")
	t.Setenv("DIRECTORY_ALLOWED_CIDRS", "10.0.0.0/8")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")

	cfg := Load()

	assert.Equal(t, "/etc/directory/instances.yaml", cfg.InstanceFile)
	assert.Equal(t, 30*time.Second, cfg.CheckTick)
	assert.Equal(t, []string{"status.example", "*.status.example"}, cfg.AllowedHosts)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.AllowedCIDRS)
	assert.True(t, cfg.UseRedis())
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadPanicsOnInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero check tick", env: map[string]string{"DIRECTORY_CHECK_TICK": "0s"}},
		{name: "negative probe timeout", env: map[string]string{"DIRECTORY_PROBE_TIMEOUT": "-1s"}},
		{name: "missing redis password", env: map[string]string{
			"REDIS_ADDR":              "redis:6379",
			"REDIS_PASSWORD_REQUIRED": "true",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Panics(t, func() { Load() })
		})
	}
}
