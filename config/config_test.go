package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `environment: "production"

logging:
  level: "debug"
  format: "text"
  output: "stdout"

cache:
  key_secret_capacity: 4
  signer_secret_capacity: 4`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 4, cfg.Cache.KeySecretCapacity)
	assert.Equal(t, 4, cfg.Cache.SignerSecretCapacity)
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "minimal.yaml")

	err := os.WriteFile(configPath, []byte(`environment: "staging"`), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, 2, cfg.Cache.KeySecretCapacity)
	assert.Equal(t, 2, cfg.Cache.SignerSecretCapacity)
	assert.Equal(t, "cojson-key.json", cfg.CLI.DefaultKeyFile)
	assert.Equal(t, "cojson-session.json", cfg.CLI.DefaultSessionFile)
}

func TestLoadFromFileWithEnvVars(t *testing.T) {
	os.Setenv("TEST_LOG_LEVEL_SUB", "warn")
	defer os.Unsetenv("TEST_LOG_LEVEL_SUB")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config-env.yaml")

	configContent := `environment: "development"

logging:
  level: "${TEST_LOG_LEVEL_SUB}"
  format: "json"
  output: "stdout"`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("COJSON_ENV", "production")
	os.Setenv("COJSON_LOG_LEVEL", "debug")
	os.Setenv("COJSON_LOG_FORMAT", "text")
	os.Setenv("COJSON_CACHE_KEY_SECRET_CAPACITY", "8")
	defer func() {
		os.Unsetenv("COJSON_ENV")
		os.Unsetenv("COJSON_LOG_LEVEL")
		os.Unsetenv("COJSON_LOG_FORMAT")
		os.Unsetenv("COJSON_CACHE_KEY_SECRET_CAPACITY")
	}()

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 8, cfg.Cache.KeySecretCapacity)
	assert.Equal(t, 2, cfg.Cache.SignerSecretCapacity)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			cfg: &Config{
				Environment: "production",
				Logging:     LoggingConfig{Level: "info", Format: "json"},
				Cache:       CacheConfig{KeySecretCapacity: 2, SignerSecretCapacity: 2},
			},
			wantErr: false,
		},
		{
			name: "missing environment",
			cfg: &Config{
				Logging: LoggingConfig{Level: "info", Format: "json"},
			},
			wantErr: true,
			errMsg:  "environment is required",
		},
		{
			name: "invalid log level",
			cfg: &Config{
				Environment: "production",
				Logging:     LoggingConfig{Level: "verbose", Format: "json"},
			},
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name: "invalid log format",
			cfg: &Config{
				Environment: "production",
				Logging:     LoggingConfig{Level: "info", Format: "xml"},
			},
			wantErr: true,
			errMsg:  "invalid log format",
		},
		{
			name: "negative cache capacity",
			cfg: &Config{
				Environment: "production",
				Logging:     LoggingConfig{Level: "info", Format: "json"},
				Cache:       CacheConfig{KeySecretCapacity: -1},
			},
			wantErr: true,
			errMsg:  "cache capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "cojson-key.json", cfg.CLI.DefaultKeyFile)
	assert.Equal(t, "cojson-session.json", cfg.CLI.DefaultSessionFile)
	assert.NoError(t, Validate(cfg))
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "round-trip.yaml")

	cfg := Default()
	cfg.Environment = "staging"
	require.NoError(t, SaveToFile(cfg, yamlPath))

	reloaded, err := LoadFromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Environment, reloaded.Environment)
	assert.Equal(t, cfg.Logging, reloaded.Logging)
}

func TestIsProductionMethod(t *testing.T) {
	cfg := &Config{Environment: "Production"}
	assert.True(t, cfg.IsProduction())

	cfg.Environment = "development"
	assert.False(t, cfg.IsProduction())
}
