package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DL_API_KEY", "COLORIZE_ENDPOINT", "COLORIZE_BACKEND", "HTTP_TIMEOUT", "LOG_LEVEL", "PROJECT", "LOCATION", "MODEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		dotenv  string
		check   func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Endpoint)
				assert.Equal(t, BackendDeepAI, cfg.Backend)
				assert.Equal(t, 2*time.Minute, cfg.Timeout)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Empty(t, cfg.APIKey)
				assert.NotEmpty(t, cfg.HomeDir)
			},
		},
		{
			name: "environment_overrides",
			env: map[string]string{
				"DL_API_KEY":        "secret",
				"COLORIZE_ENDPOINT": "http://localhost:9999/colorize",
				"HTTP_TIMEOUT":      "5s",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "secret", cfg.APIKey)
				assert.Equal(t, "http://localhost:9999/colorize", cfg.Endpoint)
				assert.Equal(t, 5*time.Second, cfg.Timeout)
			},
		},
		{
			name:   "dotenv_file",
			dotenv: "DL_API_KEY=from-file\nCOLORIZE_BACKEND=gemini\nPROJECT=my-project\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-file", cfg.APIKey)
				assert.Equal(t, BackendGemini, cfg.Backend)
				assert.Equal(t, "my-project", cfg.Project)
			},
		},
		{
			name:    "unknown_backend",
			env:     map[string]string{"COLORIZE_BACKEND": "magic"},
			wantErr: "unknown colorize backend",
		},
		{
			name:    "bad_timeout",
			env:     map[string]string{"HTTP_TIMEOUT": "soon"},
			wantErr: "parsing environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			envFile := ""
			if tt.dotenv != "" {
				envFile = filepath.Join(t.TempDir(), "test.env")
				require.NoError(t, os.WriteFile(envFile, []byte(tt.dotenv), 0o644))
			}

			cfg, err := Load(envFile)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading env file")
}

func TestLoadMissingDefaultEnvFile(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendDeepAI, cfg.Backend)
}

func TestLoadWithoutHome(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "")
	require.NoError(t, os.Unsetenv("HOME"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.HomeDir)
}
