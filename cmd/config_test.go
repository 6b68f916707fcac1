package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	config, err := configFromEnv(lookupFrom(nil))

	require.NoError(t, err)
	assert.Equal(t, "8080", config.HTTPPort)
	assert.Equal(t, "disable", config.DBSslMode)
	assert.Equal(t, 10*time.Second, config.DispatchInterval)
	assert.Equal(t, 5*time.Second, config.DispatchTickTimeout)
	assert.Equal(t, slog.LevelInfo, config.LogLevel)
}

func TestConfigFromEnv_Values(t *testing.T) {
	config, err := configFromEnv(lookupFrom(map[string]string{
		"HTTP_PORT":             "9090",
		"DB_HOST":               "db",
		"DB_PORT":               "5432",
		"DB_USER":               "marketplace",
		"DB_PASSWORD":           "secret",
		"DB_NAME":               "orders",
		"DB_SSLMODE":            "require",
		"DISPATCH_INTERVAL":     "2s",
		"DISPATCH_TICK_TIMEOUT": "0",
		"LOG_LEVEL":             "debug",
	}))

	require.NoError(t, err)
	assert.Equal(t, "9090", config.HTTPPort)
	assert.Equal(t, 2*time.Second, config.DispatchInterval)
	assert.Zero(t, config.DispatchTickTimeout)
	assert.Equal(t, slog.LevelDebug, config.LogLevel)
	assert.Equal(t, "host=db port=5432 user=marketplace password=secret dbname=orders sslmode=require", config.DSN())
}

func TestConfigFromEnv_InvalidValues(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"interval below one second", map[string]string{"DISPATCH_INTERVAL": "500ms"}, errs.ErrValueIsOutOfRange},
		{"interval above one hour", map[string]string{"DISPATCH_INTERVAL": "2h"}, errs.ErrValueIsOutOfRange},
		{"unparsable interval", map[string]string{"DISPATCH_INTERVAL": "often"}, errs.ErrValueIsInvalid},
		{"negative tick timeout", map[string]string{"DISPATCH_TICK_TIMEOUT": "-1s"}, errs.ErrValueIsOutOfRange},
		{"unknown log level", map[string]string{"LOG_LEVEL": "chatty"}, errs.ErrValueIsInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := configFromEnv(lookupFrom(tc.env))

			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLoadConfig_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("DISPATCH_INTERVAL", "3s")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, config.DispatchInterval)
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	t.Setenv("DB_NAME", "")
	require.NoError(t, os.Unsetenv("DB_NAME"))
	t.Setenv("DB_HOST", "from-environment")

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("DB_NAME=from-file\nDB_HOST=from-file\n"), 0o600))

	config, err := LoadConfig(file)

	require.NoError(t, err)
	assert.Equal(t, "from-file", config.DBName)
	assert.Equal(t, "from-environment", config.DBHost)
}
