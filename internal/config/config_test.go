package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.NotifyBackend)
	assert.Equal(t, 8, cfg.StatsFanout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Location().String())
	assert.True(t, cfg.IsDevelopment())
}

func TestFromEnv_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := FromEnv()

	assert.Error(t, err)
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"backend", "NOTIFY_BACKEND", "kafka"},
		{"env", "APP_ENV", "staging"},
		{"log level", "LOG_LEVEL", "verbose"},
		{"fanout", "STATS_FANOUT", "0"},
		{"timezone", "APP_TIMEZONE", "Mars/Olympus"},
		{"duration", "NOTIFY_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/ledger")
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()

			assert.Error(t, err)
		})
	}
}

func TestFromEnv_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ledger")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=postgres://from-file/ledger\nSTATS_FANOUT=3\n"), 0o600))
	t.Chdir(dir)
	// registered so both are restored after godotenv sets them
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STATS_FANOUT", "")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("STATS_FANOUT")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://from-file/ledger", cfg.DatabaseURL)
	assert.Equal(t, 3, cfg.StatsFanout)
}
