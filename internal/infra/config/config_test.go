package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
telegram_bot:
  token: from-file
database:
  host: localhost
  port: "5432"
  user: bot
  dbname: assessment
files:
  catalog: configs/catalog.yaml
session:
  idle_ttl: 30m
admins: [root_admin]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.TelegramBot.Token)
	assert.Equal(t, ModePolling, cfg.TelegramBot.Mode)
	assert.Equal(t, 10*time.Second, cfg.TelegramBot.PollTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres://bot:@localhost:5432/assessment", cfg.DatabaseURL())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("EMAIL_PASSWORD", "mail-secret")

	cfg, err := LoadConfig(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.TelegramBot.Token)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "mail-secret", cfg.Email.Password)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, err := LoadConfig(writeConfig(t, "telegram_bot:\n  mode: carrier-pigeon\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram bot token is not set")
	assert.Contains(t, err.Error(), "database name is not set")
	assert.Contains(t, err.Error(), "unknown bot mode")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{Admins: []string{"root_admin"}}
	assert.True(t, cfg.IsAdmin("root_admin"))
	assert.False(t, cfg.IsAdmin("guest"))
	assert.False(t, cfg.IsAdmin(""))
}
