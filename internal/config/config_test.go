package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Database.Environment)
	assert.Equal(t, "emails.db", cfg.Database.File)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "Quote of the Day", cfg.Email.Subject)
	assert.Equal(t, "smtp.gmail.com", cfg.Email.SMTP.Host)
	assert.Equal(t, 465, cfg.Email.SMTP.Port)
	assert.True(t, cfg.Email.SMTP.SSL)
	assert.Equal(t, "https://zenquotes.io/api/quotes", cfg.Quotes.URL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Redis.LockTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `database:
  environment: prod
  uri: postgres://mailer@db/mailer
  connect_timeout: 2s
email:
  subject: Daily Wisdom
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Database.Environment)
	assert.Equal(t, "postgres://mailer@db/mailer", cfg.Database.URI)
	assert.Equal(t, 2*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, "Daily Wisdom", cfg.Email.Subject)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_PrefixedEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("email:\n  subject: From File\n"), 0644))

	t.Setenv("MAILER_EMAIL_SUBJECT", "From Env")
	t.Setenv("MAILER_REDIS_ENABLED", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Email.Subject)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Setenv("DB_CONFIG", "production")
	t.Setenv("DATABASE_URI", "postgres://legacy@db/mailer")
	t.Setenv("GMAIL_ADDRESS", "me@gmail.com")
	t.Setenv("GMAIL_PASSWORD", "app-password")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Database.Environment)
	assert.Equal(t, "postgres://legacy@db/mailer", cfg.Database.URI)
	assert.Equal(t, "me@gmail.com", cfg.Email.SenderAddress)
	assert.Equal(t, "me@gmail.com", cfg.Email.SMTP.Username)
	assert.Equal(t, "app-password", cfg.Email.SMTP.Password)
}

func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("DB_CONFIG", "production")
	t.Setenv("MAILER_DATABASE_ENVIRONMENT", "dev")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Database.Environment)
}

func TestSaveEnv_CreatesAndMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, SaveEnv(path, map[string]string{
		"GMAIL_ADDRESS": "me@gmail.com",
		"DB_CONFIG":     "development",
	}))
	require.NoError(t, SaveEnv(path, map[string]string{
		"DB_CONFIG": "production",
	}))

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"GMAIL_ADDRESS": "me@gmail.com",
		"DB_CONFIG":     "production",
	}, env)
}
