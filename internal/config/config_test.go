package config

import (
	"encoding/base64"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup, like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func setRequiredEnv(t *testing.T) {
	t.Setenv("PORT", "9876")
	t.Setenv("DATABASE_USER", "jobstream")
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_PORT", "5432")
	t.Setenv("DATABASE_NAME", "jobstream")
	t.Setenv("DATABASE_SSL_MODE", "disable")
	t.Setenv("ENV", "DEV")
	t.Setenv("SESSION_KEY", base64.StdEncoding.EncodeToString([]byte("session-key")))
	t.Setenv("JWT_SIGNING_KEY", base64.StdEncoding.EncodeToString([]byte("jwt-key")))
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9876", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, []byte("jwt-key"), cfg.JwtSigningKey)
	assert.Equal(t, []byte("session-key"), cfg.SessionKey)
	assert.Equal(t, 10, cfg.ApplicationsPerPage)
	assert.Equal(t, 20, cfg.MessagesPerPage)
	assert.Equal(t, 5.0, cfg.ChatSendRate)
	assert.Equal(t, 10, cfg.ChatSendBurst)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.ChatAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("MESSAGES_PER_PAGE", "50")
	t.Setenv("CHAT_SEND_RATE", "0.5")
	t.Setenv("CHAT_ALLOWED_ORIGINS", "https://jobstream.dev, http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 50, cfg.MessagesPerPage)
	assert.Equal(t, 0.5, cfg.ChatSendRate)
	assert.Equal(t, []string{"https://jobstream.dev", "http://localhost:3000"}, cfg.ChatAllowedOrigins)
}

func TestLoadConfig_MissingPort(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("PORT", "")

	_, err := LoadConfig()
	assert.EqualError(t, err, "PORT cannot be empty")
}

func TestLoadConfig_BadInt(t *testing.T) {
	chdir(t, t.TempDir())
	setRequiredEnv(t)
	t.Setenv("APPLICATIONS_PER_PAGE", "ten")

	_, err := LoadConfig()
	assert.Error(t, err)
}
