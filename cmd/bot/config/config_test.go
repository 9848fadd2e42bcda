package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	content := []byte(`
bot:
  token: "123456:test-token"
  api_url: "https://example.com/events/test"
  check_interval_seconds: 15
  http_timeout_seconds: 5
server:
  host: "127.0.0.1"
  port: 9090
logging:
  level: debug
  format: text
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123456:test-token", cfg.Bot.Token)
	assert.Equal(t, "https://example.com/events/test", cfg.Bot.APIURL)
	assert.Equal(t, 15, cfg.Bot.CheckIntervalSeconds)
	assert.Equal(t, 5, cfg.Bot.HTTPTimeoutSeconds)
	assert.Equal(t, "127.0.0.1:9090", cfg.Address())
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:env-token")
	t.Setenv("TICKET_API_URL", "https://example.com/events/env")
	t.Setenv("CHECK_INTERVAL_SECONDS", "45")
	t.Setenv("PORT", "3000")

	// Несуществующий файл приводит к чтению окружения.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "123456:env-token", cfg.Bot.Token)
	assert.Equal(t, "https://example.com/events/env", cfg.Bot.APIURL)
	assert.Equal(t, 45, cfg.Bot.CheckIntervalSeconds)
	assert.Equal(t, 3000, cfg.Server.Port)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TICKET_API_URL", "")
	t.Setenv("CHECK_INTERVAL_SECONDS", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, PlaceholderToken, cfg.Bot.Token)
	assert.Equal(t, DefaultAPIURL, cfg.Bot.APIURL)
	assert.Equal(t, DefaultCheckIntervalSeconds, cfg.Bot.CheckIntervalSeconds)
	assert.Equal(t, DefaultHTTPTimeoutSeconds, cfg.Bot.HTTPTimeoutSeconds)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)

	// Токен-заглушка не проходит валидацию.
	assert.Error(t, cfg.Validate())
}

func TestLoad_IgnoresInvalidEnvInt(t *testing.T) {
	t.Setenv("CHECK_INTERVAL_SECONDS", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultCheckIntervalSeconds, cfg.Bot.CheckIntervalSeconds)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Bot: BotConfig{
				Token:                "123456:test-token",
				APIURL:               DefaultAPIURL,
				CheckIntervalSeconds: 30,
				HTTPTimeoutSeconds:   10,
			},
			Server: ServerConfig{Host: DefaultServerHost, Port: 8080},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("empty token", func(t *testing.T) {
		cfg := valid()
		cfg.Bot.Token = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty api url", func(t *testing.T) {
		cfg := valid()
		cfg.Bot.APIURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive interval", func(t *testing.T) {
		cfg := valid()
		cfg.Bot.CheckIntervalSeconds = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid port", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Port = 70000
		assert.Error(t, cfg.Validate())
	})
}
