// Package config предоставляет конфигурацию бота проверки билетов.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// BotConfig содержит настройки Telegram-бота и опроса API билетов.
type BotConfig struct {
	Token                string `yaml:"token"`
	APIURL               string `yaml:"api_url"`
	CheckIntervalSeconds int    `yaml:"check_interval_seconds"`
	HTTPTimeoutSeconds   int    `yaml:"http_timeout_seconds"`
}

// ServerConfig содержит настройки HTTP-сервера проверки работоспособности.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Config содержит конфигурацию всего приложения.
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// Load загружает конфигурацию из YAML-файла, а при его отсутствии —
// из переменных окружения (с учетом .env файла).
func Load(filename string) (*Config, error) {
	// Если .env файла нет, это нормально: полагаемся на окружение или YAML.
	_ = godotenv.Load()

	cfg, err := loadFromYAML(filename)
	if err != nil {
		cfg = loadFromEnv()
	}

	applyDefaults(cfg)
	return cfg, nil
}

// loadFromYAML загружает конфигурацию из YAML-файла.
func loadFromYAML(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// loadFromEnv загружает конфигурацию из переменных окружения.
func loadFromEnv() *Config {
	return &Config{
		Bot: BotConfig{
			Token:                getEnv("TELEGRAM_BOT_TOKEN", PlaceholderToken),
			APIURL:               getEnv("TICKET_API_URL", DefaultAPIURL),
			CheckIntervalSeconds: getEnvInt("CHECK_INTERVAL_SECONDS", DefaultCheckIntervalSeconds),
			HTTPTimeoutSeconds:   getEnvInt("HTTP_TIMEOUT_SECONDS", DefaultHTTPTimeoutSeconds),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", DefaultServerHost),
			Port: getEnvInt("PORT", DefaultServerPort),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", ""),
			Format: getEnv("LOG_FORMAT", ""),
		},
	}
}

// applyDefaults заполняет незаданные поля значениями по умолчанию.
func applyDefaults(cfg *Config) {
	if cfg.Bot.APIURL == "" {
		cfg.Bot.APIURL = DefaultAPIURL
	}
	if cfg.Bot.CheckIntervalSeconds == 0 {
		cfg.Bot.CheckIntervalSeconds = DefaultCheckIntervalSeconds
	}
	if cfg.Bot.HTTPTimeoutSeconds == 0 {
		cfg.Bot.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
}

// Address возвращает адрес сервера в формате "host:port".
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate проверяет корректность конфигурации.
func (c *Config) Validate() error {
	if c.Bot.Token == "" || c.Bot.Token == PlaceholderToken {
		return fmt.Errorf("bot.token is not configured")
	}
	if c.Bot.APIURL == "" {
		return fmt.Errorf("bot.api_url cannot be empty")
	}
	if c.Bot.CheckIntervalSeconds <= 0 {
		return fmt.Errorf("bot.check_interval_seconds must be positive")
	}
	if c.Bot.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("bot.http_timeout_seconds must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number (1-65535)")
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getEnvInt возвращает целочисленное значение переменной окружения.
// Некорректные значения игнорируются в пользу значения по умолчанию.
func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
