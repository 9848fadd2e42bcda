package config

// Значения по умолчанию для конфигурации бота.
const (
	// PlaceholderToken — заглушка, с которой бот отказывается запускаться.
	PlaceholderToken = "YOUR_TELEGRAM_BOT_TOKEN"

	DefaultAPIURL               = "https://api.iticket.uz/ru/v5/events/concerts/uzbekistan-vs-kyrgyz-republic?client=web"
	DefaultCheckIntervalSeconds = 30
	DefaultHTTPTimeoutSeconds   = 10

	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8080
)
