package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// BotAPILogger адаптирует slog.Logger под интерфейс tgbotapi.BotLogger,
// чтобы сообщения библиотеки проходили через маскировщик токена.
type BotAPILogger struct {
	Logger *slog.Logger
}

// Println реализует tgbotapi.BotLogger.
func (l *BotAPILogger) Println(v ...interface{}) {
	l.Logger.Info(strings.TrimSpace(fmt.Sprintln(v...)))
}

// Printf реализует tgbotapi.BotLogger.
func (l *BotAPILogger) Printf(format string, v ...interface{}) {
	l.Logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
