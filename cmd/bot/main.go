package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticket-checker-bot/cmd/bot/config"
	"ticket-checker-bot/internal/bot"
	"ticket-checker-bot/internal/iticket"
	"ticket-checker-bot/internal/log"
	"ticket-checker-bot/internal/server"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	// 1. Загрузка конфигурации
	cfg, err := config.Load("config.yml")
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализация логгера с маскировкой токена
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	switch cfg.Logging.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	logger := log.NewMaskedLogger(handler)
	slog.SetDefault(logger)

	// Логи библиотеки Bot API тоже проходят через маскировщик.
	if err := tgbotapi.SetLogger(&log.BotAPILogger{Logger: logger}); err != nil {
		return fmt.Errorf("failed to set bot api logger: %w", err)
	}

	// 3. Валидация конфигурации
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Инициализация компонентов
	checker := iticket.NewClient(
		cfg.Bot.APIURL,
		time.Duration(cfg.Bot.HTTPTimeoutSeconds)*time.Second,
		logger.With(slog.String("component", "iticket")),
	)
	watches := bot.NewWatchStore()

	b, err := bot.NewBot(cfg.Bot, checker, watches, logger.With(slog.String("component", "bot")))
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	srv := server.New(cfg.Address())

	// 5. Запуск и graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		slog.Info("Starting health server", slog.String("addr", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "error", err)
		}
	}()

	slog.Info("Bot created successfully, starting...")
	go b.Start(ctx)

	<-ctx.Done()

	slog.Info("Signal received, shutting down...")

	// Останавливаем все автопроверки, затем HTTP-сервер.
	watches.StopAll()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Health server forced to shutdown", "error", err)
	}
	<-serverDone

	slog.Info("Bot stopped gracefully")
	return nil
}
