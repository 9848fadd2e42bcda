// Package bot реализует Telegram-бота проверки доступности билетов.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ticket-checker-bot/cmd/bot/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	startCommand = "start"

	// Действия кнопок меню.
	actionManualCheck = "manual_check"
	actionStartAuto   = "start_auto"
	actionStopAuto    = "stop_auto"
)

// TicketChecker — источник данных о доступности билетов.
type TicketChecker interface {
	CheckAvailability(ctx context.Context) (int, error)
}

// Bot представляет собой основной объект Telegram-бота.
type Bot struct {
	api           *tgbotapi.BotAPI
	cfg           config.BotConfig
	checker       TicketChecker
	watches       *WatchStore
	checkInterval time.Duration
	logger        *slog.Logger

	// Точки внедрения для тестов: в продакшене указывают на методы api.
	sendMessageFunc    func(msg tgbotapi.Chattable) (tgbotapi.Message, error)
	answerCallbackFunc func(callback tgbotapi.CallbackConfig) error
}

// NewBot создает и инициализирует новый экземпляр бота.
func NewBot(cfg config.BotConfig, checker TicketChecker, watches *WatchStore, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}

	logger.Info("Authorized on account", slog.String("username", api.Self.UserName))

	b := &Bot{
		api:           api,
		cfg:           cfg,
		checker:       checker,
		watches:       watches,
		checkInterval: time.Duration(cfg.CheckIntervalSeconds) * time.Second,
		logger:        logger,
	}
	b.sendMessageFunc = api.Send
	b.answerCallbackFunc = func(callback tgbotapi.CallbackConfig) error {
		_, err := api.Request(callback)
		return err
	}
	return b, nil
}

// Start запускает основной цикл обработки обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Context cancelled, stopping bot...")
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение.
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	// Ответ на любые другие сообщения
	reply := tgbotapi.NewMessage(msg.Chat.ID, "Отправьте /start, чтобы открыть меню проверки билетов.")
	b.sendMessage(reply)
}

// handleCommand обрабатывает команды.
func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case startCommand:
		b.sendMenu(msg.Chat.ID)
	default:
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Я не знаю такой команды.")
		b.sendMessage(reply)
	}
}

// sendMenu отправляет постоянное меню с тремя кнопками.
func (b *Bot) sendMenu(chatID int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Проверить сейчас", actionManualCheck),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Включить автопроверку", actionStartAuto),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Выключить автопроверку", actionStopAuto),
		),
	)

	msg := tgbotapi.NewMessage(chatID, "Меню проверки билетов:")
	msg.ReplyMarkup = keyboard
	b.sendMessage(msg)

	b.logger.Info("sent start menu", slog.Int64("chat_id", chatID))
}

// handleCallback обрабатывает нажатия кнопок меню. Меню остается на месте:
// вместо его перерисовки бот отвечает на callback коротким текстом.
func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		// Без сообщения некуда адресовать ответ, но спиннер у кнопки
		// все равно нужно убрать.
		b.answerCallback(tgbotapi.NewCallback(query.ID, ""))
		return
	}

	chatID := query.Message.Chat.ID
	b.logger.Info("button clicked", slog.Int64("chat_id", chatID), slog.String("action", query.Data))

	switch query.Data {
	case actionManualCheck:
		b.handleManualCheck(ctx, query)
	case actionStartAuto:
		b.handleStartAuto(ctx, query)
	case actionStopAuto:
		b.handleStopAuto(query)
	default:
		b.logger.Warn("unknown callback action", slog.String("action", query.Data))
		// Пустой ответ, чтобы убрать индикатор загрузки у кнопки.
		b.answerCallback(tgbotapi.NewCallback(query.ID, ""))
	}
}

// handleManualCheck выполняет разовую проверку по запросу пользователя.
func (b *Bot) handleManualCheck(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID

	available, err := b.checker.CheckAvailability(ctx)
	if err != nil {
		// Причина остается в логах клиента, пользователю — короткий алерт.
		b.answerCallback(tgbotapi.NewCallbackWithAlert(query.ID, "Не удалось получить данные."))
		return
	}

	if available == 0 {
		b.answerCallback(tgbotapi.NewCallback(query.ID, "Билетов нет."))
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, availabilityMessage(available)))
	b.answerCallback(tgbotapi.NewCallback(query.ID, "Билеты найдены!"))
}

// handleStartAuto запускает фоновую автопроверку для чата.
func (b *Bot) handleStartAuto(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID

	watchCtx, watchID, err := b.watches.Start(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrAlreadyWatching) {
			b.answerCallback(tgbotapi.NewCallbackWithAlert(query.ID, "Автопроверка уже запущена."))
			return
		}
		b.logger.Error("failed to start auto check", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
		b.answerCallback(tgbotapi.NewCallbackWithAlert(query.ID, "Не удалось запустить автопроверку."))
		return
	}

	go b.watchLoop(watchCtx, chatID, watchID)

	b.answerCallback(tgbotapi.NewCallback(query.ID, "Автопроверка запущена."))
	b.logger.Info("auto check started", slog.Int64("chat_id", chatID), slog.String("watch_id", watchID))
}

// handleStopAuto останавливает фоновую автопроверку для чата.
func (b *Bot) handleStopAuto(query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID

	if err := b.watches.Stop(chatID); err != nil {
		b.answerCallback(tgbotapi.NewCallbackWithAlert(query.ID, "Автопроверка не запущена."))
		return
	}

	b.answerCallback(tgbotapi.NewCallback(query.ID, "Автопроверка остановлена."))
	b.logger.Info("auto check stopped", slog.Int64("chat_id", chatID))
}

// watchLoop — цикл автопроверки одного чата. Работает до отмены контекста;
// ошибки проверки и отправки не завершают цикл. Интервал отсчитывается от
// конца итерации, поэтому моменты проверок постепенно дрейфуют.
func (b *Bot) watchLoop(ctx context.Context, chatID int64, watchID string) {
	logger := b.logger.With(slog.Int64("chat_id", chatID), slog.String("watch_id", watchID))

	timer := time.NewTimer(b.checkInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("auto check loop cancelled")
			return
		default:
		}

		b.runAutoCheck(ctx, chatID, logger)

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(b.checkInterval)

		select {
		case <-ctx.Done():
			logger.Info("auto check loop cancelled")
			return
		case <-timer.C:
		}
	}
}

// runAutoCheck — одна итерация автопроверки. Сообщение уходит только при
// положительном количестве билетов; ошибки API пользователю не показываются,
// чтобы не спамить чат при временных сбоях.
func (b *Bot) runAutoCheck(ctx context.Context, chatID int64, logger *slog.Logger) {
	available, err := b.checker.CheckAvailability(ctx)
	if err != nil {
		logger.Error("auto check failed", slog.String("error", err.Error()))
		return
	}

	if available == 0 {
		logger.Info("auto check: no tickets")
		return
	}

	// Уведомление уходит на каждой итерации, пока билеты есть.
	// TODO: уведомлять один раз и молчать, пока доступность не обнулится.
	b.sendMessage(tgbotapi.NewMessage(chatID, availabilityMessage(available)))
	logger.Info("auto check found tickets", slog.Int("available", available))
}

// availabilityMessage форматирует уведомление о доступных билетах.
func availabilityMessage(available int) string {
	return fmt.Sprintf("Билеты в продаже! Доступно: %d", available)
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.sendMessageFunc(msg); err != nil {
		b.logger.Error("failed to send message", slog.String("error", err.Error()))
	}
}

func (b *Bot) answerCallback(callback tgbotapi.CallbackConfig) {
	if err := b.answerCallbackFunc(callback); err != nil {
		b.logger.Error("failed to answer callback", slog.String("error", err.Error()))
	}
}
