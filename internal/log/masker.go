// Package log содержит обвязку вокруг slog: маскировку токена бота
// и адаптер для логгера библиотеки go-telegram-bot-api.
package log

import (
	"context"
	"log/slog"
	"regexp"
)

// Токен бота в URL запросов к Bot API имеет вид bot<ID>:<секрет>.
var botTokenRegex = regexp.MustCompile(`\bbot\d+:[A-Za-z0-9_-]{35,}`)

const tokenMask = "bot***:***masked***"

// maskToken заменяет токены бота в строке на маску.
func maskToken(s string) string {
	return botTokenRegex.ReplaceAllString(s, tokenMask)
}

// MaskingHandler — обертка для slog.Handler, маскирующая токен бота
// в сообщениях и строковых атрибутах. Токен попадает в логи прежде всего
// через ошибки HTTP-клиента, содержащие полный URL запроса.
type MaskingHandler struct {
	inner slog.Handler
}

// NewMaskingHandler оборачивает переданный обработчик в маскировщик.
func NewMaskingHandler(inner slog.Handler) *MaskingHandler {
	return &MaskingHandler{inner: inner}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	// Clone() сохраняет атрибуты оригинала, поэтому собираем новую запись
	// и кладем в нее только маскированные копии атрибутов.
	r := slog.NewRecord(record.Time, record.Level, maskToken(record.Message), record.PC)

	record.Attrs(func(a slog.Attr) bool {
		r.AddAttrs(slog.Attr{Key: a.Key, Value: maskValue(a.Value)})
		return true
	})

	return h.inner.Handle(ctx, r)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = slog.Attr{Key: a.Key, Value: maskValue(a.Value)}
	}
	return &MaskingHandler{inner: h.inner.WithAttrs(masked)}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{inner: h.inner.WithGroup(name)}
}

// maskValue рекурсивно маскирует значение атрибута.
func maskValue(v slog.Value) slog.Value {
	switch v.Kind() {
	case slog.KindString:
		return slog.StringValue(maskToken(v.String()))
	case slog.KindAny:
		// Ошибки приводим к строке, иначе токен уйдет в лог как есть.
		if err, ok := v.Any().(error); ok {
			return slog.StringValue(maskToken(err.Error()))
		}
		return v
	case slog.KindGroup:
		group := v.Group()
		masked := make([]slog.Attr, len(group))
		for i, a := range group {
			masked[i] = slog.Attr{Key: a.Key, Value: maskValue(a.Value)}
		}
		return slog.GroupValue(masked...)
	default:
		return v
	}
}

// NewMaskedLogger создает slog.Logger с маскировкой токена бота.
func NewMaskedLogger(handler slog.Handler) *slog.Logger {
	return slog.New(NewMaskingHandler(handler))
}
