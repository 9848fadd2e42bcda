// Package iticket — клиент API билетного сервиса.
package iticket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/xerrors"
)

// StatusError возвращается, когда API отвечает кодом, отличным от 200.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// eventResponse — интересующая нас часть ответа API о событии.
// Отсутствующее поле трактуется как ноль доступных билетов.
type eventResponse struct {
	AvailableTicketsCount int `json:"available_tickets_count"`
}

// Client — клиент для запроса количества доступных билетов.
type Client struct {
	apiURL     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient создает новый экземпляр Client.
func NewClient(apiURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CheckAvailability делает один запрос к API и возвращает количество
// доступных билетов. Ретраев нет: вызывающая сторона сама решает,
// когда повторить проверку.
func (c *Client) CheckAvailability(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return 0, xerrors.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ticket api request failed", slog.String("error", err.Error()))
		return 0, xerrors.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("ticket api returned bad status", slog.Int("status", resp.StatusCode))
		return 0, &StatusError{Code: resp.StatusCode}
	}

	var event eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		c.logger.Error("failed to decode ticket api response", slog.String("error", err.Error()))
		return 0, xerrors.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info("ticket availability checked", slog.Int("available", event.AvailableTicketsCount))
	return event.AvailableTicketsCount, nil
}
