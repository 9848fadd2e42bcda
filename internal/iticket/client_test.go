package iticket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_CheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("returns count from response", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"available_tickets_count": 42, "name": "some event"}`))
		}))
		defer ts.Close()

		count, err := newTestClient(ts.URL).CheckAvailability(ctx)
		require.NoError(t, err)
		assert.Equal(t, 42, count)
	})

	t.Run("missing field means zero tickets", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"name": "some event"}`))
		}))
		defer ts.Close()

		count, err := newTestClient(ts.URL).CheckAvailability(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("non-200 status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		_, err := newTestClient(ts.URL).CheckAvailability(ctx)
		require.Error(t, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"available_tickets_count": `))
		}))
		defer ts.Close()

		_, err := newTestClient(ts.URL).CheckAvailability(ctx)
		assert.Error(t, err)
	})

	t.Run("transport error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ts.Close() // Сервер уже остановлен: соединение не установится.

		_, err := newTestClient(ts.URL).CheckAvailability(ctx)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"available_tickets_count": 1}`))
		}))
		defer ts.Close()

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestClient(ts.URL).CheckAvailability(cancelled)
		assert.Error(t, err)
	})
}
