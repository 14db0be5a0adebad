package httpserver_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authforge/authforge/pkg/httpserver"
	"github.com/authforge/authforge/pkg/logger"
)

func TestServer_Run(t *testing.T) {
	t.Parallel()

	t.Run("stops gracefully on context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httpserver.New(httpserver.Config{
			Addr:            "127.0.0.1:0",
			ShutdownTimeout: time.Second,
		}, logger.Discard())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- srv.Run(ctx, http.NotFoundHandler())
		}()

		time.Sleep(100 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("reports listen failure", func(t *testing.T) {
		t.Parallel()

		srv := httpserver.New(httpserver.Config{
			Addr:            "256.256.256.256:99999",
			ShutdownTimeout: time.Second,
		}, logger.Discard())

		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	t.Run("ok when all checks pass", func(t *testing.T) {
		t.Parallel()

		handler := httpserver.HealthHandler(logger.Discard(),
			func(context.Context) error { return nil },
		)

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body, _ := io.ReadAll(rec.Body)
		assert.Equal(t, "ok", string(body))
	})

	t.Run("unavailable when a check fails", func(t *testing.T) {
		t.Parallel()

		handler := httpserver.HealthHandler(logger.Discard(),
			func(context.Context) error { return nil },
			func(context.Context) error { return errors.New("db down") },
		)

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
