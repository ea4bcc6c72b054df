package logger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmq-backend/internal/apierror"
	"farmq-backend/internal/logger"
)

func newApp(t *testing.T) (*fiber.App, *test.Hook) {
	t.Helper()
	base, hook := test.NewNullLogger()
	l := &logger.Logger{Entry: logrus.NewEntry(base)}

	app := fiber.New(fiber.Config{ErrorHandler: apierror.Handler})
	app.Use(l.Middleware())
	app.Get("/ok", func(c *fiber.Ctx) error {
		logger.AddField(c, "user_id", "u-1")
		return c.SendString("ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apierror.NotFound("Crop not found")
	})
	return app, hook
}

func TestMiddlewareEchoesRequestID(t *testing.T) {
	app, hook := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(logger.RequestIDHeader, "abc-123")
	req.Header.Set("User-Agent", "farmq-test/1.0")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(logger.RequestIDHeader))

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "abc-123", last.Data["req_id"])
	assert.Equal(t, "u-1", last.Data["user_id"])
	assert.Equal(t, "farmq-test/1.0", last.Data["user_agent"])
	assert.Equal(t, http.StatusOK, last.Data["status"])
}

func TestMiddlewareGeneratesRequestIDAndLogsErrorStatus(t *testing.T) {
	app, hook := newApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(logger.RequestIDHeader))

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, http.StatusNotFound, last.Data["status"])
	assert.Equal(t, "/missing", last.Data["path"])
}
