package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWithRequest_UsesErrorLogger(t *testing.T) {
	t.Setenv("LOG_OUTPUT", "stdout")

	var appEntry, errEntry *logrus.Entry
	app := fiber.New()
	app.Get("/items", func(c fiber.Ctx) error {
		appEntry = WithRequest(c)
		errEntry = ErrorWithRequest(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/items", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	_, err := app.Test(req)
	require.NoError(t, err)

	require.NotNil(t, errEntry)
	assert.Same(t, GetErrorLogger(), errEntry.Logger)
	assert.Same(t, GetAppLogger(), appEntry.Logger)
	assert.Equal(t, "rid-1", errEntry.Data["request_id"])
	assert.Equal(t, "/items", errEntry.Data["path"])
}
