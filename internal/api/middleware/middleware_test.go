package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireJSON(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Post("/echo", RequireJSON(), func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	cases := []struct {
		name        string
		body        string
		contentType string
		status      int
	}{
		{"json body", `{"a":1}`, "application/json; charset=utf-8", fiber.StatusNoContent},
		{"empty body", "", "", fiber.StatusNoContent},
		{"form body", "a=1", "application/x-www-form-urlencoded", fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/echo", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		})
	}
}
