package basehdl

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"rbac_admin/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type createInput struct {
	Name string `json:"name" validate:"required"`
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func newTestApp() *fiber.App {
	h := NewBaseHandler(nil)
	app := fiber.New()
	app.Post("/items", func(c fiber.Ctx) error {
		var input createInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if input.Name == "taken" {
			h.HandleCreated(c, nil, common.NewError(common.ErrCodeBusinessState, "Item already exists", common.StatusConflict, nil))
			return nil
		}
		h.HandleCreated(c, input, nil)
		return nil
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return h.SafeHandler(c, func() error {
			panic("boom")
		})
	})
	app.Get("/foreign", func(c fiber.Ctx) error {
		h.HandleResponse(c, nil, errors.New("socket closed"))
		return nil
	})
	return app
}

func TestHandleResponse_StatusCodes(t *testing.T) {
	app := newTestApp()

	cases := []struct {
		name, method, path, body string
		status                   int
		envelope                 string
	}{
		{"created", "POST", "/items", `{"name":"a"}`, 201, "success"},
		{"malformed", "POST", "/items", `{"name":`, 400, "error"},
		{"validation", "POST", "/items", `{}`, 400, "error"},
		{"conflict", "POST", "/items", `{"name":"taken"}`, 409, "error"},
		{"panic", "GET", "/boom", "", 500, "error"},
		{"foreign error", "GET", "/foreign", "", 500, "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "charset=utf-8")
			assert.Equal(t, tc.envelope, decode(t, resp.Body)["status"])
		})
	}
}

func TestHandleResponse_ConflictBody(t *testing.T) {
	app := newTestApp()
	resp, err := app.Test(httptest.NewRequest("POST", "/items", strings.NewReader(`{"name":"taken"}`)))
	require.NoError(t, err)
	body := decode(t, resp.Body)
	assert.Equal(t, "BIZ_001", body["code"])
	assert.Equal(t, "Item already exists", body["message"])
	assert.NotContains(t, body, "details")
}

func TestHandleHealth_MemoryMode(t *testing.T) {
	h := NewSystemHandler(func() *mongo.Client { return nil })
	app := fiber.New()
	app.Get("/health", h.HandleHealth)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decode(t, resp.Body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "not_initialized", data["services"].(map[string]interface{})["database"])
}
