package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/logitrack/internal/middleware"
)

// Helper to create echo context with request/response
func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// Dummy handler that returns 200 OK
func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func TestAPIKeyAuth(t *testing.T) {
	const testAPIKey = "test-api-key-12345"

	t.Run("allows request with valid API key", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/api/registrations")
		c.Request().Header.Set(middleware.APIKeyHeader, testAPIKey)

		if err := middleware.APIKeyAuth(testAPIKey)(okHandler)(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	t.Run("allows any request when no key is configured", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/api/registrations")

		if err := middleware.APIKeyAuth("")(okHandler)(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})

	rejects := []struct {
		name    string
		header  string
		message string
	}{
		{"rejects request without API key", "", "Falta la clave de API"},
		{"rejects request with invalid API key", "wrong-key", "Clave de API inválida"},
		{"rejects key with matching prefix", testAPIKey + "x", "Clave de API inválida"},
	}
	for _, tc := range rejects {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/registrations")
			if tc.header != "" {
				c.Request().Header.Set(middleware.APIKeyHeader, tc.header)
			}

			if err := middleware.APIKeyAuth(testAPIKey)(okHandler)(c); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rec.Code)
			}

			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp["success"] != false {
				t.Errorf("expected success false, got %v", resp["success"])
			}
			if resp["error"] != tc.message {
				t.Errorf("expected error %q, got %q", tc.message, resp["error"])
			}
		})
	}
}
