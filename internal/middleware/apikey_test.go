package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newGatedServer(secret string) *echo.Echo {
	e := echo.New()
	e.Use(APIKeyAuth(StaticKeyVerifier(secret), "/", "/health", "/swagger"))

	ok := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
	e.GET("/", ok)
	e.GET("/health", ok)
	e.GET("/swagger/index.html", ok)
	e.GET("/api/contacts", ok)
	return e
}

func doRequest(e *echo.Echo, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set(APIKeyHeaderName, key)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestAPIKeyAuthMissingKey(t *testing.T) {
	e := newGatedServer("sekret")

	rec := doRequest(e, "/api/contacts", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "API Key is missing" {
		t.Errorf("error = %q, want %q", msg, "API Key is missing")
	}
}

func TestAPIKeyAuthInvalidKey(t *testing.T) {
	e := newGatedServer("sekret")

	rec := doRequest(e, "/api/contacts", "wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "Invalid API Key" {
		t.Errorf("error = %q, want %q", msg, "Invalid API Key")
	}
}

func TestAPIKeyAuthValidKey(t *testing.T) {
	e := newGatedServer("sekret")

	rec := doRequest(e, "/api/contacts", "sekret")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAPIKeyAuthSkipsPublicPaths(t *testing.T) {
	e := newGatedServer("sekret")

	for _, path := range []string{"/", "/health", "/swagger/index.html"} {
		rec := doRequest(e, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s without key: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestAPIKeyAuthRootSkipIsExact(t *testing.T) {
	e := newGatedServer("sekret")

	// "/" in the skip list must not open up every path
	rec := doRequest(e, "/api/contacts", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAPIKeyAuthEmptySecretRejectsAll(t *testing.T) {
	e := newGatedServer("")

	rec := doRequest(e, "/api/contacts", "anything")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
