package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mowind/icap-go/internal/config"
	apperrors "github.com/mowind/icap-go/internal/errors"
)

func newAuthEngine(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(AuthMiddleware(cfg))
	engine.Any("/*path", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return engine
}

func TestAuthMiddleware(t *testing.T) {
	secret := "test-secret"
	whitelist := []string{"/", "/health", "/ready"}

	tests := []struct {
		name           string
		enabled        bool
		path           string
		authHeader     string
		apiKeyHeader   string
		expectedStatus int
	}{
		{"disabled auth passes", false, "/v1/icap/XE81ETHXREGGAVOFYORK", "", "", http.StatusOK},
		{"whitelisted health", true, "/health", "", "", http.StatusOK},
		{"whitelisted root", true, "/", "", "", http.StatusOK},
		{"root entry does not open other paths", true, "/v1/address/0x00/icap", "", "", http.StatusUnauthorized},
		{"valid Bearer token", true, "/v1/icap/XE81ETHXREGGAVOFYORK", "Bearer " + secret, "", http.StatusOK},
		{"valid API key", true, "/v1/icap/XE81ETHXREGGAVOFYORK", "", secret, http.StatusOK},
		{"invalid Bearer token", true, "/v1/icap/XE81ETHXREGGAVOFYORK", "Bearer wrong-secret", "", http.StatusUnauthorized},
		{"invalid API key", true, "/v1/icap/XE81ETHXREGGAVOFYORK", "", "wrong-secret", http.StatusUnauthorized},
		{"missing credentials", true, "/metrics", "", "", http.StatusUnauthorized},
		{"malformed Bearer", true, "/metrics", "Bearer", "", http.StatusUnauthorized},
		{"wrong scheme", true, "/metrics", "Basic " + secret, "", http.StatusUnauthorized},
		{"invalid Bearer is not rescued by API key", true, "/metrics", "Bearer wrong", secret, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newAuthEngine(config.AuthConfig{Enabled: tt.enabled, Secret: secret, Whitelist: whitelist})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.apiKeyHeader != "" {
				req.Header.Set("X-API-Key", tt.apiKeyHeader)
			}

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d, body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusUnauthorized {
				body := w.Body.String()
				if !strings.Contains(body, "authentication failed") {
					t.Errorf("expected 'authentication failed' in response body, got: %s", body)
				}
				if strings.Contains(body, "missing") || strings.Contains(body, "invalid") || strings.Contains(body, "token") {
					t.Errorf("response body should not leak details: %s", body)
				}
			}
		})
	}
}

func TestAuthMiddleware_PrefixWhitelist(t *testing.T) {
	engine := newAuthEngine(config.AuthConfig{Enabled: true, Secret: "s", Whitelist: []string{"/metrics"}})

	for path, want := range map[string]int{
		"/metrics":          http.StatusOK,
		"/metrics/detailed": http.StatusOK,
		"/v1/icap/x":        http.StatusUnauthorized,
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Errorf("%s: expected status %d, got %d", path, want, w.Code)
		}
	}
}

func TestAuthMiddleware_EmptyWhitelist(t *testing.T) {
	engine := newAuthEngine(config.AuthConfig{Enabled: true, Secret: "s"})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d with empty whitelist, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, apperrors.GetRequestID(c.Request.Context()))
	})

	t.Run("keeps client uuid", func(t *testing.T) {
		id := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(apperrors.RequestIDHeader, id)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		if w.Body.String() != id {
			t.Errorf("expected context id %s, got %s", id, w.Body.String())
		}
		if w.Header().Get(apperrors.RequestIDHeader) != id {
			t.Errorf("expected response header %s, got %s", id, w.Header().Get(apperrors.RequestIDHeader))
		}
	})

	t.Run("generates when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if len(w.Body.String()) != 36 {
			t.Errorf("expected generated uuid, got %q", w.Body.String())
		}
		if w.Header().Get(apperrors.RequestIDHeader) != w.Body.String() {
			t.Error("expected header and context ids to match")
		}
	})
}
