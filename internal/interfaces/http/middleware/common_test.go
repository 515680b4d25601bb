package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const storefrontOrigin = "https://shop.vendora.dev"

func serveWith(mw gin.HandlerFunc, method, origin string) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(mw)
	engine.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(method, "/products", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCORSDefaults(t *testing.T) {
	t.Run("empty whitelist sets no headers for cross-origin callers", func(t *testing.T) {
		w := serveWith(CORS(), http.MethodGet, "https://elsewhere.example")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("same-origin requests pass through untouched", func(t *testing.T) {
		w := serveWith(CORS(), http.MethodGet, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight still answers 204 without headers", func(t *testing.T) {
		w := serveWith(CORS(), http.MethodOptions, "https://elsewhere.example")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("default config ships a locked-down whitelist", func(t *testing.T) {
		cfg := DefaultCORSConfig()

		assert.Empty(t, cfg.AllowOrigins)
		assert.Contains(t, cfg.AllowMethods, http.MethodGet)
		assert.Contains(t, cfg.AllowHeaders, "Authorization")
		assert.True(t, cfg.AllowCredentials)
		assert.Equal(t, 12*time.Hour, cfg.MaxAge)
	})
}

func TestCORSWithConfig(t *testing.T) {
	storefront := CORSConfig{
		AllowOrigins:     []string{storefrontOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}

	t.Run("whitelisted origin gets the full header set", func(t *testing.T) {
		w := serveWith(CORSWithConfig(storefront), http.MethodGet, storefrontOrigin)

		assert.Equal(t, storefrontOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unlisted origin gets nothing", func(t *testing.T) {
		w := serveWith(CORSWithConfig(storefront), http.MethodGet, "https://elsewhere.example")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight from whitelisted origin", func(t *testing.T) {
		w := serveWith(CORSWithConfig(storefront), http.MethodOptions, storefrontOrigin)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, storefrontOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, DELETE", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("preflight from unlisted origin answers without headers", func(t *testing.T) {
		w := serveWith(CORSWithConfig(storefront), http.MethodOptions, "https://elsewhere.example")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard answers any origin but never grants credentials", func(t *testing.T) {
		cfg := CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
		}

		w := serveWith(CORSWithConfig(cfg), http.MethodGet, "https://elsewhere.example")

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("mints an id when the client sent none", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

		id := w.Header().Get("X-Request-ID")
		assert.Len(t, id, 32)
		assert.Equal(t, id, w.Body.String(), "handler sees the same id the client gets back")
	})

	t.Run("keeps the id supplied by the client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("X-Request-ID", "upstream-7f3a")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "upstream-7f3a", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "upstream-7f3a", w.Body.String())
	})

	t.Run("ids do not repeat", func(t *testing.T) {
		first := httptest.NewRecorder()
		second := httptest.NewRecorder()
		engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/products", nil))
		engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/products", nil))

		assert.NotEqual(t, first.Header().Get("X-Request-ID"), second.Header().Get("X-Request-ID"))
	})
}

func TestSecure(t *testing.T) {
	t.Run("defaults set the baseline headers and leave HSTS off", func(t *testing.T) {
		w := serveWith(Secure(), http.MethodGet, "")

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
		assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
		assert.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("HSTS header assembles from its parts", func(t *testing.T) {
		cfg := SecurityConfig{
			HSTSEnabled:           true,
			HSTSMaxAge:            63072000,
			HSTSIncludeSubdomains: true,
			HSTSPreload:           true,
		}

		w := serveWith(SecureWithConfig(cfg), http.MethodGet, "")

		assert.Equal(t, "max-age=63072000; includeSubDomains; preload",
			w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("optional headers can all be switched off", func(t *testing.T) {
		w := serveWith(SecureWithConfig(SecurityConfig{}), http.MethodGet, "")

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("Permissions-Policy"))
	})
}
