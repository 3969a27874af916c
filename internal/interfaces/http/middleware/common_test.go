package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storefrontOrigin = "https://shop.example.com"

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doCORSRequest(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/products", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()

	// No origins are allowed until the deployment configures them
	assert.Empty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowHeaders, "X-Session-ID")
	assert.Contains(t, cfg.AllowHeaders, "Authorization")
	assert.Contains(t, cfg.ExposeHeaders, "X-Request-ID")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS())
	router.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	t.Run("empty default whitelist sets no CORS headers", func(t *testing.T) {
		w := doCORSRequest(router, http.MethodGet, storefrontOrigin)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight still gets a definite 204", func(t *testing.T) {
		w := doCORSRequest(router, http.MethodOptions, storefrontOrigin)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSWithConfig(t *testing.T) {
	whitelisted := CORSConfig{
		AllowOrigins:     []string{storefrontOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "X-Session-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}

	t.Run("whitelisted origin gets full headers", func(t *testing.T) {
		router := newCORSRouter(whitelisted)
		w := doCORSRequest(router, http.MethodGet, storefrontOrigin)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, storefrontOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "GET, POST, DELETE", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-Session-ID", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin is served without CORS headers", func(t *testing.T) {
		router := newCORSRouter(whitelisted)
		w := doCORSRequest(router, http.MethodGet, "https://evil.example.net")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("same-origin request passes untouched", func(t *testing.T) {
		router := newCORSRouter(whitelisted)
		w := doCORSRequest(router, http.MethodGet, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight from whitelisted origin", func(t *testing.T) {
		router := newCORSRouter(whitelisted)
		w := doCORSRequest(router, http.MethodOptions, storefrontOrigin)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, storefrontOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, DELETE", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("preflight from unknown origin is refused without headers", func(t *testing.T) {
		router := newCORSRouter(whitelisted)
		w := doCORSRequest(router, http.MethodOptions, "https://evil.example.net")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		cfg := whitelisted
		cfg.AllowOrigins = []string{"*"}
		router := newCORSRouter(cfg)
		w := doCORSRequest(router, http.MethodGet, "https://anywhere.example.org")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard never grants credentials", func(t *testing.T) {
		cfg := whitelisted
		cfg.AllowOrigins = []string{"*"}
		router := newCORSRouter(cfg)
		w := doCORSRequest(router, http.MethodGet, storefrontOrigin)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("zero max age omits the header", func(t *testing.T) {
		cfg := whitelisted
		cfg.MaxAge = 0
		router := newCORSRouter(cfg)
		w := doCORSRequest(router, http.MethodGet, storefrontOrigin)

		assert.Empty(t, w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("credentials disabled", func(t *testing.T) {
		cfg := whitelisted
		cfg.AllowCredentials = false
		router := newCORSRouter(cfg)
		w := doCORSRequest(router, http.MethodGet, storefrontOrigin)

		assert.Equal(t, storefrontOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/products", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("request_id"))
		})
		return router
	}

	t.Run("generates an ID when the client sends none", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		id := w.Header().Get("X-Request-ID")
		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("honors a client-supplied ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("X-Request-ID", "req-cart-42")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, "req-cart-42", w.Header().Get("X-Request-ID"))
		assert.Equal(t, "req-cart-42", w.Body.String())
	})

	t.Run("each request gets a distinct ID", func(t *testing.T) {
		router := newRouter()
		first := httptest.NewRecorder()
		router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/products", nil))
		second := httptest.NewRecorder()
		router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/products", nil))

		assert.NotEqual(t, first.Header().Get("X-Request-ID"), second.Header().Get("X-Request-ID"))
	})
}

func newSecureRouter(cfg SecurityConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func secureHeaders(router *gin.Engine) http.Header {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Header()
}

func TestDefaultSecurityConfig(t *testing.T) {
	cfg := DefaultSecurityConfig()

	assert.False(t, cfg.HSTSEnabled)
	assert.Equal(t, 31536000, cfg.HSTSMaxAge)
	assert.True(t, cfg.HSTSIncludeSubdomains)
	assert.True(t, cfg.CSPEnabled)
	assert.Contains(t, cfg.CSPDirective, "default-src 'self'")
	assert.True(t, cfg.PermissionsPolicyEnabled)
	assert.Contains(t, cfg.PermissionsPolicyDirective, "payment=()")
}

func TestSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Secure())
	router.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	h := secureHeaders(router)
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.NotEmpty(t, h.Get("Content-Security-Policy"))
	assert.NotEmpty(t, h.Get("Permissions-Policy"))
	// HSTS stays off until TLS is in front
	assert.Empty(t, h.Get("Strict-Transport-Security"))
}

func TestSecureWithConfig(t *testing.T) {
	t.Run("HSTS with subdomains and preload", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true
		cfg.HSTSMaxAge = 3600
		cfg.HSTSIncludeSubdomains = true
		cfg.HSTSPreload = true

		h := secureHeaders(newSecureRouter(cfg))
		assert.Equal(t, "max-age=3600; includeSubDomains; preload", h.Get("Strict-Transport-Security"))
	})

	t.Run("HSTS without subdomains", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true
		cfg.HSTSMaxAge = 86400
		cfg.HSTSIncludeSubdomains = false

		h := secureHeaders(newSecureRouter(cfg))
		assert.Equal(t, "max-age=86400", h.Get("Strict-Transport-Security"))
	})

	t.Run("CSP disabled", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.CSPEnabled = false

		h := secureHeaders(newSecureRouter(cfg))
		assert.Empty(t, h.Get("Content-Security-Policy"))
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	})

	t.Run("custom CSP directive", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.CSPDirective = "default-src 'none'"

		h := secureHeaders(newSecureRouter(cfg))
		assert.Equal(t, "default-src 'none'", h.Get("Content-Security-Policy"))
	})

	t.Run("permissions policy disabled", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.PermissionsPolicyEnabled = false

		h := secureHeaders(newSecureRouter(cfg))
		assert.Empty(t, h.Get("Permissions-Policy"))
	})
}
