package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/checkout/pkg/config"
	"github.com/fatflowers/checkout/pkg/logctx"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.StandardClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(zap.NewNop().Sugar()))
	r.GET("/me", CustomerAuthMiddleware(cfg, zap.NewNop().Sugar()), func(c *gin.Context) {
		c.String(http.StatusOK, CustomerID(c)+"|"+logctx.CustomerID(c.Request.Context()))
	})
	r.GET("/admin", AdminAuthMiddleware(cfg), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestCustomerAuthMiddleware(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "s3cret"}}
	r := newAuthRouter(cfg)

	valid := signToken(t, "s3cret", jwt.SigningMethodHS256, jwt.StandardClaims{Subject: "cus-1", ExpiresAt: time.Now().Add(time.Hour).Unix()})
	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{name: "valid", header: "Bearer " + valid, code: http.StatusOK, body: "cus-1|cus-1"},
		{name: "missing", header: "", code: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", jwt.SigningMethodHS256, jwt.StandardClaims{Subject: "cus-1"}), code: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, "s3cret", jwt.SigningMethodHS256, jwt.StandardClaims{Subject: "cus-1", ExpiresAt: time.Now().Add(-time.Minute).Unix()}), code: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + signToken(t, "s3cret", jwt.SigningMethodHS256, jwt.StandardClaims{}), code: http.StatusUnauthorized},
		{name: "other algorithm", header: "Bearer " + signToken(t, "s3cret", jwt.SigningMethodHS512, jwt.StandardClaims{Subject: "cus-1"}), code: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				require.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	r := newAuthRouter(&config.Config{Auth: config.AuthConfig{AdminToken: "adm"}})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AdminTokenHeader, "adm")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(AdminTokenHeader, "nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	disabled := newAuthRouter(&config.Config{})
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	w = httptest.NewRecorder()
	disabled.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTraceMiddleware(t *testing.T) {
	r := newAuthRouter(&config.Config{})
	r.GET("/trace", func(c *gin.Context) { c.String(http.StatusOK, logctx.TraceID(c.Request.Context())) })

	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "req-42", w.Body.String())
	require.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/trace", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Len(t, w.Body.String(), 36)
}
