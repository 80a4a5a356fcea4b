package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	"github.com/fatflowers/checkout/pkg/config"
	"github.com/fatflowers/checkout/pkg/logctx"
	"github.com/fatflowers/checkout/pkg/response"
)

var errMissingToken = errors.New("missing bearer token")

// CustomerAuthMiddleware authenticates storefront customers by an HS256 bearer
// token whose subject is the customer id.
func CustomerAuthMiddleware(cfg *config.Config, base *zap.SugaredLogger) gin.HandlerFunc {
	secret := []byte(cfg.Auth.JWTSecret)
	return func(c *gin.Context) {
		customerID, err := parseCustomerToken(c.GetHeader("Authorization"), secret)
		if err != nil {
			logctx.FromGin(c, base).Infow("customer auth rejected", "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, err.Error()))
			return
		}

		c.Set(logctx.CustomerIDKey, customerID)
		ctx := logctx.WithCustomerID(c.Request.Context(), customerID)
		c.Request = c.Request.WithContext(ctx)
		setLogger(c, logctx.FromGin(c, base).With("customer_id", customerID))
		c.Next()
	}
}

func parseCustomerToken(header string, secret []byte) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", errMissingToken
	}
	if len(secret) == 0 {
		return "", errors.New("customer auth is not configured")
	}

	var claims jwt.StandardClaims
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// AdminTokenHeader carries the shared back-office token.
const AdminTokenHeader = "X-Admin-Token"

// AdminAuthMiddleware guards back-office routes with a shared token sent in
// X-Admin-Token. An empty configured token disables the routes.
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	want := []byte(cfg.Auth.AdminToken)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(AdminTokenHeader))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid admin token"))
			return
		}
		c.Next()
	}
}

// CustomerID returns the authenticated customer id set by CustomerAuthMiddleware.
func CustomerID(c *gin.Context) string {
	return c.GetString(logctx.CustomerIDKey)
}
