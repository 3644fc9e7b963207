package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CtxClaimsKey = "auth_claims"

// AuthMiddleware admits requests carrying a valid admin bearer token.
// Rejections are logged at warn level with the reason; the token itself is
// never logged. A nil log discards them.
func AuthMiddleware(tokens TokenService, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		deny := func(msg, reason string, fields ...zap.Field) {
			log.Warn("admin auth rejected", append([]zap.Field{
				zap.String("reason", reason),
				zap.String("path", c.FullPath()),
				zap.String("client_ip", c.ClientIP()),
			}, fields...)...)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		}

		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			deny("missing bearer token", "no_bearer")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(h[len("Bearer "):]))
		if err != nil {
			deny("invalid token", "parse", zap.Error(err))
			return
		}
		if claims.Role != RoleAdmin {
			deny("invalid token", "role", zap.String("user", claims.Username), zap.String("role", claims.Role))
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// MustGetClaims returns the claims stored by AuthMiddleware, or nil.
func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
