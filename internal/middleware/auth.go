package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"Clubhouse_Hub/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextEmailKey  = "email"

	AccessCookie  = "hub_access"
	RefreshCookie = "hub_refresh"
)

// Authenticator 校验 access token 并返回其中的身份
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*pkg.Claims, error)
}

// AccessToken 优先取 Authorization: Bearer，其次取会话 cookie
func AccessToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	token, err := c.Cookie(AccessCookie)
	if err != nil {
		return ""
	}
	return token
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := AccessToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing access token", "code": "auth_failed"})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			slog.Debug("authentication rejected", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired session", "code": "auth_failed"})
			return
		}

		// 注入 user_id
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
