package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

// Gin context keys set by Auth.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "userRole"
	CtxUserEmail = "userEmail"
	CtxUserName  = "userName"
)

// SessionChecker reports whether the session id embedded in a token is still live.
type SessionChecker func(ctx context.Context, userID, sid string) bool

// Auth validates the access token from the Authorization header or the access_token cookie.
// When sessions is non-nil the token's session must still be active.
func Auth(jwt *helpers.JWTManager, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}
		if sessions != nil && !sessions(c.Request.Context(), claims.UserID, claims.SessionID) {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxUserEmail, claims.Email)
		c.Set(CtxUserName, claims.Username)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok
	}
	return ""
}

// RequireRole lets the request through only for the listed roles. Must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
		c.Abort()
	}
}

// RequireAdmin is RequireRole(ADMIN, SUPER_ADMIN).
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(entity.RoleAdmin, entity.RoleSuperAdmin)
}

func CurrentUserID(c *gin.Context) string { return c.GetString(CtxUserID) }

func CurrentRole(c *gin.Context) entity.Role { return entity.Role(c.GetString(CtxUserRole)) }
