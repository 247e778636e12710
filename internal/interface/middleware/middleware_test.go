package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

func newJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func token(t *testing.T, jwt *helpers.JWTManager, role entity.Role) string {
	t.Helper()
	tok, _, err := jwt.GenerateAccessToken(helpers.Identity{UserID: "u-1", Role: string(role), Email: "u@example.com", Username: "u"}, "sid-1")
	require.NoError(t, err)
	return tok
}

func protected(jwt *helpers.JWTManager, sessions SessionChecker, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(jwt, sessions)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c)+"|"+string(CurrentRole(c)))
	})
	r.GET("/me", handlers...)
	return r
}

func TestAuth_HeaderAndCookie(t *testing.T) {
	jwt := newJWT()
	r := protected(jwt, nil)
	tok := token(t, jwt, entity.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1|USER", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: tok})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_Rejections(t *testing.T) {
	jwt := newJWT()
	tok := token(t, jwt, entity.RoleUser)

	w := httptest.NewRecorder()
	protected(jwt, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	protected(jwt, nil).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	revoked := func(context.Context, string, string) bool { return false }
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	protected(jwt, revoked).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	jwt := newJWT()
	r := protected(jwt, nil, RequireAdmin())

	for role, want := range map[entity.Role]int{
		entity.RoleUser:       http.StatusForbidden,
		entity.RoleAdmin:      http.StatusOK,
		entity.RoleSuperAdmin: http.StatusOK,
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, jwt, role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
}

func TestRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	cases := map[string]map[string]string{
		"203.0.113.7":  {"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
		"198.51.100.1": {"X-Forwarded-For": "198.51.100.1, 10.0.0.1"},
		"192.0.2.9":    {"X-Forwarded-For": "not-an-ip", "X-Real-IP": "192.0.2.9"},
	}
	for want, headers := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Body.String())
	}
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Equal(t, 0, remaining(5, 9))
	assert.Equal(t, 3, remaining(5, 2))
}

func TestAllowPrivateIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("real_ip", "10.1.2.3")
	assert.True(t, AllowPrivateIP()(c))
	c.Set("real_ip", "8.8.8.8")
	assert.False(t, AllowPrivateIP()(c))
}
