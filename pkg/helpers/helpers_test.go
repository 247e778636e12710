package helpers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_AccessAndRefreshAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)
	id := Identity{UserID: "u-1", Role: "ADMIN", Email: "a@example.com", Username: "a"}

	access, exp, err := m.GenerateAccessToken(id, "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
	assert.Equal(t, "sid-1", claims.SessionID)

	refresh, _, err := m.GenerateRefreshToken("u-1", "sid-1")
	require.NoError(t, err)
	rc, err := m.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u-1", rc.UserID)
	assert.Empty(t, rc.Role)

	_, err = m.ParseAccessToken(refresh)
	assert.Error(t, err)
	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Minute, time.Hour)
	tok, _, err := m.GenerateAccessToken(Identity{UserID: "u-1"}, "sid")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)
}

func TestGenResetPIN(t *testing.T) {
	re := regexp.MustCompile(`^[1-9]\d{5}$`)
	for i := 0; i < 50; i++ {
		pin, err := GenResetPIN()
		require.NoError(t, err)
		assert.Regexp(t, re, pin)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", hash)
	assert.True(t, CheckPassword(hash, "Secret123!"))
	assert.False(t, CheckPassword(hash, "secret123!"))
}

func TestCookieManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewCookie("example.com", true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	m.SetPair(c, "a", time.Now().Add(time.Hour), "r", time.Now().Add(-time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, AccessCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Greater(t, cookies[0].MaxAge, 3500)
	assert.Equal(t, RefreshCookie, cookies[1].Name)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	m.Clear(c)
	for _, ck := range w.Result().Cookies() {
		assert.Empty(t, ck.Value)
		assert.Negative(t, ck.MaxAge)
	}
}

func TestSessionKeyAndNopLogger(t *testing.T) {
	assert.Equal(t, "user:session:42", SessionKey("42"))
	assert.NotNil(t, OrNop(nil))
	l := NopLogger()
	assert.Same(t, l, OrNop(l))
}
