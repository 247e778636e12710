package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
)

func run(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, APIResponse[json.RawMessage]) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-1")
	h(c)
	var body APIResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := run(t, func(c *gin.Context) {
		Success(c, http.StatusCreated, map[string]int{"n": 1}, "created", nil)
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "req-1", body.RequestID)
	assert.JSONEq(t, `{"n":1}`, string(body.Data))
}

func TestFail_MapsKinds(t *testing.T) {
	w, body := run(t, func(c *gin.Context) { Fail(c, apperror.NotFound("layout %s not found", "x")) })
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "layout x not found", body.Message)
	assert.Equal(t, []string{"layout x not found"}, body.Errors)

	w, body = run(t, func(c *gin.Context) { Fail(c, errors.New("pq: connection reset")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.ErrInternal.Message, body.Message)
}

func TestInvalid(t *testing.T) {
	w, body := run(t, func(c *gin.Context) {
		var dst map[string]any
		Invalid(c, json.Unmarshal([]byte("{"), &dst))
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"payload invalid json"}, body.Errors)
}
