package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: clientIP(c), UserAgent: c.GetHeader("User-Agent")}
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}

func queryBool(c *gin.Context, key string, def bool) bool {
	if v, err := strconv.ParseBool(c.Query(key)); err == nil {
		return v
	}
	return def
}

// pageRequest reads ?page= (zero-based) and ?size=.
func pageRequest(c *gin.Context) entity.PageRequest {
	return entity.PageRequest{Page: queryInt(c, "page", 0), Size: queryInt(c, "size", entity.DefaultPageSize)}.Normalize()
}

// targetUserID resolves ?userId=, defaulting to the caller. Acting for someone else needs an admin role.
// On refusal the response is already written and ok is false.
func targetUserID(c *gin.Context) (string, bool) {
	self := middleware.CurrentUserID(c)
	id := c.Query("userId")
	if id == "" || id == self {
		return self, true
	}
	if !middleware.CurrentRole(c).IsAdmin() {
		response.Error[any](c, http.StatusForbidden, "cannot act on another user's dashboard", nil)
		return "", false
	}
	return id, true
}
