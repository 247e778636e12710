package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
)

// Guard carries the shared middleware inputs every module needs.
type Guard struct {
	Auth       gin.HandlerFunc
	RDB        *redis.Client
	APILimit   int
	APIWindow  time.Duration
	AuthLimit  int
	AuthWindow time.Duration
}

// Protected returns a group that requires a valid access token and applies
// the per-user API limit.
func (g Guard) Protected(rg *gin.RouterGroup) *gin.RouterGroup {
	grp := rg.Group("/")
	grp.Use(g.Auth, middleware.RateLimit(g.RDB, g.APILimit, g.APIWindow, middleware.KeyByUserID(), nil))
	return grp
}

// PublicLimit throttles unauthenticated endpoints by client IP and path.
func (g Guard) PublicLimit() gin.HandlerFunc {
	return middleware.RateLimit(g.RDB, g.AuthLimit, g.AuthWindow, middleware.KeyByIPAndPath(), nil)
}
