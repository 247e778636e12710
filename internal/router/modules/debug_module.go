package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
	"github.com/oksasatya/go-dashboard-api/pkg/metrics"
)

type DebugModule struct {
	Metrics *metrics.Metrics
	Guard   Guard
}

func NewDebugModule(m *metrics.Metrics, g Guard) *DebugModule {
	return &DebugModule{Metrics: m, Guard: g}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// scrapers on the private network skip the per-IP limit
	rl := middleware.RateLimit(m.Guard.RDB, m.Guard.APILimit, m.Guard.APIWindow, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	if m.Metrics != nil {
		rg.GET("/metrics", rl, gin.WrapH(m.Metrics.Handler()))
	}
}
