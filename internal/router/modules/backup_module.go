package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-dashboard-api/internal/interface/http"
	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
)

// BackupModule exposes whole-database SQL dumps to admins only.
type BackupModule struct {
	Handler *handlers.BackupHandler
	Guard   Guard
}

func NewBackupModule(h *handlers.BackupHandler, g Guard) *BackupModule {
	return &BackupModule{Handler: h, Guard: g}
}

func (m *BackupModule) Register(rg *gin.RouterGroup) {
	b := m.Guard.Protected(rg).Group("/backups")
	b.Use(middleware.RequireAdmin())
	{
		b.GET("", m.Handler.List)
		b.GET("/export", m.Handler.Export)
		b.GET("/download/:name", m.Handler.Download)
		b.POST("/upload", m.Handler.Upload)
		b.POST("/import", m.Handler.Import)
	}
}
