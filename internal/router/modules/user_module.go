package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-dashboard-api/internal/interface/http"
	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
)

// UserModule serves the caller's own profile and the admin user directory.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   Guard
}

func NewUserModule(h *handlers.UserHandler, g Guard) *UserModule {
	return &UserModule{Handler: h, Guard: g}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := m.Guard.Protected(rg)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.PUT("/profile/password", m.Handler.ChangePassword)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
	}

	admin := auth.Group("/users")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", m.Handler.List)
		admin.POST("", m.Handler.Create)
		admin.GET("/search", m.Handler.Search)
		admin.GET("/suggest", m.Handler.Suggest)
		admin.GET("/stats", m.Handler.Stats)
		admin.GET("/google-drive", m.Handler.GoogleDriveLinked)
		admin.GET("/role/:role", m.Handler.ByRole)
		admin.GET("/email/:email", m.Handler.ByEmail)
		admin.GET("/username/:username", m.Handler.ByUsername)
		admin.GET("/exists/email/:email", m.Handler.ExistsByEmail)
		admin.GET("/exists/username/:username", m.Handler.ExistsByUsername)
		admin.GET("/:id", m.Handler.Get)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
		admin.PUT("/:id/google-drive", m.Handler.SetGoogleDrive)
		admin.PUT("/:id/last-login", m.Handler.TouchLastLogin)
	}
}
