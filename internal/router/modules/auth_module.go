package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-dashboard-api/internal/interface/http"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
}

func NewAuthModule(h *handlers.AuthHandler, g Guard) *AuthModule {
	return &AuthModule{Handler: h, Guard: g}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limit := m.Guard.PublicLimit()
	public := rg.Group("/auth")
	{
		public.POST("/signup", limit, m.Handler.Signup)
		public.POST("/signin", limit, m.Handler.Signin)
		public.POST("/refresh", limit, m.Handler.Refresh)
		public.POST("/reset-pin", limit, m.Handler.ResetPIN)
		public.POST("/reset-password", limit, m.Handler.ResetPassword)
	}

	auth := m.Guard.Protected(rg)
	auth.POST("/auth/logout", m.Handler.Logout)
}
