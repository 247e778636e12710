package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

// Module is a feature that mounts its routes on the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects API-wide middleware and modules, then mounts them in one pass.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use adds middleware that runs on /api routes only.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll mounts every module plus /healthz and a JSON 404 fallback.
func (r *Registry) RegisterAll() {
	r.API.Use(r.middlewares...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
	r.Engine.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
	})
	r.Engine.NoRoute(func(c *gin.Context) {
		response.Error[any](c, http.StatusNotFound, "route not found", nil)
	})
}
