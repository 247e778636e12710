package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-dashboard-api/internal/interface/http"
)

// DashboardModule registers layouts, widgets, preferences and the aggregate
// dashboard views. Every route acts on the caller unless an admin passes ?userId=.
type DashboardModule struct {
	Handler *handlers.DashboardHandler
	Guard   Guard
}

func NewDashboardModule(h *handlers.DashboardHandler, g Guard) *DashboardModule {
	return &DashboardModule{Handler: h, Guard: g}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	h := m.Handler
	d := m.Guard.Protected(rg).Group("/dashboard")

	d.POST("", h.CreateDashboard)
	d.GET("/complete", h.Complete)
	d.POST("/initialize", h.Initialize)
	d.GET("/stats", h.Stats)
	d.POST("/backup", h.Backup)
	d.POST("/restore", h.Restore)
	d.GET("/widget-types", h.WidgetTypes)
	d.GET("/widgets/type/:type", h.WidgetsByType)

	prefs := d.Group("/preferences")
	{
		prefs.GET("", h.GetPreferences)
		prefs.PUT("", h.UpdatePreferences)
		prefs.DELETE("", h.DeletePreferences)
		prefs.POST("/default", h.CreateDefaultPreferences)
	}

	layouts := d.Group("/layouts")
	{
		layouts.GET("", h.ListLayouts)
		layouts.POST("", h.CreateLayout)
		layouts.GET("/default", h.DefaultLayout)
		layouts.GET("/search", h.SearchLayouts)
		layouts.POST("/import", h.Import)
		layouts.GET("/:id", h.GetLayout)
		layouts.PUT("/:id", h.UpdateLayout)
		layouts.DELETE("/:id", h.DeleteLayout)
		layouts.PUT("/:id/set-default", h.SetDefault)
		layouts.POST("/:id/duplicate", h.DuplicateLayout)
		layouts.GET("/:id/data", h.LayoutData)
		layouts.GET("/:id/export", h.Export)
	}

	widgets := layouts.Group("/:id/widgets")
	{
		widgets.GET("", h.ListWidgets)
		widgets.POST("", h.CreateWidget)
		widgets.PUT("/positions", h.UpdatePositions)
		widgets.GET("/:widgetId", h.GetWidget)
		widgets.PUT("/:widgetId", h.UpdateWidget)
		widgets.DELETE("/:widgetId", h.DeleteWidget)
		widgets.GET("/:widgetId/data", h.WidgetData)
	}
}
