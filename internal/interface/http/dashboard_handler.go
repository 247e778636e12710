package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

// DashboardHandler serves layouts, widgets, preferences and the aggregated dashboard.
// Every route acts on the caller unless an admin passes ?userId=.
type DashboardHandler struct {
	Layouts     *application.LayoutService
	Widgets     *application.WidgetService
	Preferences *application.PreferencesService
	Dashboard   *application.DashboardService
	Logger      *logrus.Logger
}

func NewDashboardHandler(layouts *application.LayoutService, widgets *application.WidgetService, prefs *application.PreferencesService, dash *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Layouts: layouts, Widgets: widgets, Preferences: prefs, Dashboard: dash, Logger: helpers.OrNop(logger)}
}

// Complete GET /api/dashboard/complete?userId=&layoutId=&includeWidgetData=
func (h *DashboardHandler) Complete(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	d, err := h.Dashboard.CompleteDashboard(c.Request.Context(), uid, c.Query("layoutId"), queryBool(c, "includeWidgetData", false))
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Warn("complete dashboard")
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, d, "dashboard", nil)
}

// Initialize POST /api/dashboard/initialize
func (h *DashboardHandler) Initialize(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	d, err := h.Dashboard.Initialize(c.Request.Context(), uid, queryBool(c, "includeWidgetData", false))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, d, "dashboard initialized", nil)
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	s, err := h.Dashboard.Stats(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, s, "dashboard stats", nil)
}

// Export GET /api/dashboard/layouts/:id/export
func (h *DashboardHandler) Export(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	doc, err := h.Dashboard.ExportConfig(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc, "layout exported", nil)
}

// Import POST /api/dashboard/layouts/import
func (h *DashboardHandler) Import(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	var doc application.ImportDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Invalid(c, err)
		return
	}
	l, err := h.Dashboard.ImportConfig(c.Request.Context(), uid, doc)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l, "layout imported", nil)
}

// Backup POST /api/dashboard/backup
func (h *DashboardHandler) Backup(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	doc, err := h.Dashboard.Backup(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc, "dashboard backup", nil)
}

// Restore POST /api/dashboard/restore
func (h *DashboardHandler) Restore(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	var doc application.BackupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Invalid(c, err)
		return
	}
	res, err := h.Dashboard.Restore(c.Request.Context(), uid, doc)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "dashboard restored", nil)
}
