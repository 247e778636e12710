package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

type positionsRequest struct {
	Positions []application.WidgetPosition `json:"positions" binding:"required,min=1,dive"`
}

func (h *DashboardHandler) CreateWidget(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	var req application.CreateWidgetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	w, err := h.Widgets.CreateWidget(c.Request.Context(), uid, c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, w, "widget created", nil)
}

func (h *DashboardHandler) ListWidgets(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	ws, err := h.Widgets.ListWidgets(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ws, "widgets", nil)
}

func (h *DashboardHandler) GetWidget(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	w, err := h.Widgets.GetWidget(c.Request.Context(), uid, c.Param("id"), c.Param("widgetId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, w, "widget", nil)
}

func (h *DashboardHandler) UpdateWidget(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	var req application.UpdateWidgetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	w, err := h.Widgets.UpdateWidget(c.Request.Context(), uid, c.Param("id"), c.Param("widgetId"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, w, "widget updated", nil)
}

func (h *DashboardHandler) DeleteWidget(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	if err := h.Widgets.DeleteWidget(c.Request.Context(), uid, c.Param("id"), c.Param("widgetId")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "widget deleted", nil)
}

// UpdatePositions PUT /api/dashboard/layouts/:id/widgets/positions applies all positions or none.
func (h *DashboardHandler) UpdatePositions(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	var req positionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	ws, err := h.Widgets.UpdatePositions(c.Request.Context(), uid, c.Param("id"), req.Positions)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ws, "positions updated", nil)
}

func (h *DashboardHandler) WidgetData(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	d, err := h.Widgets.WidgetData(c.Request.Context(), uid, c.Param("id"), c.Param("widgetId"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, d, "widget data", nil)
}

// WidgetsByType GET /api/dashboard/widgets/type/:type
func (h *DashboardHandler) WidgetsByType(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	t := entity.WidgetType(strings.ToUpper(c.Param("type")))
	ws, err := h.Widgets.WidgetsByType(c.Request.Context(), uid, t)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ws, "widgets", nil)
}

func (h *DashboardHandler) WidgetTypes(c *gin.Context) {
	response.Success(c, http.StatusOK, h.Widgets.WidgetTypes(), "widget types", nil)
}
