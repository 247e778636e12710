package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

type createLayoutFunc func(ctx context.Context, userID string, in application.CreateLayoutInput) (*application.LayoutDTO, error)

// CreateDashboard POST /api/dashboard creates a layout seeded with starter widgets.
func (h *DashboardHandler) CreateDashboard(c *gin.Context) {
	h.createLayout(c, h.Layouts.CreateDashboard)
}

// CreateLayout POST /api/dashboard/layouts creates an empty layout.
func (h *DashboardHandler) CreateLayout(c *gin.Context) {
	h.createLayout(c, h.Layouts.CreateLayout)
}

func (h *DashboardHandler) createLayout(c *gin.Context, create createLayoutFunc) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	var req application.CreateLayoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	l, err := create(c.Request.Context(), uid, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l, "layout created", nil)
}

func (h *DashboardHandler) ListLayouts(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	page, err := h.Layouts.ListLayouts(c.Request.Context(), uid, pageRequest(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page, "layouts", nil)
}

// SearchLayouts GET /api/dashboard/layouts/search?searchTerm= (q is accepted as an alias)
func (h *DashboardHandler) SearchLayouts(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	term := c.Query("searchTerm")
	if term == "" {
		term = c.Query("q")
	}
	page, err := h.Layouts.SearchLayouts(c.Request.Context(), uid, term, pageRequest(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page, "layouts", nil)
}

// DefaultLayout never provisions; a user without a default gets 404.
func (h *DashboardHandler) DefaultLayout(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	l, err := h.Layouts.GetDefaultLayout(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "default layout", nil)
}

func (h *DashboardHandler) GetLayout(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	l, err := h.Layouts.GetLayout(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "layout", nil)
}

func (h *DashboardHandler) UpdateLayout(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	var req application.UpdateLayoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	l, err := h.Layouts.UpdateLayout(c.Request.Context(), uid, c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "layout updated", nil)
}

func (h *DashboardHandler) DeleteLayout(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	if err := h.Layouts.DeleteLayout(c.Request.Context(), uid, c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "layout deleted", nil)
}

func (h *DashboardHandler) SetDefault(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	l, err := h.Layouts.SetDefault(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "default layout set", nil)
}

// DuplicateLayout POST /api/dashboard/layouts/:id/duplicate?newName=
func (h *DashboardHandler) DuplicateLayout(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	l, err := h.Layouts.DuplicateLayout(c.Request.Context(), uid, c.Param("id"), strings.TrimSpace(c.Query("newName")))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l, "layout duplicated", nil)
}

func (h *DashboardHandler) LayoutData(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	d, err := h.Layouts.LayoutData(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, d, "layout data", nil)
}
