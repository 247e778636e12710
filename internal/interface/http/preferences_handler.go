package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

// GetPreferences provisions defaults on first read.
func (h *DashboardHandler) GetPreferences(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	p, err := h.Preferences.GetOrCreate(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "preferences", nil)
}

func (h *DashboardHandler) UpdatePreferences(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	var req application.UpdatePreferencesInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	p, err := h.Preferences.Update(c.Request.Context(), uid, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "preferences updated", nil)
}

// CreateDefaultPreferences POST /api/dashboard/preferences/default (409 when they already exist)
func (h *DashboardHandler) CreateDefaultPreferences(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	p, err := h.Preferences.CreateDefault(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "preferences created", nil)
}

func (h *DashboardHandler) DeletePreferences(c *gin.Context) {
	uid, ok := targetUserID(c)
	if !ok {
		return
	}
	if err := h.Preferences.Delete(c.Request.Context(), uid); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "preferences deleted", nil)
}
