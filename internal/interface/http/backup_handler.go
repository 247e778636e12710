package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/metrics"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

// BackupHandler exposes whole-database dumps to administrators.
type BackupHandler struct {
	Svc     *application.BackupService
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
}

func NewBackupHandler(svc *application.BackupService, m *metrics.Metrics, logger *logrus.Logger) *BackupHandler {
	return &BackupHandler{Svc: svc, Metrics: m, Logger: helpers.OrNop(logger)}
}

type importBackupRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *BackupHandler) List(c *gin.Context) {
	files, err := h.Svc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, files, "backups", nil)
}

// Export GET /api/backups/export dumps the database into a new file.
func (h *BackupHandler) Export(c *gin.Context) {
	f, err := h.Svc.Export(c.Request.Context())
	h.Metrics.Backup("export", err == nil)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, f, "backup created", nil)
}

// Download GET /api/backups/download/:name streams the stored file.
func (h *BackupHandler) Download(c *gin.Context) {
	name := c.Param("name")
	rc, err := h.Svc.Open(c.Request.Context(), name)
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer func() { _ = rc.Close() }()
	c.DataFromReader(http.StatusOK, -1, "application/sql", rc, map[string]string{
		"Content-Disposition": `attachment; filename="` + name + `"`,
	})
}

// Upload POST /api/backups/upload (multipart field "file")
func (h *BackupHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "backup file is required", nil)
		return
	}
	src, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read backup file", nil)
		return
	}
	defer func() { _ = src.Close() }()

	f, err := h.Svc.Upload(c.Request.Context(), filepath.Base(fh.Filename), src)
	h.Metrics.Backup("upload", err == nil)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, f, "backup uploaded", nil)
}

// Import POST /api/backups/import {"name": "..."} restores a stored dump.
func (h *BackupHandler) Import(c *gin.Context) {
	var req importBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	err := h.Svc.Import(c.Request.Context(), req.Name)
	h.Metrics.Backup("import", err == nil)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"name": req.Name}, "backup imported", nil)
}
