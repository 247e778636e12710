package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: helpers.OrNop(logger)}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

type googleDriveRequest struct {
	Linked       *bool  `json:"linked" binding:"required"`
	RefreshToken string `json:"refresh_token"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	h.update(c, middleware.CurrentUserID(c), "profile updated")
}

func (h *UserHandler) update(c *gin.Context, id, msg string) {
	var req application.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, msg, nil)
}

// ChangePassword PUT /api/profile/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	if err := h.Svc.UpdatePassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusBadRequest, "avatar must be 5MB or smaller", nil)
		return
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		response.Error[any](c, http.StatusBadRequest, "avatar must be an image", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.CurrentUserID(c), f, fh.Filename, ct)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}

// Admin endpoints below.

func (h *UserHandler) List(c *gin.Context) {
	page, err := h.Svc.List(c.Request.Context(), pageRequest(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page, "users", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req application.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Update(c *gin.Context) { h.update(c, c.Param("id"), "user updated") }

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "user deleted", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	page, err := h.Svc.Search(c.Request.Context(), c.Query("q"), pageRequest(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page, "users", nil)
}

// Suggest GET /api/users/suggest?q=&size= (Elasticsearch prefix search)
func (h *UserHandler) Suggest(c *gin.Context) {
	hits, err := h.Svc.Suggest(c.Request.Context(), c.Query("q"), queryInt(c, "size", 10))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "suggestions", nil)
}

func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "user stats", nil)
}

func (h *UserHandler) ByRole(c *gin.Context) {
	role := entity.Role(strings.ToUpper(c.Param("role")))
	page, err := h.Svc.ListByRole(c.Request.Context(), role, pageRequest(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, page, "users", nil)
}

func (h *UserHandler) ByEmail(c *gin.Context) {
	u, err := h.Svc.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) ByUsername(c *gin.Context) {
	u, err := h.Svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) ExistsByEmail(c *gin.Context) {
	ok, err := h.Svc.ExistsByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exists": ok}, "", nil)
}

func (h *UserHandler) ExistsByUsername(c *gin.Context) {
	ok, err := h.Svc.ExistsByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exists": ok}, "", nil)
}

func (h *UserHandler) GoogleDriveLinked(c *gin.Context) {
	users, err := h.Svc.ListGoogleDriveLinked(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "google drive linked users", nil)
}

func (h *UserHandler) SetGoogleDrive(c *gin.Context) {
	var req googleDriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	u, err := h.Svc.SetGoogleDriveLink(c.Request.Context(), c.Param("id"), *req.Linked, req.RefreshToken)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "google drive link updated", nil)
}

func (h *UserHandler) TouchLastLogin(c *gin.Context) {
	if err := h.Svc.TouchLastLogin(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "last login updated", nil)
}
