package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/application"
	"github.com/oksasatya/go-dashboard-api/internal/interface/middleware"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
	"github.com/oksasatya/go-dashboard-api/pkg/metrics"
	"github.com/oksasatya/go-dashboard-api/pkg/response"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Users   *application.UserService
	Cookies *helpers.Manager
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, users *application.UserService, cookies *helpers.Manager, m *metrics.Metrics, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Users: users, Cookies: cookies, Metrics: m, Logger: helpers.OrNop(logger)}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type resetPINRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	PIN         string `json:"pin" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

func (h *AuthHandler) setCookies(c *gin.Context, p application.TokenPair) {
	h.Cookies.SetPair(c, p.AccessToken, p.AccessTokenExpiry, p.RefreshToken, p.RefreshTokenExpiry)
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req application.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	res, err := h.Auth.Signup(c.Request.Context(), req, requestMeta(c))
	h.Metrics.Auth("signup", err == nil)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.setCookies(c, res.Tokens)
	response.Success(c, http.StatusCreated, res, "account created", nil)
}

// Signin POST /api/auth/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req application.SigninInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	res, err := h.Auth.Signin(c.Request.Context(), req, requestMeta(c))
	h.Metrics.Auth("signin", err == nil)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.setCookies(c, res.Tokens)
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

// Refresh POST /api/auth/refresh. The token comes from the cookie or the JSON body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(helpers.RefreshCookie)
	if token == "" {
		var req refreshRequest
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Auth.Refresh(c.Request.Context(), token)
	h.Metrics.Auth("refresh", err == nil)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.setCookies(c, pair)
	response.Success(c, http.StatusOK, pair, "token refreshed", nil)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.CurrentUserID(c), requestMeta(c)); err != nil {
		h.Logger.WithError(err).Warn("logout: session not cleared")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// ResetPIN POST /api/auth/reset-pin. Always answers 200 so callers cannot probe for accounts.
func (h *AuthHandler) ResetPIN(c *gin.Context) {
	var req resetPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	_, err := h.Users.GenerateResetPIN(c.Request.Context(), req.Email)
	h.Metrics.Auth("reset_pin", err == nil)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		h.Logger.WithError(err).Error("reset pin")
	}
	response.Success[any](c, http.StatusOK, nil, "if the account exists, a reset PIN has been sent", nil)
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	err := h.Users.ResetPassword(c.Request.Context(), req.Email, req.PIN, req.NewPassword)
	h.Metrics.Auth("reset_password", err == nil)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			err = apperror.Unauthorized("invalid or expired PIN")
		}
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated", nil)
}
