// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"khata-service/internal/domain/shopkeeper"
	"khata-service/internal/middleware"
	"khata-service/internal/pkg/response"
	"khata-service/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

// Register creates a shopkeeper account.
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req shopkeeper.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	sk, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to register")
		return
	}

	response.Success(c, http.StatusCreated, "account created", sk)
}

// Login exchanges phone and password for an access token.
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req shopkeeper.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to login")
		return
	}

	response.Success(c, http.StatusOK, "login successful", resp)
}

// Me returns the authenticated shopkeeper's profile.
// GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	sk, err := h.service.GetMe(c.Request.Context(), middleware.MustGetShopkeeperID(c))
	if err != nil {
		response.FromError(c, err, "failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, "profile", sk)
}

// Logout revokes the current session only.
// POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	err := h.service.Logout(c.Request.Context(), middleware.MustGetShopkeeperID(c), middleware.MustGetJTI(c))
	if err != nil {
		response.FromError(c, err, "failed to logout")
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// LogoutAll revokes every session across devices.
// POST /api/v1/auth/logout-all
func (h *Handler) LogoutAll(c *gin.Context) {
	if err := h.service.LogoutAll(c.Request.Context(), middleware.MustGetShopkeeperID(c)); err != nil {
		response.FromError(c, err, "failed to logout")
		return
	}

	response.Success(c, http.StatusOK, "all sessions revoked", nil)
}
