// File: heallink/handlers/admin.go
package handlers

import (
	"errors"
	"net/http"

	adminRepo "heallink/database/repository/admin"
	"heallink/models"
	"heallink/services/admin"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the admin dashboard account endpoints.
type AdminHandler struct {
	Service admin.AdminService
	Repo    adminRepo.AdminRepository
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(svc admin.AdminService, repo adminRepo.AdminRepository) *AdminHandler {
	return &AdminHandler{Service: svc, Repo: repo}
}

// actorFromContext loads the acting admin set by the auth middleware.
func (h *AdminHandler) actorFromContext(c *gin.Context) (*models.AdminUser, bool) {
	adminID, exists := c.Get("adminID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return nil, false
	}
	actor, err := h.Repo.GetByID(c.Request.Context(), adminID.(string))
	if err != nil || actor == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
		return nil, false
	}
	return actor, true
}

// adminErrorStatus maps service errors to HTTP status codes.
func adminErrorStatus(err error) int {
	switch {
	case errors.Is(err, admin.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, admin.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, admin.ErrEmailTaken), errors.Is(err, admin.ErrLastAdmin):
		return http.StatusConflict
	case errors.Is(err, admin.ErrBadCredential):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// SignInHandler handles POST /admin/auth/signin.
func (h *AdminHandler) SignInHandler(c *gin.Context) {
	logger := getLogger(c)
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	resp, err := h.Service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("Admin sign-in failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(adminErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAdminHandler handles POST /admin/admins.
func (h *AdminHandler) CreateAdminHandler(c *gin.Context) {
	logger := getLogger(c)
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}
	var input models.CreateAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	created, err := h.Service.CreateAdmin(c.Request.Context(), actor, input)
	if err != nil {
		logger.Error("Failed to create admin", zap.Error(err))
		c.JSON(adminErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetAdminHandler handles GET /admin/admins/:id.
func (h *AdminHandler) GetAdminHandler(c *gin.Context) {
	logger := getLogger(c)
	if _, ok := h.actorFromContext(c); !ok {
		return
	}
	id := c.Param("id")
	adm, err := h.Service.GetAdminByID(c.Request.Context(), id)
	if err != nil {
		logger.Error("Admin not found", zap.String("id", id), zap.Error(err))
		c.JSON(adminErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, adm)
}

// UpdateAdminHandler handles PATCH /admin/admins/:id.
func (h *AdminHandler) UpdateAdminHandler(c *gin.Context) {
	logger := getLogger(c)
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}
	id := c.Param("id")
	var input models.UpdateAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	updated, err := h.Service.UpdateAdmin(c.Request.Context(), actor, id, input)
	if err != nil {
		logger.Error("Failed to update admin", zap.String("id", id), zap.Error(err))
		c.JSON(adminErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteAdminHandler handles DELETE /admin/admins/:id.
func (h *AdminHandler) DeleteAdminHandler(c *gin.Context) {
	logger := getLogger(c)
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Service.DeleteAdmin(c.Request.Context(), actor, id); err != nil {
		logger.Error("Failed to delete admin", zap.String("id", id), zap.Error(err))
		c.JSON(adminErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted"})
}

// ToggleAdminStatusHandler handles PUT /admin/admins/:id/status.
func (h *AdminHandler) ToggleAdminStatusHandler(c *gin.Context) {
	logger := getLogger(c)
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}
	id := c.Param("id")
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	updated, err := h.Service.ToggleAdminStatus(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		logger.Error("Failed to toggle admin status", zap.String("id", id), zap.Error(err))
		c.JSON(adminErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListAdminsHandler handles GET /admin/admins.
func (h *AdminHandler) ListAdminsHandler(c *gin.Context) {
	logger := getLogger(c)
	if _, ok := h.actorFromContext(c); !ok {
		return
	}
	var params models.AdminQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	page, err := h.Service.ListAdmins(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list admins", zap.Error(err))
		c.JSON(adminErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetAdminStatsHandler handles GET /admin/admins/stats.
func (h *AdminHandler) GetAdminStatsHandler(c *gin.Context) {
	logger := getLogger(c)
	if _, ok := h.actorFromContext(c); !ok {
		return
	}
	stats, err := h.Service.GetAdminStats(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute admin stats", zap.Error(err))
		c.JSON(adminErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
