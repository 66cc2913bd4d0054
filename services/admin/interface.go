package admin

import (
	"context"
	"fmt"

	adminRepo "heallink/database/repository/admin"
	"heallink/models"

	"github.com/go-redis/redis/v8"
)

// AdminService manages administrative dashboard accounts.
type AdminService interface {
	// Authentication
	SignIn(ctx context.Context, email, password string) (*models.AdminAuthResponse, error)

	// Account management
	CreateAdmin(ctx context.Context, actor *models.AdminUser, input models.CreateAdminInput) (*models.AdminUser, error)
	GetAdminByID(ctx context.Context, id string) (*models.AdminUser, error)
	UpdateAdmin(ctx context.Context, actor *models.AdminUser, id string, input models.UpdateAdminInput) (*models.AdminUser, error)
	DeleteAdmin(ctx context.Context, actor *models.AdminUser, id string) error
	ToggleAdminStatus(ctx context.Context, actor *models.AdminUser, id string, active bool) (*models.AdminUser, error)
	ListAdmins(ctx context.Context, params models.AdminQueryParams) (*models.AdminListResponse, error)
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)
}

// TokenCache holds cached auth token hashes keyed by admin ID. SignIn
// must be able to drop an entry so a re-login does not leave the old
// token's hash live in the cache.
type TokenCache interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	Repo       adminRepo.AdminRepository
	TokenCache TokenCache
}

func NewDefaultAdminService(repo adminRepo.AdminRepository, tokenCache TokenCache) (*DefaultAdminService, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin service initialization error: repository is nil")
	}
	return &DefaultAdminService{Repo: repo, TokenCache: tokenCache}, nil
}
