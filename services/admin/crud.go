package admin

import (
	"context"
	"fmt"
	"time"

	"heallink/models"
	"heallink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service-level errors surfaced as stable strings for handler mapping.
var (
	ErrForbidden     = fmt.Errorf("operation not permitted")
	ErrNotFound      = fmt.Errorf("admin not found")
	ErrEmailTaken    = fmt.Errorf("an admin with that email already exists")
	ErrLastAdmin     = fmt.Errorf("the last admin account cannot be deleted")
	ErrBadCredential = fmt.Errorf("invalid email or password")
)

// SignIn authenticates an admin and returns a signed token response.
func (s *DefaultAdminService) SignIn(ctx context.Context, email, password string) (*models.AdminAuthResponse, error) {
	account, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if account == nil || !account.IsActive {
		return nil, ErrBadCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredential
	}

	token, err := utils.GenerateToken(account.ID, account.Email, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}

	now := time.Now()
	account.LastLogin = &now
	account.TokenHash = utils.HashToken(token)
	if err := s.Repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to record sign-in: %w", err)
	}

	// Drop the cached hash of any previous token so the auth middleware
	// can't keep honoring it, and so the new token isn't rejected
	// against a stale cache entry.
	if s.TokenCache != nil {
		if err := s.TokenCache.Del(ctx, utils.AdminAuthCachePrefix+account.ID).Err(); err != nil {
			utils.GetLogger().Warn("failed to invalidate admin auth cache", zap.String("adminID", account.ID), zap.Error(err))
		}
	}

	return &models.AdminAuthResponse{
		ID:        account.ID,
		Token:     token,
		Name:      account.Name,
		Email:     account.Email,
		AdminRole: account.AdminRole,
		CreatedAt: account.CreatedAt,
	}, nil
}

// CreateAdmin creates a new admin account on behalf of the actor.
func (s *DefaultAdminService) CreateAdmin(ctx context.Context, actor *models.AdminUser, input models.CreateAdminInput) (*models.AdminUser, error) {
	if !CanCreateAdmin(actor) {
		return nil, ErrForbidden
	}

	existing, err := s.Repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if err := VerifyPasswordComplexity(input.Password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.AdminUser{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Phone:        input.Phone,
		Name:         input.Name,
		Role:         models.RoleAdmin,
		AdminRole:    input.AdminRole,
		Permissions:  input.Permissions,
		AvatarURL:    input.AvatarURL,
		IsActive:     true,
		PasswordHash: string(hashed),
	}
	if err := s.Repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return account, nil
}

// GetAdminByID fetches a single admin account.
func (s *DefaultAdminService) GetAdminByID(ctx context.Context, id string) (*models.AdminUser, error) {
	account, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch admin: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

// UpdateAdmin applies a partial update to the target account.
func (s *DefaultAdminService) UpdateAdmin(ctx context.Context, actor *models.AdminUser, id string, input models.UpdateAdminInput) (*models.AdminUser, error) {
	target, err := s.GetAdminByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanEditAdmin(actor, target) {
		return nil, ErrForbidden
	}

	if input.Email != nil && *input.Email != target.Email {
		existing, err := s.Repo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing admin: %w", err)
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		target.Email = *input.Email
	}
	if input.Phone != nil {
		target.Phone = *input.Phone
	}
	if input.Name != nil {
		target.Name = *input.Name
	}
	if input.Password != nil {
		if err := VerifyPasswordComplexity(*input.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		target.PasswordHash = string(hashed)
	}
	if input.AdminRole != nil {
		target.AdminRole = *input.AdminRole
	}
	if input.Permissions != nil {
		target.Permissions = input.Permissions
	}
	if input.AvatarURL != nil {
		target.AvatarURL = *input.AvatarURL
	}
	if input.IsActive != nil {
		target.IsActive = *input.IsActive
	}

	if err := s.Repo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}
	return target, nil
}

// DeleteAdmin removes the target account, refusing to delete the last
// remaining admin.
func (s *DefaultAdminService) DeleteAdmin(ctx context.Context, actor *models.AdminUser, id string) error {
	target, err := s.GetAdminByID(ctx, id)
	if err != nil {
		return err
	}

	total, err := s.Repo.Count(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if !CanDeleteAdmin(actor, target, total) {
		if target.Role == models.RoleAdmin && total <= 1 {
			return ErrLastAdmin
		}
		return ErrForbidden
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	return nil
}

// ToggleAdminStatus activates or deactivates the target account.
func (s *DefaultAdminService) ToggleAdminStatus(ctx context.Context, actor *models.AdminUser, id string, active bool) (*models.AdminUser, error) {
	target, err := s.GetAdminByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanToggleAdminStatus(actor, target) {
		return nil, ErrForbidden
	}

	target.IsActive = active
	if err := s.Repo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update admin status: %w", err)
	}
	return target, nil
}

// ListAdmins returns a paginated page of admin accounts.
func (s *DefaultAdminService) ListAdmins(ctx context.Context, params models.AdminQueryParams) (*models.AdminListResponse, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}

	admins, total, err := s.Repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return &models.AdminListResponse{
		Admins:     admins,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetAdminStats summarizes the admin population for the dashboard.
func (s *DefaultAdminService) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	total, err := s.Repo.Count(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	active, err := s.Repo.Count(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count active admins: %w", err)
	}
	recent, err := s.Repo.CountCreatedSince(ctx, 30)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent admins: %w", err)
	}
	distribution, err := s.Repo.RoleDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate role distribution: %w", err)
	}

	return &models.AdminStats{
		TotalAdmins:      total,
		ActiveAdmins:     active,
		RecentlyCreated:  recent,
		RoleDistribution: distribution,
	}, nil
}
