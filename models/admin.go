package models

import "time"

// Top-level account roles.
const (
	RoleUser     = "user"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Admin sub-roles controlling which dashboard areas an admin can manage.
const (
	AdminRoleSuperAdmin    = "super_admin"
	AdminRoleSystemAdmin   = "system_admin"
	AdminRoleUserAdmin     = "user_admin"
	AdminRoleProviderAdmin = "provider_admin"
	AdminRoleContentAdmin  = "content_admin"
	AdminRoleBillingAdmin  = "billing_admin"
	AdminRoleSupportAdmin  = "support_admin"
	AdminRoleReadonlyAdmin = "readonly_admin"
)

// AdminUser is an administrative dashboard account.
type AdminUser struct {
	ID            string     `json:"id" bson:"id"`
	Email         string     `json:"email" bson:"email"`
	Phone         string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Name          string     `json:"name" bson:"name"`
	Role          string     `json:"role" bson:"role"`
	AdminRole     string     `json:"adminRole" bson:"admin_role"`
	Permissions   []string   `json:"permissions,omitempty" bson:"permissions,omitempty"`
	AvatarURL     string     `json:"avatarUrl,omitempty" bson:"avatar_url,omitempty"`
	EmailVerified bool       `json:"emailVerified" bson:"email_verified"`
	PhoneVerified bool       `json:"phoneVerified" bson:"phone_verified"`
	IsActive      bool       `json:"isActive" bson:"is_active"`
	PasswordHash  string     `json:"-" bson:"password_hash"`
	TokenHash     string     `json:"-" bson:"token_hash,omitempty"`
	LastLogin     *time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updated_at"`
}

// CreateAdminInput is the payload for creating an admin account.
type CreateAdminInput struct {
	Email       string   `json:"email" binding:"required"`
	Phone       string   `json:"phone,omitempty"`
	Name        string   `json:"name" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	AdminRole   string   `json:"adminRole" binding:"required"`
	Permissions []string `json:"permissions,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
}

// UpdateAdminInput is the partial-update payload for an admin account.
// Nil pointers leave the corresponding field untouched.
type UpdateAdminInput struct {
	Email       *string  `json:"email,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Password    *string  `json:"password,omitempty"`
	AdminRole   *string  `json:"adminRole,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	AvatarURL   *string  `json:"avatarUrl,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// AdminQueryParams narrows and pages the admin list endpoint.
type AdminQueryParams struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Search    string `form:"search"`
	AdminRole string `form:"adminRole"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"` // "asc" or "desc"
}

// AdminListResponse is a paginated page of admin accounts.
type AdminListResponse struct {
	Admins     []AdminUser `json:"admins"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// AdminStats summarizes the admin account population.
type AdminStats struct {
	TotalAdmins      int64            `json:"totalAdmins"`
	ActiveAdmins     int64            `json:"activeAdmins"`
	RecentlyCreated  int64            `json:"recentlyCreated"`
	RoleDistribution map[string]int64 `json:"roleDistribution"`
}

// AdminAuthResponse is returned after a successful admin sign-in.
type AdminAuthResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AdminRole string    `json:"adminRole"`
	CreatedAt time.Time `json:"createdAt"`
}
