package admin

import "heallink/models"

// Derived permission checks for admin account management. These mirror
// the dashboard's gating rules; the service enforces them server-side so
// a crafted request cannot bypass the UI.

// CanCreateAdmin reports whether the actor may create admin accounts.
func CanCreateAdmin(actor *models.AdminUser) bool {
	return actor != nil && actor.Role == models.RoleAdmin
}

// CanEditAdmin reports whether the actor may modify the target account.
// Admins cannot edit their own account through the management surface.
func CanEditAdmin(actor *models.AdminUser, target *models.AdminUser) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.Role != models.RoleAdmin {
		return false
	}
	if actor.ID == target.ID {
		return false
	}
	return true
}

// CanDeleteAdmin reports whether the actor may delete the target. The
// last remaining admin account can never be deleted, or the dashboard
// would lock everyone out.
func CanDeleteAdmin(actor *models.AdminUser, target *models.AdminUser, totalAdmins int64) bool {
	if !CanEditAdmin(actor, target) {
		return false
	}
	if target.Role == models.RoleAdmin && totalAdmins <= 1 {
		return false
	}
	return true
}

// CanToggleAdminStatus reports whether the actor may activate or
// deactivate the target.
func CanToggleAdminStatus(actor *models.AdminUser, target *models.AdminUser) bool {
	return CanEditAdmin(actor, target)
}

// CanViewAdminManagement reports whether the actor may see the admin
// management area at all.
func CanViewAdminManagement(actor *models.AdminUser) bool {
	return actor != nil && actor.Role == models.RoleAdmin
}
