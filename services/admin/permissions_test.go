package admin

import (
	"testing"

	"heallink/models"

	"github.com/stretchr/testify/assert"
)

func adminUser(id string) *models.AdminUser {
	return &models.AdminUser{ID: id, Role: models.RoleAdmin, AdminRole: models.AdminRoleSystemAdmin}
}

func TestCanCreateAdmin(t *testing.T) {
	assert.True(t, CanCreateAdmin(adminUser("a1")))
	assert.False(t, CanCreateAdmin(&models.AdminUser{ID: "u1", Role: models.RoleUser}))
	assert.False(t, CanCreateAdmin(nil))
}

func TestCanEditAdmin(t *testing.T) {
	actor := adminUser("a1")

	assert.True(t, CanEditAdmin(actor, adminUser("a2")))
	assert.False(t, CanEditAdmin(actor, actor), "no self-edit through the management surface")
	assert.False(t, CanEditAdmin(nil, adminUser("a2")))
	assert.False(t, CanEditAdmin(actor, nil))
	assert.False(t, CanEditAdmin(&models.AdminUser{ID: "p1", Role: models.RoleProvider}, adminUser("a2")))
}

func TestCanDeleteAdminProtectsLastAdmin(t *testing.T) {
	actor := adminUser("a1")
	target := adminUser("a2")

	assert.True(t, CanDeleteAdmin(actor, target, 2))
	assert.False(t, CanDeleteAdmin(actor, target, 1), "last admin account must survive")
	assert.False(t, CanDeleteAdmin(actor, actor, 5))
}

func TestCanToggleAdminStatus(t *testing.T) {
	actor := adminUser("a1")

	assert.True(t, CanToggleAdminStatus(actor, adminUser("a2")))
	assert.False(t, CanToggleAdminStatus(actor, actor))
}

func TestCanViewAdminManagement(t *testing.T) {
	assert.True(t, CanViewAdminManagement(adminUser("a1")))
	assert.False(t, CanViewAdminManagement(&models.AdminUser{ID: "u1", Role: models.RoleUser}))
	assert.False(t, CanViewAdminManagement(nil))
}
