package admin

import (
	"context"
	"testing"
	"time"

	"heallink/models"
	"heallink/utils"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeAdminRepo is an in-memory AdminRepository for service tests.
type fakeAdminRepo struct {
	admins map[string]*models.AdminUser
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]*models.AdminUser)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.AdminUser) error {
	cp := *admin
	cp.CreatedAt = time.Now()
	r.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	if a, ok := r.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) Update(ctx context.Context, admin *models.AdminUser) error {
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) Delete(ctx context.Context, id string) error {
	delete(r.admins, id)
	return nil
}

func (r *fakeAdminRepo) List(ctx context.Context, params models.AdminQueryParams) ([]models.AdminUser, int64, error) {
	out := make([]models.AdminUser, 0, len(r.admins))
	for _, a := range r.admins {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAdminRepo) Count(ctx context.Context, onlyActive bool) (int64, error) {
	var n int64
	for _, a := range r.admins {
		if !onlyActive || a.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *fakeAdminRepo) CountCreatedSince(ctx context.Context, cutoffDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -cutoffDays)
	var n int64
	for _, a := range r.admins {
		if a.CreatedAt.After(cutoff) {
			n++
		}
	}
	return n, nil
}

func (r *fakeAdminRepo) RoleDistribution(ctx context.Context) (map[string]int64, error) {
	dist := make(map[string]int64)
	for _, a := range r.admins {
		dist[a.AdminRole]++
	}
	return dist, nil
}

// fakeTokenCache records which auth cache keys were dropped.
type fakeTokenCache struct {
	deleted []string
}

func (c *fakeTokenCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.deleted = append(c.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newTestService(t *testing.T) (*DefaultAdminService, *fakeAdminRepo) {
	t.Helper()
	repo := newFakeAdminRepo()
	svc, err := NewDefaultAdminService(repo, &fakeTokenCache{})
	require.NoError(t, err)
	return svc, repo
}

func seedAdmin(t *testing.T, repo *fakeAdminRepo, id, email, password string) *models.AdminUser {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	a := &models.AdminUser{
		ID:           id,
		Email:        email,
		Name:         "Admin " + id,
		Role:         models.RoleAdmin,
		AdminRole:    models.AdminRoleSystemAdmin,
		IsActive:     true,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestSignIn(t *testing.T) {
	svc, repo := newTestService(t)
	seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")
	ctx := context.Background()

	resp, err := svc.SignIn(ctx, "a1@heallink.example", "S3cure!pass")
	require.NoError(t, err)
	assert.Equal(t, "a1", resp.ID)
	assert.NotEmpty(t, resp.Token)

	// The sign-in is recorded on the account.
	stored, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.TokenHash)
	assert.NotNil(t, stored.LastLogin)
}

func TestSignInInvalidatesCachedTokenHash(t *testing.T) {
	repo := newFakeAdminRepo()
	cache := &fakeTokenCache{}
	svc, err := NewDefaultAdminService(repo, cache)
	require.NoError(t, err)
	seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")
	ctx := context.Background()

	first, err := svc.SignIn(ctx, "a1@heallink.example", "S3cure!pass")
	require.NoError(t, err)
	second, err := svc.SignIn(ctx, "a1@heallink.example", "S3cure!pass")
	require.NoError(t, err)

	// Every sign-in drops the cached hash, so the middleware can never
	// keep honoring the first token against a stale cache entry.
	require.Len(t, cache.deleted, 2)
	assert.Equal(t, utils.AdminAuthCachePrefix+"a1", cache.deleted[0])
	assert.Equal(t, utils.AdminAuthCachePrefix+"a1", cache.deleted[1])

	// Mongo now holds only the latest token's hash.
	stored, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, utils.HashToken(second.Token), stored.TokenHash)
	assert.NotEqual(t, utils.HashToken(first.Token), stored.TokenHash)
}

func TestSignInRejectsBadPassword(t *testing.T) {
	svc, repo := newTestService(t)
	seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")

	_, err := svc.SignIn(context.Background(), "a1@heallink.example", "wrong")
	assert.ErrorIs(t, err, ErrBadCredential)
}

func TestSignInRejectsUnknownAndInactiveAccounts(t *testing.T) {
	svc, repo := newTestService(t)
	a := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")
	ctx := context.Background()

	_, err := svc.SignIn(ctx, "nobody@heallink.example", "S3cure!pass")
	assert.ErrorIs(t, err, ErrBadCredential)

	a.IsActive = false
	require.NoError(t, repo.Update(ctx, a))
	_, err = svc.SignIn(ctx, "a1@heallink.example", "S3cure!pass")
	assert.ErrorIs(t, err, ErrBadCredential)
}

func TestCreateAdmin(t *testing.T) {
	svc, repo := newTestService(t)
	actor := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")
	ctx := context.Background()

	created, err := svc.CreateAdmin(ctx, actor, models.CreateAdminInput{
		Email:     "a2@heallink.example",
		Name:      "Second Admin",
		Password:  "An0ther!pass",
		AdminRole: models.AdminRoleUserAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "An0ther!pass", created.PasswordHash)
}

func TestCreateAdminRejectsDuplicateEmail(t *testing.T) {
	svc, repo := newTestService(t)
	actor := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")

	_, err := svc.CreateAdmin(context.Background(), actor, models.CreateAdminInput{
		Email:     "a1@heallink.example",
		Name:      "Duplicate",
		Password:  "An0ther!pass",
		AdminRole: models.AdminRoleUserAdmin,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateAdminRejectsWeakPassword(t *testing.T) {
	svc, repo := newTestService(t)
	actor := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")

	_, err := svc.CreateAdmin(context.Background(), actor, models.CreateAdminInput{
		Email:     "a2@heallink.example",
		Name:      "Weak",
		Password:  "weak",
		AdminRole: models.AdminRoleUserAdmin,
	})
	assert.Error(t, err)
}

func TestCreateAdminRequiresAdminActor(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAdmin(context.Background(), &models.AdminUser{ID: "u1", Role: models.RoleUser}, models.CreateAdminInput{
		Email:     "a2@heallink.example",
		Name:      "Nope",
		Password:  "An0ther!pass",
		AdminRole: models.AdminRoleUserAdmin,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateAdminAppliesPartialChanges(t *testing.T) {
	svc, repo := newTestService(t)
	actor := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")
	seedAdmin(t, repo, "a2", "a2@heallink.example", "S3cure!pass")
	ctx := context.Background()

	name := "Renamed"
	role := models.AdminRoleBillingAdmin
	updated, err := svc.UpdateAdmin(ctx, actor, "a2", models.UpdateAdminInput{
		Name:      &name,
		AdminRole: &role,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.AdminRoleBillingAdmin, updated.AdminRole)
	assert.Equal(t, "a2@heallink.example", updated.Email, "untouched fields survive")
}

func TestUpdateAdminForbidsSelfEdit(t *testing.T) {
	svc, repo := newTestService(t)
	actor := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")

	name := "Self"
	_, err := svc.UpdateAdmin(context.Background(), actor, "a1", models.UpdateAdminInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteAdmin(t *testing.T) {
	svc, repo := newTestService(t)
	actor := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")
	seedAdmin(t, repo, "a2", "a2@heallink.example", "S3cure!pass")
	ctx := context.Background()

	require.NoError(t, svc.DeleteAdmin(ctx, actor, "a2"))

	_, err := svc.GetAdminByID(ctx, "a2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAdminRefusesLastAdmin(t *testing.T) {
	svc, repo := newTestService(t)
	actor := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")

	err := svc.DeleteAdmin(context.Background(), actor, "a1")
	assert.ErrorIs(t, err, ErrLastAdmin)
}

func TestToggleAdminStatus(t *testing.T) {
	svc, repo := newTestService(t)
	actor := seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")
	seedAdmin(t, repo, "a2", "a2@heallink.example", "S3cure!pass")
	ctx := context.Background()

	updated, err := svc.ToggleAdminStatus(ctx, actor, "a2", false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestListAdminsNormalizesPaging(t *testing.T) {
	svc, repo := newTestService(t)
	seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")

	page, err := svc.ListAdmins(context.Background(), models.AdminQueryParams{Page: 0, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestGetAdminStats(t *testing.T) {
	svc, repo := newTestService(t)
	seedAdmin(t, repo, "a1", "a1@heallink.example", "S3cure!pass")
	a2 := seedAdmin(t, repo, "a2", "a2@heallink.example", "S3cure!pass")
	a2.IsActive = false
	require.NoError(t, repo.Update(context.Background(), a2))

	stats, err := svc.GetAdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalAdmins)
	assert.Equal(t, int64(1), stats.ActiveAdmins)
	assert.Equal(t, int64(2), stats.RecentlyCreated)
	assert.Equal(t, int64(2), stats.RoleDistribution[models.AdminRoleSystemAdmin])
}
