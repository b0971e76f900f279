package services

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/releaserite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seeder := NewSeeder(db, zap.NewNop())

	first, err := seeder.Seed(ctx, DefaultRoles, DefaultUsers)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRoles), first.RolesCreated)
	assert.Equal(t, len(DefaultUsers), first.UsersCreated)

	second, err := seeder.Seed(ctx, DefaultRoles, DefaultUsers)
	require.NoError(t, err)
	assert.Zero(t, second.RolesCreated)
	assert.Zero(t, second.UsersCreated)
	assert.Equal(t, len(DefaultRoles), second.RolesUpdated)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(len(DefaultUsers)), users)

	auth, _ := newAuthService(t, db)
	_, _, err = auth.Login(ctx, DefaultAdminEmail, "Admin123!")
	require.NoError(t, err)

	var rm models.User
	require.NoError(t, db.Preload("Role").First(&rm, "email = ?", "rm@example.com").Error)
	assert.NoError(t, Authorize(&rm, PermCreateReleases))
	assert.Error(t, Authorize(&rm, PermCreateUsers))
}

func TestSeedRefreshesRolePermissions(t *testing.T) {
	db := newTestDB(t)
	createRole(t, db, "qa_engineer", "read:releases")

	_, err := NewSeeder(db, zap.NewNop()).Seed(ctx, DefaultRoles, nil)
	require.NoError(t, err)

	var role models.Role
	require.NoError(t, db.First(&role, "name = ?", "qa_engineer").Error)
	assert.True(t, role.Grants(PermReadServices))
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	seeder := NewSeeder(db, zap.NewNop())
	_, err := seeder.Seed(ctx, DefaultRoles, DefaultUsers)
	require.NoError(t, err)

	require.NoError(t, seeder.ResetPassword(ctx, DefaultAdminEmail, "N3w-admin-pass"))

	auth, _ := newAuthService(t, db)
	_, _, err = auth.Login(ctx, DefaultAdminEmail, "N3w-admin-pass")
	assert.NoError(t, err)

	err = seeder.ResetPassword(ctx, "ghost@example.com", "whatever1")
	assert.True(t, errors.Is(err, ErrNotFound))
}
