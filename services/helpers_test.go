package services

import (
	"context"
	"testing"
	"time"

	"github.com/releaserite/config"
	"github.com/releaserite/database"
	"github.com/releaserite/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	// Keep hashing fast in tests
	passwordCost = bcrypt.MinCost
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite://:memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func testConfig() config.Config {
	return config.Config{
		SecretKey:      "test-secret-key",
		Algorithm:      "HS256",
		AccessTokenTTL: 60 * time.Minute,
	}
}

func strPtr(s string) *string {
	return &s
}

func createRole(t *testing.T, db *gorm.DB, name, permissions string) models.Role {
	t.Helper()
	role := models.Role{Name: name}
	role.SetPermissions(&permissions)
	require.NoError(t, db.Create(&role).Error)
	return role
}

func createUser(t *testing.T, db *gorm.DB, email, password string, role *models.Role) models.User {
	t.Helper()
	hashed, err := HashPassword(password)
	require.NoError(t, err)
	user := models.User{Email: email, HashedPassword: hashed, IsActive: true}
	if role != nil {
		user.RoleID = &role.ID
	}
	require.NoError(t, db.Omit("Role").Create(&user).Error)
	return user
}

func createEnvironment(t *testing.T, db *gorm.DB, name string) models.Environment {
	t.Helper()
	env := models.Environment{Name: name}
	require.NoError(t, db.Create(&env).Error)
	return env
}

func createService(t *testing.T, db *gorm.DB, name string, envID *string) models.Service {
	t.Helper()
	svc := models.Service{Name: name, EnvironmentID: envID}
	require.NoError(t, db.Omit("Environment").Create(&svc).Error)
	return svc
}

var ctx = context.Background()
