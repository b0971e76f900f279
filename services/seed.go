package services

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/releaserite/models"
	"github.com/releaserite/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoleSeed describes a default role
type RoleSeed struct {
	Name        string
	Description string
	Permissions string
}

// UserSeed describes a demo account
type UserSeed struct {
	Email    string
	FullName string
	Password string
	Role     string
}

const viewerPermissions = "read:environments,read:services,read:dashboard,read:releases"

// DefaultRoles are created or refreshed by Seed
var DefaultRoles = []RoleSeed{
	{Name: models.AdminRoleName, Description: "Administrator with full system access.", Permissions: "*"},
	{
		Name:        "release_manager",
		Description: "Can manage releases and services.",
		Permissions: "read:environments,read:services,create:services,read:releases,create:releases,read:dashboard",
	},
	{Name: "product_owner", Description: "Can view releases and services.", Permissions: viewerPermissions},
	{Name: "qa_engineer", Description: "Can view releases and services.", Permissions: viewerPermissions},
	{Name: "security_analyst", Description: "Can view releases and services.", Permissions: viewerPermissions},
}

// DefaultAdminEmail is the account reset by ResetAdminPassword
const DefaultAdminEmail = "admin@example.com"

// DefaultUsers are created by Seed when missing
var DefaultUsers = []UserSeed{
	{Email: DefaultAdminEmail, FullName: "Admin User", Password: "Admin123!", Role: models.AdminRoleName},
	{Email: "rm@example.com", FullName: "ReleaseRite Admin", Password: "password", Role: "release_manager"},
	{Email: "po@example.com", FullName: "Product Owner", Password: "password", Role: "product_owner"},
	{Email: "qa@example.com", FullName: "QA Engineer", Password: "password", Role: "qa_engineer"},
	{Email: "sec@example.com", FullName: "Security Analyst", Password: "password", Role: "security_analyst"},
}

// SeedResult counts what Seed changed
type SeedResult struct {
	RolesCreated int
	RolesUpdated int
	UsersCreated int
	UsersUpdated int
}

// Seeder loads the default roles and demo users
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Seed creates missing roles and users. Existing roles get their description and
// permissions refreshed; existing users are moved to their seeded role.
func (s *Seeder) Seed(ctx context.Context, roles []RoleSeed, users []UserSeed) (SeedResult, error) {
	var result SeedResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleRepo := repositories.NewRoleRepository(tx)
		userRepo := repositories.NewUserRepository(tx)

		byName := make(map[string]models.Role, len(roles))
		for _, seed := range roles {
			description, permissions := seed.Description, seed.Permissions
			role, err := roleRepo.FindByName(ctx, seed.Name)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				role = models.Role{Name: seed.Name, Description: &description}
				role.SetPermissions(&permissions)
				if err := roleRepo.Create(ctx, &role); err != nil {
					return errors.Wrapf(err, "create role %s", seed.Name)
				}
				result.RolesCreated++
			case err != nil:
				return errors.Wrapf(err, "find role %s", seed.Name)
			default:
				role.Description = &description
				role.SetPermissions(&permissions)
				if err := roleRepo.Update(ctx, &role); err != nil {
					return errors.Wrapf(err, "update role %s", seed.Name)
				}
				result.RolesUpdated++
			}
			byName[seed.Name] = role
		}

		for _, seed := range users {
			var roleID *string
			if role, ok := byName[seed.Role]; ok {
				id := role.ID
				roleID = &id
			}

			user, err := userRepo.FindByEmail(ctx, seed.Email)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				hashed, err := HashPassword(seed.Password)
				if err != nil {
					return err
				}
				fullName := seed.FullName
				user = models.User{
					Email:          seed.Email,
					FullName:       &fullName,
					HashedPassword: hashed,
					IsActive:       true,
					RoleID:         roleID,
				}
				if err := userRepo.Create(ctx, &user); err != nil {
					return errors.Wrapf(err, "create user %s", seed.Email)
				}
				result.UsersCreated++
			case err != nil:
				return errors.Wrapf(err, "find user %s", seed.Email)
			default:
				if roleID != nil && (user.RoleID == nil || *user.RoleID != *roleID) {
					user.RoleID = roleID
					if err := userRepo.Update(ctx, &user); err != nil {
						return errors.Wrapf(err, "update user %s", seed.Email)
					}
					result.UsersUpdated++
				}
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	s.logger.Info("seed completed",
		zap.Int("roles_created", result.RolesCreated),
		zap.Int("roles_updated", result.RolesUpdated),
		zap.Int("users_created", result.UsersCreated),
		zap.Int("users_updated", result.UsersUpdated))
	return result, nil
}

// ResetPassword sets a new password on an existing account and reactivates it
func (s *Seeder) ResetPassword(ctx context.Context, email, password string) error {
	userRepo := repositories.NewUserRepository(s.db)
	user, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		return notFoundOr(err, "User %s not found", email)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.IsActive = true
	if err := userRepo.Update(ctx, &user); err != nil {
		return errors.Wrap(err, "reset password")
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}
