package repositories

import (
	"context"

	"github.com/releaserite/models"
	"gorm.io/gorm"
)

// RoleRepository handles database operations for roles
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository instance
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindAll retrieves all roles ordered by name
func (r *RoleRepository) FindAll(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	result := r.db.WithContext(ctx).Order("name ASC").Find(&roles)
	return roles, result.Error
}

// FindByID retrieves a role by its ID
func (r *RoleRepository) FindByID(ctx context.Context, id string) (models.Role, error) {
	var role models.Role
	result := r.db.WithContext(ctx).First(&role, "id = ?", id)
	return role, result.Error
}

// FindByName retrieves a role by its unique name
func (r *RoleRepository) FindByName(ctx context.Context, name string) (models.Role, error) {
	var role models.Role
	result := r.db.WithContext(ctx).First(&role, "name = ?", name)
	return role, result.Error
}

// Create inserts a new role into the database
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// Update modifies an existing role
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete removes a role from the database
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Role{}, "id = ?", id).Error
}

// ExistsByName checks if a role with the given name exists
func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Role{}).Where("name = ?", name).Count(&count)
	return count > 0, result.Error
}

// CountUsersWithRole counts the users assigned to a role
func (r *RoleRepository) CountUsersWithRole(ctx context.Context, roleID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("role_id = ?", roleID).Count(&count)
	return count, result.Error
}
