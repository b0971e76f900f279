package repositories

import (
	"context"

	"github.com/releaserite/models"
	"gorm.io/gorm"
)

// EnvironmentRepository handles database operations for environments
type EnvironmentRepository struct {
	db *gorm.DB
}

// NewEnvironmentRepository creates a new environment repository instance
func NewEnvironmentRepository(db *gorm.DB) *EnvironmentRepository {
	return &EnvironmentRepository{db: db}
}

// FindAll retrieves all environments ordered by name
func (r *EnvironmentRepository) FindAll(ctx context.Context) ([]models.Environment, error) {
	var environments []models.Environment
	result := r.db.WithContext(ctx).Order("name ASC").Find(&environments)
	return environments, result.Error
}

// FindByID retrieves an environment by its ID
func (r *EnvironmentRepository) FindByID(ctx context.Context, id string) (models.Environment, error) {
	var environment models.Environment
	result := r.db.WithContext(ctx).First(&environment, "id = ?", id)
	return environment, result.Error
}

// Create inserts a new environment into the database
func (r *EnvironmentRepository) Create(ctx context.Context, environment *models.Environment) error {
	return r.db.WithContext(ctx).Create(environment).Error
}

// Update modifies an existing environment
func (r *EnvironmentRepository) Update(ctx context.Context, environment *models.Environment) error {
	return r.db.WithContext(ctx).Save(environment).Error
}

// Delete removes an environment from the database
func (r *EnvironmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Environment{}, "id = ?", id).Error
}

// ExistsByName checks if an environment with the given name exists
func (r *EnvironmentRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Environment{}).Where("name = ?", name).Count(&count)
	return count > 0, result.Error
}

// Exists checks if an environment with the given ID exists
func (r *EnvironmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Environment{}).Where("id = ?", id).Count(&count)
	return count > 0, result.Error
}

// CountServicesInEnvironment counts the number of services in an environment
func (r *EnvironmentRepository) CountServicesInEnvironment(ctx context.Context, environmentID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Service{}).Where("environment_id = ?", environmentID).Count(&count)
	return count, result.Error
}
