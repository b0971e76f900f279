package repositories

import (
	"context"

	"github.com/releaserite/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeploymentRepository handles database operations for deployment records
type DeploymentRepository struct {
	db *gorm.DB
}

// NewDeploymentRepository creates a new deployment repository instance
func NewDeploymentRepository(db *gorm.DB) *DeploymentRepository {
	return &DeploymentRepository{db: db}
}

// Create inserts a new deployment record
func (r *DeploymentRepository) Create(ctx context.Context, deployment *models.Deployment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(deployment).Error
}

// FindByReleaseID retrieves the deployment history of a release, oldest first
func (r *DeploymentRepository) FindByReleaseID(ctx context.Context, releaseID string) ([]models.Deployment, error) {
	var deployments []models.Deployment
	result := r.db.WithContext(ctx).
		Where("release_id = ?", releaseID).
		Order("deployed_at ASC, id ASC").
		Find(&deployments)
	return deployments, result.Error
}

// DeleteFirstMatch removes the earliest deployment of a release to an environment.
// It reports false when no deployment matched.
func (r *DeploymentRepository) DeleteFirstMatch(ctx context.Context, releaseID, environmentID string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var first models.Deployment
		result := tx.
			Where("release_id = ? AND environment_id = ?", releaseID, environmentID).
			Order("deployed_at ASC, id ASC").
			Limit(1).
			Find(&first)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		if err := tx.Delete(&models.Deployment{}, "id = ?", first.ID).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// DeleteMatching removes every deployment of a service of a release to an environment
// and returns how many rows were deleted
func (r *DeploymentRepository) DeleteMatching(ctx context.Context, releaseID, environmentID, serviceID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("release_id = ? AND environment_id = ? AND service_id = ?", releaseID, environmentID, serviceID).
		Delete(&models.Deployment{})
	return result.RowsAffected, result.Error
}
