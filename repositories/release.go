package repositories

import (
	"context"

	"github.com/releaserite/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReleaseRepository handles database operations for releases and their service links
type ReleaseRepository struct {
	db *gorm.DB
}

// NewReleaseRepository creates a new release repository instance
func NewReleaseRepository(db *gorm.DB) *ReleaseRepository {
	return &ReleaseRepository{db: db}
}

// withDetails loads role assignments, service links and the deployment history
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("ProductOwner").
		Preload("QA").
		Preload("SecurityAnalyst").
		Preload("ServiceLinks.Service").
		Preload("Deployments", func(db *gorm.DB) *gorm.DB {
			return db.Order("deployed_at ASC, id ASC")
		})
}

// FindAll retrieves a page of releases, newest first
func (r *ReleaseRepository) FindAll(ctx context.Context, skip, limit int) ([]models.Release, error) {
	var releases []models.Release
	result := r.db.WithContext(ctx).
		Scopes(withDetails).
		Order("created_at DESC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&releases)
	return releases, result.Error
}

// FindByID retrieves a release with all of its details
func (r *ReleaseRepository) FindByID(ctx context.Context, id string) (models.Release, error) {
	var release models.Release
	result := r.db.WithContext(ctx).Scopes(withDetails).First(&release, "id = ?", id)
	return release, result.Error
}

// Exists checks if a release with the given ID exists
func (r *ReleaseRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Release{}).Where("id = ?", id).Count(&count)
	return count > 0, result.Error
}

// CreateWithLinks inserts the release row and its service links in one transaction
func (r *ReleaseRepository) CreateWithLinks(ctx context.Context, release *models.Release, links []models.ReleaseServiceLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(release).Error; err != nil {
			return err
		}
		return insertLinks(tx, release.ID, links)
	})
}

// UpdateWithLinks saves the release columns. When links is non-nil every existing
// link of the release is replaced by links, an empty slice removing them all.
func (r *ReleaseRepository) UpdateWithLinks(ctx context.Context, release *models.Release, links []models.ReleaseServiceLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(release).Error; err != nil {
			return err
		}
		if links == nil {
			return nil
		}
		if err := tx.Where("release_id = ?", release.ID).Delete(&models.ReleaseServiceLink{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, release.ID, links)
	})
}

func insertLinks(tx *gorm.DB, releaseID string, links []models.ReleaseServiceLink) error {
	if len(links) == 0 {
		return nil
	}
	for i := range links {
		links[i].ReleaseID = releaseID
	}
	return tx.Omit(clause.Associations).Create(&links).Error
}

// DeleteCascade removes the release with its deployments and service links.
// Deployments go first since they do not cascade from the release.
func (r *ReleaseRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("release_id = ?", id).Delete(&models.Deployment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("release_id = ?", id).Delete(&models.ReleaseServiceLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Release{}, "id = ?", id).Error
	})
}

// CountLinks counts the service links of a release
func (r *ReleaseRepository) CountLinks(ctx context.Context, releaseID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.ReleaseServiceLink{}).Where("release_id = ?", releaseID).Count(&count)
	return count, result.Error
}
