package database

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/releaserite/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models lists every persisted model, parents before children
func Models() []interface{} {
	return []interface{}{
		&models.Role{},
		&models.User{},
		&models.Environment{},
		&models.Service{},
		&models.Release{},
		&models.ReleaseServiceLink{},
		&models.Deployment{},
	}
}

// Migrate migrates the database schema
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("migrating database schema")
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	logger.Info("database schema migrated")
	return nil
}

// CopyData copies every row from source into target in foreign key order, inside one
// target transaction. It returns the number of rows copied per table.
func CopyData(ctx context.Context, source, target *gorm.DB, logger *zap.Logger) (map[string]int, error) {
	logger.Info("starting data migration from source to target")
	counts := make(map[string]int)

	err := target.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src := source.WithContext(ctx)
		steps := []struct {
			table string
			copy  func() (int, error)
		}{
			{"roles", func() (int, error) { return copyTable[models.Role](src, tx) }},
			{"users", func() (int, error) { return copyTable[models.User](src, tx) }},
			{"environments", func() (int, error) { return copyTable[models.Environment](src, tx) }},
			{"services", func() (int, error) { return copyTable[models.Service](src, tx) }},
			{"releases", func() (int, error) { return copyTable[models.Release](src, tx) }},
			{"release_services_link", func() (int, error) { return copyTable[models.ReleaseServiceLink](src, tx) }},
			{"deployments", func() (int, error) { return copyTable[models.Deployment](src, tx) }},
		}
		for _, step := range steps {
			n, err := step.copy()
			if err != nil {
				return errors.Wrapf(err, "failed to migrate %s", step.table)
			}
			counts[step.table] = n
			logger.Info("table migrated", zap.String("table", step.table), zap.Int("rows", n))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("data migration completed")
	return counts, nil
}

func copyTable[T any](source, target *gorm.DB) (int, error) {
	var rows []T
	if err := source.Find(&rows).Error; err != nil {
		return 0, errors.Wrap(err, "fetch")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := target.Omit(clause.Associations).CreateInBatches(&rows, 100).Error; err != nil {
		return 0, errors.Wrap(err, "insert")
	}
	return len(rows), nil
}
