package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/releaserite/database"
	"github.com/releaserite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	release models.Release
	env     models.Environment
	svcA    models.Service
	svcB    models.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open("sqlite://:memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	t.Cleanup(func() { _ = database.Close(db) })

	f := &fixture{
		db:      db,
		release: models.Release{Name: "r1", Version: "1.0"},
		env:     models.Environment{Name: "staging"},
		svcA:    models.Service{Name: "a"},
		svcB:    models.Service{Name: "b"},
	}
	require.NoError(t, db.Create(&f.env).Error)
	require.NoError(t, db.Create(&f.svcA).Error)
	require.NoError(t, db.Create(&f.svcB).Error)
	require.NoError(t, NewReleaseRepository(db).CreateWithLinks(context.Background(), &f.release, []models.ReleaseServiceLink{
		{ServiceID: f.svcA.ID},
		{ServiceID: f.svcB.ID},
	}))
	return f
}

func (f *fixture) deploy(t *testing.T, serviceID string, at time.Time) models.Deployment {
	t.Helper()
	d := models.Deployment{
		ReleaseID:     f.release.ID,
		EnvironmentID: f.env.ID,
		ServiceID:     &serviceID,
		DeployedAt:    at,
		Status:        models.DeploymentStatusSuccess,
	}
	require.NoError(t, NewDeploymentRepository(f.db).Create(context.Background(), &d))
	return d
}

func TestDeleteFirstMatchRemovesEarliest(t *testing.T) {
	f := newFixture(t)
	repo := NewDeploymentRepository(f.db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	later := f.deploy(t, f.svcA.ID, base.Add(time.Hour))
	earliest := f.deploy(t, f.svcB.ID, base)

	deleted, err := repo.DeleteFirstMatch(ctx, f.release.ID, f.env.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	remaining, err := repo.FindByReleaseID(ctx, f.release.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, later.ID, remaining[0].ID)
	assert.NotEqual(t, earliest.ID, remaining[0].ID)

	_, err = repo.DeleteFirstMatch(ctx, f.release.ID, f.env.ID)
	require.NoError(t, err)
	deleted, err = repo.DeleteFirstMatch(ctx, f.release.ID, f.env.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteMatchingRemovesDuplicates(t *testing.T) {
	f := newFixture(t)
	repo := NewDeploymentRepository(f.db)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		f.deploy(t, f.svcA.ID, now.Add(time.Duration(i)*time.Minute))
	}
	f.deploy(t, f.svcB.ID, now)

	count, err := repo.DeleteMatching(context.Background(), f.release.ID, f.env.ID, f.svcA.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	remaining, err := repo.FindByReleaseID(context.Background(), f.release.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, f.svcB.ID, *remaining[0].ServiceID)
}

func TestReleaseDeleteCascade(t *testing.T) {
	f := newFixture(t)
	f.deploy(t, f.svcA.ID, time.Now().UTC())
	repo := NewReleaseRepository(f.db)
	ctx := context.Background()

	require.NoError(t, repo.DeleteCascade(ctx, f.release.ID))

	exists, err := repo.Exists(ctx, f.release.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	links, err := repo.CountLinks(ctx, f.release.ID)
	require.NoError(t, err)
	assert.Zero(t, links)

	var deployments int64
	require.NoError(t, f.db.Model(&models.Deployment{}).Count(&deployments).Error)
	assert.Zero(t, deployments)
}

func TestUpdateWithLinksReplacesOrKeeps(t *testing.T) {
	f := newFixture(t)
	repo := NewReleaseRepository(f.db)
	ctx := context.Background()

	f.release.Version = "1.1"
	require.NoError(t, repo.UpdateWithLinks(ctx, &f.release, nil))
	count, err := repo.CountLinks(ctx, f.release.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "nil keeps the existing links")

	require.NoError(t, repo.UpdateWithLinks(ctx, &f.release, []models.ReleaseServiceLink{}))
	count, err = repo.CountLinks(ctx, f.release.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	loaded, err := repo.FindByID(ctx, f.release.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.1", loaded.Version)
}
