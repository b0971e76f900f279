package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/releaserite/dto"
	"github.com/releaserite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "release_report_Spring_Release_v1.2.pdf",
		ReportFilename(models.Release{Name: "Spring Release", Version: "v1.2"}))
	assert.Equal(t, "release_report_a_b_1.0.pdf",
		ReportFilename(models.Release{Name: "a/b", Version: "1.0"}))
}

func TestRenderReleaseReport(t *testing.T) {
	planned := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	release := models.Release{
		Name:               "Spring Release",
		Version:            "v1.2",
		PlannedReleaseDate: &planned,
		CreatedAt:          time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC),
		Owner:              &models.User{Email: "rm@example.com", FullName: strPtr("Rita Müller")},
		ServiceLinks: []models.ReleaseServiceLink{
			{ServiceID: "s1", Service: &models.Service{Name: "api", Owner: strPtr("platform")}, Version: strPtr("1.0")},
		},
	}
	matrix := BuildDeploymentMatrix(release, []models.Environment{{ID: "e1", Name: "dev"}})

	var buf bytes.Buffer
	require.NoError(t, RenderReleaseReport(&buf, release, matrix))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderReleaseReportWithoutServices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReleaseReport(&buf, models.Release{Name: "Empty", Version: "0"}, dto.DeploymentMatrix{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestReleaseReport(t *testing.T) {
	f := newReleaseFixture(t)
	release := f.create(t, dto.ReleaseServiceLinkRequest{ServiceID: f.svcA.ID})
	f.deploy(t, release.ID, f.env1.ID, &f.svcA.ID, "")

	reports := NewReportService(f.releases, zap.NewNop())
	report, err := reports.ReleaseReport(ctx, release.ID)
	require.NoError(t, err)
	assert.Equal(t, "release_report_Release_2030.06_v1.0.0.pdf", report.Filename)
	assert.True(t, bytes.HasPrefix(report.Content, []byte("%PDF-")))

	_, err = reports.ReleaseReport(ctx, "00000000-0000-0000-0000-000000000000")
	assertKind(t, err, ErrNotFound)
}
