package services

import (
	"math"
	"sort"

	"github.com/releaserite/dto"
	"github.com/releaserite/models"
)

// BuildDeploymentMatrix derives, for every service link of release and every
// environment, the latest successful deployment of that service there. Columns follow
// the order of envs; rows are sorted by service name.
func BuildDeploymentMatrix(release models.Release, envs []models.Environment) dto.DeploymentMatrix {
	links := make([]models.ReleaseServiceLink, len(release.ServiceLinks))
	copy(links, release.ServiceLinks)
	sort.SliceStable(links, func(i, j int) bool {
		ni, nj := linkServiceName(links[i]), linkServiceName(links[j])
		if ni != nj {
			return ni < nj
		}
		return links[i].ServiceID < links[j].ServiceID
	})

	matrix := dto.DeploymentMatrix{
		ReleaseID:    release.ID,
		Environments: make([]dto.MatrixEnvironment, 0, len(envs)),
		Rows:         make([]dto.MatrixRow, 0, len(links)),
	}
	for _, env := range envs {
		matrix.Environments = append(matrix.Environments, dto.MatrixEnvironment{ID: env.ID, Name: env.Name})
	}

	for _, link := range links {
		row := dto.MatrixRow{
			ServiceID:    link.ServiceID,
			ServiceName:  linkServiceName(link),
			Version:      link.Version,
			PipelineLink: link.PipelineLink,
			Cells:        make([]dto.MatrixCell, 0, len(envs)),
		}
		for i, env := range envs {
			cell := dto.MatrixCell{EnvironmentID: env.ID, Label: dto.NotDeployedLabel}
			if d := latestSuccess(release.Deployments, env.ID, link.ServiceID); d != nil {
				at := d.DeployedAt
				cell.Deployed = true
				cell.DeployedAt = &at
				cell.Label = at.UTC().Format(dto.MatrixTimeLayout)
				matrix.Environments[i].DeployedCount++
			}
			row.Cells = append(row.Cells, cell)
		}
		matrix.Rows = append(matrix.Rows, row)
	}

	if len(links) > 0 {
		for i := range matrix.Environments {
			pct := float64(matrix.Environments[i].DeployedCount) / float64(len(links)) * 100
			matrix.Environments[i].Percent = math.Round(pct*10) / 10
		}
	}
	return matrix
}

func latestSuccess(deployments []models.Deployment, environmentID, serviceID string) *models.Deployment {
	var latest *models.Deployment
	for i := range deployments {
		d := &deployments[i]
		if d.Status != models.DeploymentStatusSuccess || !d.Matches(environmentID, serviceID) {
			continue
		}
		if latest == nil || d.DeployedAt.After(latest.DeployedAt) {
			latest = d
		}
	}
	return latest
}

func linkServiceName(link models.ReleaseServiceLink) string {
	if link.Service == nil {
		return placeholder
	}
	return link.Service.Name
}
