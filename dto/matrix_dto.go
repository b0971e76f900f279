package dto

import "time"

// NotDeployedLabel marks a matrix cell without a successful deployment
const NotDeployedLabel = "Not Deployed"

// MatrixTimeLayout formats the deployment time shown in a matrix cell
const MatrixTimeLayout = "2006-01-02 15:04"

// MatrixEnvironment is a matrix column with its deployment progress
type MatrixEnvironment struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	DeployedCount int     `json:"deployed_count"`
	Percent       float64 `json:"percent"`
}

// MatrixCell is the derived status of one service in one environment
type MatrixCell struct {
	EnvironmentID string     `json:"environment_id"`
	Deployed      bool       `json:"deployed"`
	DeployedAt    *time.Time `json:"deployed_at"`
	Label         string     `json:"label"`
}

// MatrixRow holds the cells of one service link, in column order
type MatrixRow struct {
	ServiceID    string       `json:"service_id"`
	ServiceName  string       `json:"service_name"`
	Version      *string      `json:"version"`
	PipelineLink *string      `json:"pipeline_link"`
	Cells        []MatrixCell `json:"cells"`
}

// DeploymentMatrix is the service by environment status grid of a release
type DeploymentMatrix struct {
	ReleaseID    string              `json:"release_id"`
	Environments []MatrixEnvironment `json:"environments"`
	Rows         []MatrixRow         `json:"rows"`
}

// Cell returns the cell for serviceID in environmentID
func (m *DeploymentMatrix) Cell(serviceID, environmentID string) (MatrixCell, bool) {
	for _, row := range m.Rows {
		if row.ServiceID != serviceID {
			continue
		}
		for _, cell := range row.Cells {
			if cell.EnvironmentID == environmentID {
				return cell, true
			}
		}
	}
	return MatrixCell{}, false
}
