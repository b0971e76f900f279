package dto

import "github.com/releaserite/models"

// ServiceRequest represents a service creation request
type ServiceRequest struct {
	Name          string  `json:"name" binding:"required,max=255"`
	Description   *string `json:"description"`
	Owner         *string `json:"owner" binding:"omitempty,max=255"`
	EnvironmentID *string `json:"environment_id" binding:"omitempty,uuid"`
	Status        *string `json:"status" binding:"omitempty,max=50"`
	RepoLink      *string `json:"repo_link" binding:"omitempty,url,max=512"`
}

// ToModel builds a new service from the request. Status defaults to active.
func (req *ServiceRequest) ToModel() models.Service {
	status := req.Status
	if status == nil {
		active := models.ServiceStatusActive
		status = &active
	}
	return models.Service{
		Name:          req.Name,
		Description:   req.Description,
		Owner:         req.Owner,
		EnvironmentID: req.EnvironmentID,
		Status:        status,
		RepoLink:      req.RepoLink,
	}
}

// ServiceUpdateRequest is a partial service update
type ServiceUpdateRequest struct {
	Name          Optional[string] `json:"name"`
	Description   Optional[string] `json:"description"`
	Owner         Optional[string] `json:"owner"`
	EnvironmentID Optional[string] `json:"environment_id"`
	Status        Optional[string] `json:"status"`
	RepoLink      Optional[string] `json:"repo_link"`
}

// Validate checks the fields that are present
func (req *ServiceUpdateRequest) Validate() error {
	if err := notBlank("name", req.Name); err != nil {
		return err
	}
	if err := checkPresent("name", req.Name, "max=255"); err != nil {
		return err
	}
	if err := checkPresent("owner", req.Owner, "max=255"); err != nil {
		return err
	}
	if req.EnvironmentID.Value != nil {
		if err := checkVar("environment_id", *req.EnvironmentID.Value, "uuid"); err != nil {
			return err
		}
	}
	if req.RepoLink.Value != nil {
		if err := checkVar("repo_link", *req.RepoLink.Value, "url,max=512"); err != nil {
			return err
		}
	}
	if req.Status.Value != nil {
		if err := checkVar("status", *req.Status.Value, "max=50"); err != nil {
			return err
		}
	}
	return nil
}

// UpdateServiceModel copies the present fields onto service
func (req *ServiceUpdateRequest) UpdateServiceModel(service *models.Service) {
	if req.Name.Set {
		service.Name = *req.Name.Value
	}
	assign(&service.Description, req.Description)
	assign(&service.Owner, req.Owner)
	assign(&service.EnvironmentID, req.EnvironmentID)
	assign(&service.Status, req.Status)
	assign(&service.RepoLink, req.RepoLink)
}
