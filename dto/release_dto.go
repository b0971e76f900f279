package dto

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/releaserite/models"
)

// ReleaseServiceLinkRequest adds a service to a release
type ReleaseServiceLinkRequest struct {
	ServiceID    string  `json:"service_id" binding:"required,uuid" validate:"required,uuid"`
	PipelineLink *string `json:"pipeline_link" binding:"omitempty,max=512" validate:"omitempty,max=512"`
	Version      *string `json:"version" binding:"omitempty,max=50" validate:"omitempty,max=50"`
}

// ToModel builds the link row. The release id is filled in when the release is stored.
func (req ReleaseServiceLinkRequest) ToModel() models.ReleaseServiceLink {
	return models.ReleaseServiceLink{
		ServiceID:    req.ServiceID,
		PipelineLink: req.PipelineLink,
		Version:      req.Version,
	}
}

// ReleaseRequest represents a release creation request
type ReleaseRequest struct {
	Name               string                      `json:"name" binding:"required,max=255"`
	Version            string                      `json:"version" binding:"required,max=50"`
	PlannedReleaseDate *time.Time                  `json:"planned_release_date" binding:"omitempty,future"`
	ProductOwnerID     *string                     `json:"product_owner_id" binding:"omitempty,uuid"`
	QAID               *string                     `json:"qa_id" binding:"omitempty,uuid"`
	SecurityAnalystID  *string                     `json:"security_analyst_id" binding:"omitempty,uuid"`
	Services           []ReleaseServiceLinkRequest `json:"services" binding:"omitempty,dive"`
}

// ReleaseUpdateRequest is a partial release update. A present services field replaces
// every link of the release; null is treated like an empty list.
type ReleaseUpdateRequest struct {
	Name               Optional[string]                      `json:"name"`
	Version            Optional[string]                      `json:"version"`
	PlannedReleaseDate Optional[time.Time]                   `json:"planned_release_date"`
	ProductOwnerID     Optional[string]                      `json:"product_owner_id"`
	QAID               Optional[string]                      `json:"qa_id"`
	SecurityAnalystID  Optional[string]                      `json:"security_analyst_id"`
	Services           Optional[[]ReleaseServiceLinkRequest] `json:"services"`
}

// Validate checks the fields that are present
func (req *ReleaseUpdateRequest) Validate() error {
	if err := notBlank("name", req.Name); err != nil {
		return err
	}
	if err := checkPresent("name", req.Name, "max=255"); err != nil {
		return err
	}
	if err := notBlank("version", req.Version); err != nil {
		return err
	}
	if req.Version.Set {
		if err := checkVar("version", *req.Version.Value, "max=50"); err != nil {
			return err
		}
	}
	for field, o := range map[string]Optional[string]{
		"product_owner_id":    req.ProductOwnerID,
		"qa_id":               req.QAID,
		"security_analyst_id": req.SecurityAnalystID,
	} {
		if o.Value != nil {
			if err := checkVar(field, *o.Value, "uuid"); err != nil {
				return err
			}
		}
	}
	for i, link := range req.ServiceLinks() {
		if err := validate.Struct(link); err != nil {
			return errors.Wrapf(err, "services[%d]", i)
		}
	}
	return nil
}

// ServiceLinks returns the requested links, or nil when services was absent
func (req *ReleaseUpdateRequest) ServiceLinks() []ReleaseServiceLinkRequest {
	if !req.Services.Set {
		return nil
	}
	if req.Services.Value == nil {
		return []ReleaseServiceLinkRequest{}
	}
	return *req.Services.Value
}

// ApplyTo copies the present scalar fields onto release
func (req *ReleaseUpdateRequest) ApplyTo(release *models.Release) {
	if req.Name.Set {
		release.Name = strings.TrimSpace(*req.Name.Value)
	}
	if req.Version.Set {
		release.Version = strings.TrimSpace(*req.Version.Value)
	}
	assign(&release.PlannedReleaseDate, req.PlannedReleaseDate)
	assign(&release.ProductOwnerID, req.ProductOwnerID)
	assign(&release.QAID, req.QAID)
	assign(&release.SecurityAnalystID, req.SecurityAnalystID)
}

// DeploymentRequest records a deployment of a release, or one of its services
type DeploymentRequest struct {
	EnvironmentID string  `json:"environment_id" binding:"required,uuid"`
	ServiceID     *string `json:"service_id" binding:"omitempty,uuid"`
	Status        string  `json:"status" binding:"omitempty,max=50"`
}

// ListParams are the paging query parameters of list endpoints
type ListParams struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// Normalize fills in the default page size
func (p ListParams) Normalize() ListParams {
	if p.Limit == 0 {
		p.Limit = 100
	}
	return p
}

// UserSummary is the embedded form of a user assigned to a release
type UserSummary struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

func newUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Email: u.Email, FullName: u.FullName}
}

// ReleaseResponse is a release with its role assignments, links and deployments
type ReleaseResponse struct {
	ID                 string                      `json:"id"`
	Name               string                      `json:"name"`
	Version            string                      `json:"version"`
	PlannedReleaseDate *time.Time                  `json:"planned_release_date"`
	CreatedAt          time.Time                   `json:"created_at"`
	OwnerID            *string                     `json:"owner_id"`
	ProductOwnerID     *string                     `json:"product_owner_id"`
	QAID               *string                     `json:"qa_id"`
	SecurityAnalystID  *string                     `json:"security_analyst_id"`
	Owner              *UserSummary                `json:"owner"`
	ProductOwner       *UserSummary                `json:"product_owner"`
	QA                 *UserSummary                `json:"qa"`
	SecurityAnalyst    *UserSummary                `json:"security_analyst"`
	ServiceLinks       []models.ReleaseServiceLink `json:"service_links"`
	Deployments        []models.Deployment         `json:"deployments"`
}

// NewReleaseResponse converts a loaded release for the API
func NewReleaseResponse(r models.Release) ReleaseResponse {
	resp := ReleaseResponse{
		ID:                 r.ID,
		Name:               r.Name,
		Version:            r.Version,
		PlannedReleaseDate: r.PlannedReleaseDate,
		CreatedAt:          r.CreatedAt,
		OwnerID:            r.OwnerID,
		ProductOwnerID:     r.ProductOwnerID,
		QAID:               r.QAID,
		SecurityAnalystID:  r.SecurityAnalystID,
		Owner:              newUserSummary(r.Owner),
		ProductOwner:       newUserSummary(r.ProductOwner),
		QA:                 newUserSummary(r.QA),
		SecurityAnalyst:    newUserSummary(r.SecurityAnalyst),
		ServiceLinks:       r.ServiceLinks,
		Deployments:        r.Deployments,
	}
	if resp.ServiceLinks == nil {
		resp.ServiceLinks = []models.ReleaseServiceLink{}
	}
	if resp.Deployments == nil {
		resp.Deployments = []models.Deployment{}
	}
	return resp
}

// NewReleaseListResponse converts a page of releases
func NewReleaseListResponse(releases []models.Release) []ReleaseResponse {
	list := make([]ReleaseResponse, 0, len(releases))
	for _, r := range releases {
		list = append(list, NewReleaseResponse(r))
	}
	return list
}
