package services

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/releaserite/dto"
	"github.com/releaserite/metrics"
	"github.com/releaserite/models"
	"github.com/releaserite/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReleaseService owns releases, their service links and their deployment history
type ReleaseService struct {
	releaseRepo     *repositories.ReleaseRepository
	deploymentRepo  *repositories.DeploymentRepository
	serviceRepo     *repositories.ServiceRepository
	environmentRepo *repositories.EnvironmentRepository
	userRepo        *repositories.UserRepository
	metrics         *metrics.Metrics
	logger          *zap.Logger
	now             func() time.Time
}

// NewReleaseService creates a new release service instance
func NewReleaseService(db *gorm.DB, m *metrics.Metrics, logger *zap.Logger) *ReleaseService {
	return &ReleaseService{
		releaseRepo:     repositories.NewReleaseRepository(db),
		deploymentRepo:  repositories.NewDeploymentRepository(db),
		serviceRepo:     repositories.NewServiceRepository(db),
		environmentRepo: repositories.NewEnvironmentRepository(db),
		userRepo:        repositories.NewUserRepository(db),
		metrics:         m,
		logger:          logger,
		now:             time.Now,
	}
}

// ListReleases retrieves a page of releases, newest first
func (s *ReleaseService) ListReleases(ctx context.Context, params dto.ListParams) ([]models.Release, error) {
	params = params.Normalize()
	releases, err := s.releaseRepo.FindAll(ctx, params.Skip, params.Limit)
	if err != nil {
		return nil, errors.Wrap(err, "list releases")
	}
	return releases, nil
}

// GetRelease retrieves a release with its assignments, links and deployments
func (s *ReleaseService) GetRelease(ctx context.Context, id string) (models.Release, error) {
	release, err := s.releaseRepo.FindByID(ctx, id)
	if err != nil {
		return release, notFoundOr(err, "Release not found")
	}
	return release, nil
}

// CreateRelease stores a release owned by owner together with its service links
func (s *ReleaseService) CreateRelease(ctx context.Context, owner *models.User, req dto.ReleaseRequest) (models.Release, error) {
	name := strings.TrimSpace(req.Name)
	version := strings.TrimSpace(req.Version)
	if name == "" || version == "" {
		return models.Release{}, NewError(ErrValidation, "Release name and version are required")
	}
	if err := s.checkPlannedDate(req.PlannedReleaseDate); err != nil {
		return models.Release{}, err
	}
	for _, id := range []*string{req.ProductOwnerID, req.QAID, req.SecurityAnalystID} {
		if err := s.checkAssignee(ctx, id); err != nil {
			return models.Release{}, err
		}
	}
	links, err := s.buildLinks(ctx, req.Services)
	if err != nil {
		return models.Release{}, err
	}

	release := models.Release{
		Name:               name,
		Version:            version,
		PlannedReleaseDate: req.PlannedReleaseDate,
		ProductOwnerID:     req.ProductOwnerID,
		QAID:               req.QAID,
		SecurityAnalystID:  req.SecurityAnalystID,
	}
	if owner != nil {
		release.OwnerID = &owner.ID
	}

	if err := s.releaseRepo.CreateWithLinks(ctx, &release, links); err != nil {
		return release, errors.Wrap(err, "create release")
	}

	s.logger.Info("release created",
		zap.String("release_id", release.ID),
		zap.String("name", release.Name),
		zap.String("version", release.Version),
		zap.Int("services", len(links)))
	return s.GetRelease(ctx, release.ID)
}

// UpdateRelease applies a partial update. When services is present every existing
// link is replaced by the given list.
func (s *ReleaseService) UpdateRelease(ctx context.Context, id string, req dto.ReleaseUpdateRequest) (models.Release, error) {
	if err := req.Validate(); err != nil {
		return models.Release{}, NewError(ErrValidation, "%s", err.Error())
	}

	release, err := s.releaseRepo.FindByID(ctx, id)
	if err != nil {
		return release, notFoundOr(err, "Release not found")
	}

	if req.PlannedReleaseDate.Set {
		if err := s.checkPlannedDate(req.PlannedReleaseDate.Value); err != nil {
			return release, err
		}
	}
	for _, o := range []dto.Optional[string]{req.ProductOwnerID, req.QAID, req.SecurityAnalystID} {
		if o.Set {
			if err := s.checkAssignee(ctx, o.Value); err != nil {
				return release, err
			}
		}
	}

	var links []models.ReleaseServiceLink
	if req.Services.Set {
		links, err = s.buildLinks(ctx, req.ServiceLinks())
		if err != nil {
			return release, err
		}
	}

	req.ApplyTo(&release)
	if err := s.releaseRepo.UpdateWithLinks(ctx, &release, links); err != nil {
		return release, errors.Wrap(err, "update release")
	}

	s.logger.Info("release updated", zap.String("release_id", release.ID), zap.Bool("services_replaced", req.Services.Set))
	return s.GetRelease(ctx, release.ID)
}

// DeleteRelease removes a release with its deployments and service links
func (s *ReleaseService) DeleteRelease(ctx context.Context, id string) error {
	if err := s.requireRelease(ctx, id); err != nil {
		return err
	}
	if err := s.releaseRepo.DeleteCascade(ctx, id); err != nil {
		return errors.Wrap(err, "delete release")
	}
	s.logger.Info("release deleted", zap.String("release_id", id))
	return nil
}

// RecordDeployment appends a deployment record. Duplicates are kept as history.
func (s *ReleaseService) RecordDeployment(ctx context.Context, releaseID string, req dto.DeploymentRequest) (models.Deployment, error) {
	if err := s.requireRelease(ctx, releaseID); err != nil {
		return models.Deployment{}, err
	}

	exists, err := s.environmentRepo.Exists(ctx, req.EnvironmentID)
	if err != nil {
		return models.Deployment{}, errors.Wrap(err, "check environment")
	}
	if !exists {
		return models.Deployment{}, NewError(ErrValidation, "Environment %s does not exist", req.EnvironmentID)
	}
	if req.ServiceID != nil {
		exists, err := s.serviceRepo.Exists(ctx, *req.ServiceID)
		if err != nil {
			return models.Deployment{}, errors.Wrap(err, "check service")
		}
		if !exists {
			return models.Deployment{}, NewError(ErrValidation, "Service %s does not exist", *req.ServiceID)
		}
	}

	status := models.DeploymentStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.DeploymentStatusSuccess
	}

	deployment := models.Deployment{
		ReleaseID:     releaseID,
		EnvironmentID: req.EnvironmentID,
		ServiceID:     req.ServiceID,
		DeployedAt:    s.now().UTC(),
		Status:        status,
	}
	if err := s.deploymentRepo.Create(ctx, &deployment); err != nil {
		return deployment, errors.Wrap(err, "record deployment")
	}

	s.metrics.DeploymentRecorded(string(status))
	s.logger.Info("deployment recorded",
		zap.String("release_id", releaseID),
		zap.String("environment_id", req.EnvironmentID),
		zap.Stringp("service_id", req.ServiceID),
		zap.String("status", string(status)))
	return deployment, nil
}

// UndeployFromEnvironment removes the earliest deployment of the release to an environment.
// Only one record is removed even when several match.
func (s *ReleaseService) UndeployFromEnvironment(ctx context.Context, releaseID, environmentID string) error {
	if err := s.requireRelease(ctx, releaseID); err != nil {
		return err
	}
	deleted, err := s.deploymentRepo.DeleteFirstMatch(ctx, releaseID, environmentID)
	if err != nil {
		return errors.Wrap(err, "undeploy release")
	}
	if !deleted {
		return NewError(ErrNotFound, "Deployment not found for this environment")
	}
	s.logger.Info("deployment removed", zap.String("release_id", releaseID), zap.String("environment_id", environmentID))
	return nil
}

// UndeployServiceFromEnvironment removes every deployment of a service of the release to an environment
func (s *ReleaseService) UndeployServiceFromEnvironment(ctx context.Context, releaseID, environmentID, serviceID string) error {
	if err := s.requireRelease(ctx, releaseID); err != nil {
		return err
	}
	count, err := s.deploymentRepo.DeleteMatching(ctx, releaseID, environmentID, serviceID)
	if err != nil {
		return errors.Wrap(err, "undeploy service")
	}
	if count == 0 {
		return NewError(ErrNotFound, "Deployment not found for this service in this environment")
	}
	s.logger.Info("service deployments removed",
		zap.String("release_id", releaseID),
		zap.String("environment_id", environmentID),
		zap.String("service_id", serviceID),
		zap.Int64("count", count))
	return nil
}

// StatusMatrix derives the deployment status matrix of a release from its full history
func (s *ReleaseService) StatusMatrix(ctx context.Context, id string) (dto.DeploymentMatrix, error) {
	release, err := s.GetRelease(ctx, id)
	if err != nil {
		return dto.DeploymentMatrix{}, err
	}
	envs, err := s.environmentRepo.FindAll(ctx)
	if err != nil {
		return dto.DeploymentMatrix{}, errors.Wrap(err, "list environments")
	}
	return BuildDeploymentMatrix(release, envs), nil
}

func (s *ReleaseService) requireRelease(ctx context.Context, id string) error {
	exists, err := s.releaseRepo.Exists(ctx, id)
	if err != nil {
		return errors.Wrap(err, "check release")
	}
	if !exists {
		return NewError(ErrNotFound, "Release not found")
	}
	return nil
}

func (s *ReleaseService) checkPlannedDate(date *time.Time) error {
	if date != nil && date.Before(s.now()) {
		return NewError(ErrValidation, "Planned release date must be in the future")
	}
	return nil
}

func (s *ReleaseService) checkAssignee(ctx context.Context, userID *string) error {
	if userID == nil {
		return nil
	}
	exists, err := s.userRepo.Exists(ctx, *userID)
	if err != nil {
		return errors.Wrap(err, "check user")
	}
	if !exists {
		return NewError(ErrValidation, "User %s does not exist", *userID)
	}
	return nil
}

// buildLinks validates the requested links and converts them to rows. The result is
// never nil so an empty request still replaces existing links.
func (s *ReleaseService) buildLinks(ctx context.Context, reqs []dto.ReleaseServiceLinkRequest) ([]models.ReleaseServiceLink, error) {
	links := make([]models.ReleaseServiceLink, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		if _, dup := seen[req.ServiceID]; dup {
			return nil, NewError(ErrValidation, "Service %s is listed more than once", req.ServiceID)
		}
		seen[req.ServiceID] = struct{}{}
		ids = append(ids, req.ServiceID)
		links = append(links, req.ToModel())
	}

	count, err := s.serviceRepo.CountByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "check services")
	}
	if int(count) != len(ids) {
		return nil, NewError(ErrValidation, "One or more services do not exist")
	}
	return links, nil
}
