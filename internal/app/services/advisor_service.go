package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	appauth "github.com/timetable/scheduler/internal/app/auth"
	"github.com/timetable/scheduler/internal/app/models"
	"github.com/timetable/scheduler/internal/app/models/dto"
	"github.com/timetable/scheduler/internal/pkg/apperrors"
	"github.com/timetable/scheduler/internal/pkg/auth"
	"github.com/timetable/scheduler/internal/pkg/validation"
)

// AdvisorService manages advisors on behalf of DEO callers.
type AdvisorService struct {
	advisors  AdvisorStore
	usernames UsernameChecker
	authz     *appauth.AuthorizationService
	validate  *validator.Validate
	logger    zerolog.Logger
	hash      func(string) (string, error)
}

// NewAdvisorService creates a new AdvisorService
func NewAdvisorService(
	advisors AdvisorStore,
	usernames UsernameChecker,
	authz *appauth.AuthorizationService,
	logger zerolog.Logger,
) *AdvisorService {
	return &AdvisorService{
		advisors:  advisors,
		usernames: usernames,
		authz:     authz,
		validate:  validation.New(),
		logger:    logger,
		hash:      auth.HashPassword,
	}
}

// WithPasswordHasher replaces the password hasher.
func (s *AdvisorService) WithPasswordHasher(hash func(string) (string, error)) *AdvisorService {
	s.hash = hash
	return s
}

// List returns every advisor to DEO callers and nothing to anyone else.
func (s *AdvisorService) List(ctx context.Context, p appauth.Principal) ([]*models.Advisor, error) {
	if !p.IsDEO() {
		return []*models.Advisor{}, nil
	}
	return s.advisors.ListAdvisors(ctx)
}

// Get returns one advisor. Non-DEO callers see apperrors.ErrAdvisorNotFound.
func (s *AdvisorService) Get(ctx context.Context, p appauth.Principal, id int64) (*models.Advisor, error) {
	if !p.IsDEO() {
		return nil, apperrors.ErrAdvisorNotFound
	}
	return s.advisors.GetAdvisorByID(ctx, id)
}

// Create creates the advisor's user and the advisor under the caller's DEO profile.
func (s *AdvisorService) Create(ctx context.Context, p appauth.Principal, req *dto.AdvisorRequest) (*models.Advisor, error) {
	deo, err := s.authz.RequireDEO(ctx, p)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Password == nil || *req.Password == "" {
		return nil, apperrors.NewValidationError("password", "This field is required.")
	}

	if err := s.ensureUsernameFree(ctx, req.Username, 0); err != nil {
		return nil, err
	}

	hashed, err := s.hash(*req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Password:  hashed,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleAdvisor,
		IsActive:  true,
	}
	advisor := &models.Advisor{
		DEOID:     &deo.ID,
		Faculty:   req.Faculty,
		Seniority: req.Seniority,
		Year:      req.Year,
	}

	if err := s.advisors.CreateAdvisor(ctx, user, advisor); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("advisorID", advisor.ID).Int64("deoID", deo.ID).Msg("Advisor created")
	return advisor, nil
}

// Update replaces the advisor's writable fields.
func (s *AdvisorService) Update(ctx context.Context, p appauth.Principal, id int64, req *dto.AdvisorRequest) (*models.Advisor, error) {
	advisor, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, advisor, req)
}

// Patch applies a partial update. apply receives the current values and
// overwrites the fields present in the request.
func (s *AdvisorService) Patch(ctx context.Context, p appauth.Principal, id int64, apply func(*dto.AdvisorRequest) error) (*models.Advisor, error) {
	advisor, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}

	req := RequestFromAdvisor(advisor)
	if err := apply(req); err != nil {
		return nil, err
	}
	return s.save(ctx, advisor, req)
}

func (s *AdvisorService) save(ctx context.Context, advisor *models.Advisor, req *dto.AdvisorRequest) (*models.Advisor, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, req.Username, advisor.UserID); err != nil {
		return nil, err
	}

	user := advisor.User
	if user == nil {
		return nil, fmt.Errorf("advisor %d has no user loaded", advisor.ID)
	}
	user.Username = req.Username
	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if req.Password != nil && *req.Password != "" {
		hashed, err := s.hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	advisor.Faculty = req.Faculty
	advisor.Seniority = req.Seniority
	advisor.Year = req.Year

	if err := s.advisors.UpdateAdvisor(ctx, advisor); err != nil {
		return nil, err
	}
	return advisor, nil
}

// Delete removes the advisor's user; the advisor goes with it.
func (s *AdvisorService) Delete(ctx context.Context, p appauth.Principal, id int64) error {
	advisor, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.advisors.DeleteAdvisor(ctx, advisor); err != nil {
		return err
	}
	s.logger.Info().Int64("advisorID", id).Int64("userID", advisor.UserID).Msg("Advisor deleted")
	return nil
}

func (s *AdvisorService) ensureUsernameFree(ctx context.Context, username string, excludeUserID int64) error {
	taken, err := s.usernames.UsernameExists(ctx, username, excludeUserID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrUsernameTaken
	}
	return nil
}

// RequestFromAdvisor builds an update body holding the advisor's current values.
func RequestFromAdvisor(a *models.Advisor) *dto.AdvisorRequest {
	req := &dto.AdvisorRequest{
		Faculty:   a.Faculty,
		Seniority: a.Seniority,
		Year:      a.Year,
	}
	if a.User != nil {
		req.Username = a.User.Username
		req.Email = a.User.Email
		req.FirstName = a.User.FirstName
		req.LastName = a.User.LastName
	}
	return req
}

