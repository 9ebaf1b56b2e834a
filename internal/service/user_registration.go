package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/sharednav/internal/core"
	"github.com/target/sharednav/internal/domain/model"
	"github.com/target/sharednav/internal/domain/profile"
	apperrors "github.com/target/sharednav/internal/errors"
)

// UserRegistrationServiceOptions groups dependencies for UserRegistrationService.
type UserRegistrationServiceOptions struct {
	Repo   core.UserRepository
	Logger *slog.Logger
}

// UserRegistrationService creates or refreshes the local profile of an
// authenticated user.
type UserRegistrationService struct {
	repo   core.UserRepository
	logger *slog.Logger
}

// NewUserRegistrationService constructs a UserRegistrationService.
func NewUserRegistrationService(opts UserRegistrationServiceOptions) *UserRegistrationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserRegistrationService{
		repo:   opts.Repo,
		logger: logger.With("component", "user_registration"),
	}
}

// CheckAndRegister ensures a profile exists for objectID. Existing profiles
// get department and plant recomputed and the pre-update record is returned.
// Email and display name are used verbatim so derivation sees exactly what
// the identity source sent. Failures are reported in the result, never as a
// Go error.
func (s *UserRegistrationService) CheckAndRegister(ctx context.Context, objectID, email, displayName string) model.RegistrationResult {
	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		return model.RegistrationResult{Error: "Object ID is required"}
	}

	existing, err := s.repo.GetByObjectID(ctx, objectID)
	switch {
	case err == nil:
		return s.refresh(ctx, existing, email, displayName)
	case errors.Is(err, core.ErrUserProfileNotFound):
		return s.create(ctx, objectID, email, displayName)
	default:
		s.logger.ErrorContext(ctx, "lookup user profile", "object_id", objectID, "error", err)
		return model.RegistrationResult{Error: fmt.Sprintf("failed to look up user profile: %v", err)}
	}
}

func (s *UserRegistrationService) refresh(ctx context.Context, existing *model.UserProfile, email, displayName string) model.RegistrationResult {
	snapshot := *existing

	updated := *existing
	if email != "" {
		updated.Email = email
	}
	if displayName != "" {
		updated.DisplayName = displayName
	}
	updated.Department = s.department(ctx, updated.DisplayName)
	updated.Plant = s.plant(ctx, updated.Email)

	if _, err := s.repo.Update(ctx, &updated); err != nil {
		s.logger.ErrorContext(ctx, "update user profile", "object_id", existing.ObjectID, "error", err)
		return model.RegistrationResult{Error: fmt.Sprintf("failed to update user profile: %v", err)}
	}
	s.logger.DebugContext(ctx, "user profile refreshed", "object_id", existing.ObjectID)
	return model.RegistrationResult{IsRegistered: true, Profile: &snapshot}
}

func (s *UserRegistrationService) create(ctx context.Context, objectID, email, displayName string) model.RegistrationResult {
	p := &model.UserProfile{
		ObjectID:    objectID,
		Email:       email,
		DisplayName: displayName,
		Department:  s.department(ctx, displayName),
		Plant:       s.plant(ctx, email),
		IsActive:    true,
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		if apperrors.IsConflict(err) {
			// Another request registered the same user first.
			if again, gerr := s.repo.GetByObjectID(ctx, objectID); gerr == nil {
				return model.RegistrationResult{IsRegistered: true, Profile: again}
			}
		}
		s.logger.ErrorContext(ctx, "create user profile", "object_id", objectID, "error", err)
		return model.RegistrationResult{Error: fmt.Sprintf("failed to create user profile: %v", err)}
	}
	s.logger.InfoContext(ctx, "user registered",
		"object_id", objectID,
		"department", created.Department,
		"plant_code", created.Plant,
	)
	return model.RegistrationResult{IsRegistered: true, WasCreated: true, Profile: created}
}

func (s *UserRegistrationService) department(ctx context.Context, displayName string) string {
	d := profile.DepartmentFromDisplayName(displayName)
	if d == "" && displayName != "" {
		s.logger.DebugContext(ctx, "no department in display name", "display_name", displayName)
	}
	return d
}

func (s *UserRegistrationService) plant(ctx context.Context, email string) string {
	p := profile.PlantFromEmail(email)
	if p == "" && email != "" {
		s.logger.DebugContext(ctx, "no plant in email", "email", email)
	}
	return p
}

// GetProfile returns the active profile for objectID.
func (s *UserRegistrationService) GetProfile(ctx context.Context, objectID string) (*model.UserProfile, error) {
	objectID = strings.TrimSpace(objectID)
	if objectID == "" {
		return nil, apperrors.ValidationField("objectId", "Object ID is required")
	}
	p, err := s.repo.GetByObjectID(ctx, objectID)
	if err != nil {
		if errors.Is(err, core.ErrUserProfileNotFound) {
			return nil, apperrors.Wrapf(err, apperrors.ErrCodeNotFound, "user profile %s not found", objectID)
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return p, nil
}

// UpdateProfile persists p as given.
func (s *UserRegistrationService) UpdateProfile(ctx context.Context, p *model.UserProfile) (*model.UserProfile, error) {
	if p == nil {
		return nil, apperrors.Validation("user profile is required")
	}
	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}
	return out, nil
}

// IsRegistered reports whether an active profile exists for objectID.
func (s *UserRegistrationService) IsRegistered(ctx context.Context, objectID string) (bool, error) {
	if strings.TrimSpace(objectID) == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, objectID)
}
