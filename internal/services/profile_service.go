package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/ICAN-F-2025/readiness-service/internal/events"
	"github.com/ICAN-F-2025/readiness-service/internal/models"
	"github.com/ICAN-F-2025/readiness-service/internal/repositories"
	"github.com/ICAN-F-2025/readiness-service/internal/validator"
)

type profileService struct {
	repo           repositories.Repository
	db             *gorm.DB
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	provisioner    ProvisionService

	// now is swappable so grade boundaries can be tested at a fixed instant.
	now func() time.Time
}

func NewProfileService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, provisioner ProvisionService) ProfileService {
	return &profileService{
		repo:           repo,
		db:             db,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		provisioner:    provisioner,
		now:            time.Now,
	}
}

// Upsert creates or replaces the profile for an authenticated identity,
// derives the grade from the graduation year, and re-provisions the
// checklist.
func (s *profileService) Upsert(ctx context.Context, userID string, req *UpsertProfileRequest) (*ProfileResponse, error) {
	if errs := s.validator.GetBusinessValidator().ValidateProfileUpsert(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	role := models.NormalizeRole(req.Role)

	graduationYear := "N/A"
	if req.GraduationYear != nil {
		graduationYear = *req.GraduationYear
	}

	plan := models.PlanNotApplicable
	if req.Plan != nil {
		plan = models.CollegePlan(*req.Plan)
	}

	grade := CalculateGrade(graduationYear, s.now())

	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	switch {
	case err == nil:
		profile.FullName = req.FullName
		profile.Email = req.Email
		profile.Role = role
		profile.Grade = grade
		profile.GraduationYear = graduationYear
		profile.Plan = plan
		if req.SchoolName != nil {
			profile.SchoolName = *req.SchoolName
		}
		if err := s.repo.Profile().Update(ctx, nil, profile); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	case repositories.IsNotFoundError(err):
		profile = &models.Profile{
			ID:             userID,
			FullName:       req.FullName,
			Email:          req.Email,
			Role:           role,
			Grade:          grade,
			GraduationYear: graduationYear,
			Plan:           plan,
			Progress:       "0/0",
		}
		if req.SchoolName != nil {
			profile.SchoolName = *req.SchoolName
		}
		if err := s.repo.Profile().Create(ctx, nil, profile); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	s.logger.Info("Profile saved",
		"user_id", userID, "role", role, "grade", grade, "plan", plan)

	if _, err := s.provisioner.Provision(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to provision checklist: %w", err)
	}

	s.publishProfileUpdated(ctx, userID, profile)

	return s.Get(ctx, userID)
}

func (s *profileService) Get(ctx context.Context, userID string) (*ProfileResponse, error) {
	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return toProfileResponse(profile), nil
}

// Update applies a partial edit. A graduation year change re-derives the
// grade, and a grade or plan change re-provisions the checklist.
func (s *profileService) Update(ctx context.Context, userID string, req *UpdateProfileRequest) (*ProfileResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	prevGrade, prevPlan := profile.Grade, profile.Plan

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.SchoolName != nil {
		profile.SchoolName = *req.SchoolName
	}
	if req.GraduationYear != nil {
		profile.GraduationYear = *req.GraduationYear
		profile.Grade = CalculateGrade(*req.GraduationYear, s.now())
	}
	if req.Plan != nil {
		profile.Plan = models.CollegePlan(*req.Plan)
	}

	if err := s.repo.Profile().Update(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if profile.Grade != prevGrade || profile.Plan != prevPlan {
		if _, err := s.provisioner.Provision(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to provision checklist: %w", err)
		}
	}

	s.publishProfileUpdated(ctx, userID, profile)

	return s.Get(ctx, userID)
}

// UpdatePreferences merges notification preference edits and the push
// token into the profile.
func (s *profileService) UpdatePreferences(ctx context.Context, userID string, req *UpdatePreferencesRequest) (*ProfileResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	profile, err := s.repo.Profile().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if req.ExpoPushToken != nil {
		profile.ExpoPushToken = req.ExpoPushToken
	}

	prefs := decodePrefs(profile)
	if req.TipOfWeek != nil {
		prefs.TipOfWeek = *req.TipOfWeek
	}
	if req.GradeLevelAlerts != nil {
		prefs.GradeLevelAlerts = *req.GradeLevelAlerts
	}
	if req.CounselorEmails != nil {
		prefs.CounselorEmails = *req.CounselorEmails
	}
	if req.AccessProfessionals != nil {
		prefs.AccessProfessionals = *req.AccessProfessionals
	}

	encoded, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	profile.NotificationPrefs = encoded

	if err := s.repo.Profile().Update(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return toProfileResponse(profile), nil
}

// List returns profiles for counselor and admin dashboards.
func (s *profileService) List(ctx context.Context, filters repositories.ProfileFilters, requesterID string) (*ProfileListResponse, error) {
	requester, err := s.repo.Profile().GetByID(ctx, nil, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load requester profile: %w", err)
	}

	if requester.Role != models.RoleCounselor && requester.Role != models.RoleAdmin {
		return nil, NewPermissionError(requesterID, "profiles", "list", "requires counselor or admin role")
	}

	profiles, total, err := s.repo.Profile().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	resp := &ProfileListResponse{Total: total}
	for _, profile := range profiles {
		resp.Profiles = append(resp.Profiles, toProfileResponse(profile))
	}
	if filters.Limit > 0 {
		resp.Size = filters.Limit
		resp.Page = filters.Offset/filters.Limit + 1
	}

	return resp, nil
}

func (s *profileService) publishProfileUpdated(ctx context.Context, userID string, profile *models.Profile) {
	if s.eventPublisher == nil {
		return
	}
	event := events.NewEvent(events.EventProfileUpdated, map[string]interface{}{
		"user_id": userID,
		"role":    profile.Role,
		"grade":   profile.Grade,
		"plan":    profile.Plan,
	})
	if err := s.eventPublisher.Publish(ctx, events.TopicProfiles, event); err != nil {
		s.logger.Warn("Failed to publish profile event", "user_id", userID, "error", err)
	}
}

func toProfileResponse(profile *models.Profile) *ProfileResponse {
	prefs := decodePrefs(profile)
	return &ProfileResponse{
		Profile:     profile,
		Preferences: &prefs,
	}
}

func decodePrefs(profile *models.Profile) models.NotificationPrefs {
	var prefs models.NotificationPrefs
	if len(profile.NotificationPrefs) > 0 {
		// A corrupt column falls back to zero-value preferences.
		_ = json.Unmarshal(profile.NotificationPrefs, &prefs)
	}
	return prefs
}
