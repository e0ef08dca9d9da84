package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
	"github.com/cleansweep-app/cleansweep-api/internal/notify"
)

// ProfileRepository is the store contract for profiles. Get distinguishes a
// missing profile (ErrProfileNotFound) from an infrastructure failure so the
// caller can route first-time users to the setup flow.
type ProfileRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
}

// ProfileService handles profile bootstrap for first-time users.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, name string, role models.Role) (*models.Profile, error)
}

type profileService struct {
	profiles  ProfileRepository
	publisher notify.Publisher
	logger    *logrus.Logger
}

func NewProfileService(profiles ProfileRepository, publisher notify.Publisher, logger *logrus.Logger) ProfileService {
	return &profileService{
		profiles:  profiles,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		// Not found is an expected state for first-time users, not a fault.
		s.logger.WithFields(logrus.Fields{
			"service": "profile",
			"method":  "GetProfile",
			"user_id": userID,
		}).WithError(err).Debug("Profile lookup did not return a profile")
		return nil, err
	}
	return profile, nil
}

// CreateProfile creates the user's profile, or refreshes the display name if
// one already exists. The role is written once and never changed afterwards;
// point totals always start at zero and are owned by the settlement.
func (s *profileService) CreateProfile(ctx context.Context, userID uuid.UUID, name string, role models.Role) (*models.Profile, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "profile",
		"method":  "CreateProfile",
		"user_id": userID,
		"role":    role,
	})

	if !role.Valid() {
		log.Warn("Rejected profile with unknown role")
		return nil, ErrInvalidRole
	}

	profile, err := s.profiles.Upsert(ctx, &models.Profile{
		UserID: userID,
		Name:   name,
		Role:   role,
	})
	if err != nil {
		log.WithError(err).Error("Failed to upsert profile")
		return nil, fmt.Errorf("service: could not create profile: %w", err)
	}

	if err := s.publisher.ProfileChanged(ctx, profile); err != nil {
		log.WithError(err).Warn("Failed to publish profile change")
	}

	log.Info("Profile ready")
	return profile, nil
}
