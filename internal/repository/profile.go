package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
	"github.com/cleansweep-app/cleansweep-api/internal/service"
)

type ProfileRepository struct {
	db        *pgxpool.Pool
	namespace string
}

func NewProfileRepository(db *pgxpool.Pool, namespace string) service.ProfileRepository {
	return &ProfileRepository{
		db:        db,
		namespace: namespace,
	}
}

// Get returns the profile for a user, or service.ErrProfileNotFound when the
// user has not completed setup yet. Any other error is an infrastructure
// failure, which callers must not confuse with "no profile".
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT user_id, name, role, total_reporter_points, total_picker_points, created_at, updated_at
		FROM profiles
		WHERE namespace = $1 AND user_id = $2;
	`
	err := r.db.QueryRow(ctx, query, r.namespace, userID).Scan(
		&profile.UserID,
		&profile.Name,
		&profile.Role,
		&profile.TotalReporterPoints,
		&profile.TotalPickerPoints,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Upsert creates the profile on first write. A repeat write by the same user
// only refreshes the display name: role and point totals are never touched
// here, so the first-written role wins and the settlement stays the only
// writer of the counters.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (namespace, user_id, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, user_id) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING user_id, name, role, total_reporter_points, total_picker_points, created_at, updated_at;
	`
	stored := &models.Profile{}
	err := r.db.QueryRow(ctx, query,
		r.namespace,
		profile.UserID,
		profile.Name,
		profile.Role,
	).Scan(
		&stored.UserID,
		&stored.Name,
		&stored.Role,
		&stored.TotalReporterPoints,
		&stored.TotalPickerPoints,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return stored, nil
}
