package v1

import (
	"time"

	"github.com/google/uuid"
)

// CreateProfileRequest creates (or finishes setting up) the caller's profile.
// @Description Profile setup request
type CreateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Role string `json:"role" validate:"required,oneof=reporter picker monitor"`
}

// CreateReportRequest files a new waste report.
// @Description New waste report request
type CreateReportRequest struct {
	PhotoURL  string  `json:"photo_url" validate:"required,url"`
	Note      string  `json:"note,omitempty" validate:"max=1000"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// SubmitProofRequest attaches the cleanup photo and the picker's location.
// @Description Cleanup proof submission
type SubmitProofRequest struct {
	PhotoURL  string  `json:"photo_url" validate:"required,url"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// ReviewRequest carries the monitor's verdict message.
// @Description Monitor review request
type ReviewRequest struct {
	Message string `json:"message,omitempty" validate:"max=500"`
}

// ProfileResponse is the profile as seen by clients.
// @Description Profile response
type ProfileResponse struct {
	UserID              uuid.UUID `json:"user_id"`
	Name                string    `json:"name"`
	Role                string    `json:"role"`
	TotalReporterPoints int       `json:"total_reporter_points"`
	TotalPickerPoints   int       `json:"total_picker_points"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ReportResponse is a report snapshot as seen by clients.
// @Description Report response
type ReportResponse struct {
	ID               uuid.UUID  `json:"id"`
	ReporterID       uuid.UUID  `json:"reporter_id"`
	ReporterName     string     `json:"reporter_name"`
	PhotoURL         string     `json:"photo_url"`
	Note             string     `json:"note,omitempty"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	AIClassification string     `json:"ai_classification"`
	Priority         string     `json:"priority"`
	BaseReward       int        `json:"base_reward"`
	Status           string     `json:"status"`
	PickerID         *uuid.UUID `json:"picker_id,omitempty"`
	PickerName       *string    `json:"picker_name,omitempty"`
	CleanupPhotoURL  *string    `json:"cleanup_photo_url,omitempty"`
	PickerLatitude   *float64   `json:"picker_latitude,omitempty"`
	PickerLongitude  *float64   `json:"picker_longitude,omitempty"`

	ReporterRewardIssued bool `json:"reporter_reward_issued"`
	PickerRewardIssued   bool `json:"picker_reward_issued"`

	MonitorID      *uuid.UUID `json:"monitor_id,omitempty"`
	MonitorName    *string    `json:"monitor_name,omitempty"`
	MonitorMessage *string    `json:"monitor_message,omitempty"`

	ReportedAt time.Time `json:"reported_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SettlementResponse confirms an approval with the exact rewards issued.
// @Description Settlement response
type SettlementResponse struct {
	Report         *ReportResponse `json:"report"`
	ReporterReward int             `json:"reporter_reward"`
	PickerReward   int             `json:"picker_reward"`
}

// SessionResponse is the anonymous sign-in result.
// @Description Anonymous session response
type SessionResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
