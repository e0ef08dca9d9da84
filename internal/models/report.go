package models

import (
	"time"

	"github.com/google/uuid"
)

// Status of a report in its lifecycle.
//
// reported -> claimed -> pending_review -> completed
//                                       -> rejected (claimable again)
type Status string

const (
	StatusReported      Status = "reported"
	StatusClaimed       Status = "claimed"
	StatusPendingReview Status = "pending_review"
	StatusCompleted     Status = "completed"
	StatusRejected      Status = "rejected"
)

// ClaimableStatuses lists the statuses a picker may claim from. A rejected
// report re-enters the claimable pool.
func ClaimableStatuses() []Status {
	return []Status{StatusReported, StatusRejected}
}

// Claimable reports whether a picker may claim a report in this status.
func (s Status) Claimable() bool {
	for _, c := range ClaimableStatuses() {
		if s == c {
			return true
		}
	}
	return false
}

// Report is a reported waste location moving through a fixed lifecycle.
// Reports are never deleted; terminal states are retained as history.
type Report struct {
	ID           uuid.UUID `json:"id"`
	ReporterID   uuid.UUID `json:"reporter_id"`
	ReporterName string    `json:"reporter_name"`
	PhotoURL     string    `json:"photo_url"`
	Note         string    `json:"note,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`

	// Advisory output stamped at creation, never revalidated.
	AIClassification string `json:"ai_classification"`
	Priority         string `json:"priority"`
	BaseReward       int    `json:"base_reward"`

	Status Status `json:"status"`

	PickerID        *uuid.UUID `json:"picker_id,omitempty"`
	PickerName      *string    `json:"picker_name,omitempty"`
	CleanupPhotoURL *string    `json:"cleanup_photo_url,omitempty"`
	PickerLatitude  *float64   `json:"picker_latitude,omitempty"`
	PickerLongitude *float64   `json:"picker_longitude,omitempty"`

	ReporterRewardIssued bool `json:"reporter_reward_issued"`
	PickerRewardIssued   bool `json:"picker_reward_issued"`

	MonitorID      *uuid.UUID `json:"monitor_id,omitempty"`
	MonitorName    *string    `json:"monitor_name,omitempty"`
	MonitorMessage *string    `json:"monitor_message,omitempty"`

	ReportedAt time.Time `json:"reported_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReportFilter narrows report listings. Zero value means "everything".
type ReportFilter struct {
	Statuses      []Status
	ReporterID    *uuid.UUID
	PickerID      *uuid.UUID
	ClaimableOnly bool
}

// StatusCounts is the per-status report breakdown for the stats endpoint.
type StatusCounts struct {
	Reported      int `json:"reported"`
	Claimed       int `json:"claimed"`
	PendingReview int `json:"pending_review"`
	Completed     int `json:"completed"`
	Rejected      int `json:"rejected"`
}

// NamespaceStats aggregates activity across the whole namespace.
type NamespaceStats struct {
	Reports             StatusCounts `json:"reports"`
	ReporterPointsTotal int          `json:"reporter_points_total"`
	PickerPointsTotal   int          `json:"picker_points_total"`
}
