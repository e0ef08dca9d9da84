package models

import (
	"time"

	"github.com/google/uuid"
)

// Role of a profile. Chosen once at profile creation, immutable afterwards.
type Role string

const (
	RoleReporter Role = "reporter"
	RolePicker   Role = "picker"
	RoleMonitor  Role = "monitor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleReporter, RolePicker, RoleMonitor:
		return true
	}
	return false
}

// Profile is the per-user record of role and cumulative reward points.
// Point totals are non-negative, monotonically non-decreasing and are
// mutated only by the approval settlement.
type Profile struct {
	UserID              uuid.UUID `json:"user_id"`
	Name                string    `json:"name"`
	Role                Role      `json:"role"`
	TotalReporterPoints int       `json:"total_reporter_points"`
	TotalPickerPoints   int       `json:"total_picker_points"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
