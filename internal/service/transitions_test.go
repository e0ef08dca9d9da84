package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
)

func TestCheckTransition_Matrix(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		role    models.Role
		status  models.Status
		wantErr error
	}{
		{"reporter creates", ActionCreate, models.RoleReporter, "", nil},
		{"picker cannot create", ActionCreate, models.RolePicker, "", ErrForbidden},
		{"monitor cannot create", ActionCreate, models.RoleMonitor, "", ErrForbidden},

		{"picker claims reported", ActionClaim, models.RolePicker, models.StatusReported, nil},
		{"picker claims rejected", ActionClaim, models.RolePicker, models.StatusRejected, nil},
		{"picker cannot claim claimed", ActionClaim, models.RolePicker, models.StatusClaimed, ErrInvalidTransition},
		{"picker cannot claim pending", ActionClaim, models.RolePicker, models.StatusPendingReview, ErrInvalidTransition},
		{"picker cannot claim completed", ActionClaim, models.RolePicker, models.StatusCompleted, ErrInvalidTransition},
		{"reporter cannot claim", ActionClaim, models.RoleReporter, models.StatusReported, ErrForbidden},
		{"monitor cannot claim", ActionClaim, models.RoleMonitor, models.StatusReported, ErrForbidden},

		{"picker submits proof on claimed", ActionSubmitProof, models.RolePicker, models.StatusClaimed, nil},
		{"picker cannot submit proof on reported", ActionSubmitProof, models.RolePicker, models.StatusReported, ErrInvalidTransition},
		{"picker cannot submit proof twice", ActionSubmitProof, models.RolePicker, models.StatusPendingReview, ErrInvalidTransition},
		{"monitor cannot submit proof", ActionSubmitProof, models.RoleMonitor, models.StatusClaimed, ErrForbidden},

		{"monitor approves pending", ActionApprove, models.RoleMonitor, models.StatusPendingReview, nil},
		{"monitor cannot approve claimed", ActionApprove, models.RoleMonitor, models.StatusClaimed, ErrInvalidTransition},
		{"monitor cannot approve completed again", ActionApprove, models.RoleMonitor, models.StatusCompleted, ErrInvalidTransition},
		{"picker cannot approve", ActionApprove, models.RolePicker, models.StatusPendingReview, ErrForbidden},

		{"monitor rejects pending", ActionReject, models.RoleMonitor, models.StatusPendingReview, nil},
		{"monitor cannot reject reported", ActionReject, models.RoleMonitor, models.StatusReported, ErrInvalidTransition},
		{"reporter cannot reject", ActionReject, models.RoleReporter, models.StatusPendingReview, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := &models.Profile{Role: tt.role}
			var report *models.Report
			if tt.status != "" {
				report = &models.Report{Status: tt.status}
			}

			err := checkTransition(tt.action, actor, report)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckTransition_UnknownAction(t *testing.T) {
	actor := &models.Profile{Role: models.RoleMonitor}
	err := checkTransition(Action("archive"), actor, &models.Report{Status: models.StatusCompleted})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
