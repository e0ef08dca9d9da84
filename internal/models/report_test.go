package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusClaimable(t *testing.T) {
	tests := []struct {
		status    Status
		claimable bool
	}{
		{StatusReported, true},
		{StatusClaimed, false},
		{StatusPendingReview, false},
		{StatusCompleted, false},
		{StatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.claimable, tt.status.Claimable())
		})
	}
}

func TestClaimableStatuses_MatchClaimable(t *testing.T) {
	// The slice is the single source of truth for the claim guards; every
	// status it lists must report itself claimable, and vice versa.
	listed := make(map[Status]bool)
	for _, s := range ClaimableStatuses() {
		listed[s] = true
		assert.True(t, s.Claimable())
	}

	all := []Status{StatusReported, StatusClaimed, StatusPendingReview, StatusCompleted, StatusRejected}
	for _, s := range all {
		assert.Equal(t, listed[s], s.Claimable(), "status %s", s)
	}
}
