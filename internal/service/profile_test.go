package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
	notify_mocks "github.com/cleansweep-app/cleansweep-api/internal/notify/mocks"
	"github.com/cleansweep-app/cleansweep-api/internal/service/mocks"
)

func newTestProfileService(t *testing.T) (ProfileService, *mocks.MockProfileRepository, *notify_mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	profilesMock := mocks.NewMockProfileRepository(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	return NewProfileService(profilesMock, publisherMock, logger), profilesMock, publisherMock
}

func TestGetProfile_Success(t *testing.T) {
	service, profilesMock, _ := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()
	expected := &models.Profile{UserID: userID, Name: "Rita", Role: models.RoleReporter}

	profilesMock.EXPECT().Get(ctx, userID).Return(expected, nil).Times(1)

	profile, err := service.GetProfile(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, expected, profile)
}

func TestGetProfile_NotFound(t *testing.T) {
	service, profilesMock, _ := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()

	profilesMock.EXPECT().Get(ctx, userID).Return(nil, ErrProfileNotFound).Times(1)

	profile, err := service.GetProfile(ctx, userID)

	require.Error(t, err)
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestCreateProfile_Success(t *testing.T) {
	service, profilesMock, publisherMock := newTestProfileService(t)
	ctx := context.Background()
	userID := uuid.New()
	stored := &models.Profile{UserID: userID, Name: "Pavel", Role: models.RolePicker}

	profilesMock.EXPECT().
		Upsert(ctx, gomock.Any()).
		Do(func(ctx context.Context, p *models.Profile) {
			assert.Equal(t, userID, p.UserID)
			assert.Equal(t, models.RolePicker, p.Role)
			// Point totals are owned by the settlement and start at zero.
			assert.Zero(t, p.TotalReporterPoints)
			assert.Zero(t, p.TotalPickerPoints)
		}).Return(stored, nil).Times(1)

	publisherMock.EXPECT().ProfileChanged(ctx, stored).Return(nil).Times(1)

	profile, err := service.CreateProfile(ctx, userID, "Pavel", models.RolePicker)

	require.NoError(t, err)
	assert.Equal(t, stored, profile)
}

func TestCreateProfile_InvalidRole(t *testing.T) {
	service, profilesMock, _ := newTestProfileService(t)
	ctx := context.Background()

	profilesMock.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(0)

	profile, err := service.CreateProfile(ctx, uuid.New(), "Mallory", models.Role("admin"))

	require.Error(t, err)
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCreateProfile_RepositoryError(t *testing.T) {
	service, profilesMock, _ := newTestProfileService(t)
	ctx := context.Background()
	repoError := fmt.Errorf("connection refused")

	profilesMock.EXPECT().Upsert(ctx, gomock.Any()).Return(nil, repoError).Times(1)

	profile, err := service.CreateProfile(ctx, uuid.New(), "Rita", models.RoleReporter)

	require.Error(t, err)
	assert.Nil(t, profile)
	assert.ErrorContains(t, err, "could not create profile")
}
