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
	"github.com/cleansweep-app/cleansweep-api/internal/notify"
	notify_mocks "github.com/cleansweep-app/cleansweep-api/internal/notify/mocks"
	"github.com/cleansweep-app/cleansweep-api/internal/service/mocks"
)

// newTestReportService builds the service with all collaborators mocked.
func newTestReportService(t *testing.T) (*reportService, *mocks.MockReportRepository, *mocks.MockProfileRepository, *mocks.MockAdvisoryClient, *notify_mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	reportsMock := mocks.NewMockReportRepository(ctrl)
	profilesMock := mocks.NewMockProfileRepository(ctrl)
	advisoryMock := mocks.NewMockAdvisoryClient(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // silence logs in tests

	service := NewReportService(reportsMock, profilesMock, advisoryMock, publisherMock, logger)
	return service.(*reportService), reportsMock, profilesMock, advisoryMock, publisherMock
}

func reporterProfile() *models.Profile {
	return &models.Profile{UserID: uuid.New(), Name: "Rita Reporter", Role: models.RoleReporter}
}

func pickerProfile() *models.Profile {
	return &models.Profile{UserID: uuid.New(), Name: "Pavel Picker", Role: models.RolePicker}
}

func monitorProfile() *models.Profile {
	return &models.Profile{UserID: uuid.New(), Name: "Mona Monitor", Role: models.RoleMonitor}
}

func TestCreateReport_Success(t *testing.T) {
	service, reportsMock, profilesMock, advisoryMock, publisherMock := newTestReportService(t)
	ctx := context.Background()
	reporter := reporterProfile()

	profilesMock.EXPECT().Get(ctx, reporter.UserID).Return(reporter, nil).Times(1)
	advisoryMock.EXPECT().Classify(ctx, "overflowing bins").Return("Household garbage", "High").Times(1)
	advisoryMock.EXPECT().EstimateReward(ctx, "Household garbage", "High").Return(25).Times(1)

	reportsMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, r *models.Report) error {
			r.ID = uuid.New() // the store assigns the id
			return nil
		}).Times(1)

	publisherMock.EXPECT().ReportChanged(ctx, notify.EventReportCreated, gomock.Any()).Return(nil).Times(1)

	report, err := service.CreateReport(ctx, reporter.UserID, "https://img.example/waste.jpg", "overflowing bins", 55.75, 37.61)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, models.StatusReported, report.Status)
	assert.Equal(t, reporter.UserID, report.ReporterID)
	assert.Equal(t, reporter.Name, report.ReporterName)
	assert.Equal(t, "Household garbage", report.AIClassification)
	assert.Equal(t, "High", report.Priority)
	assert.Equal(t, 25, report.BaseReward)
}

func TestCreateReport_ProfileMissing(t *testing.T) {
	service, _, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	userID := uuid.New()

	profilesMock.EXPECT().Get(ctx, userID).Return(nil, ErrProfileNotFound).Times(1)

	report, err := service.CreateReport(ctx, userID, "https://img.example/waste.jpg", "", 0, 0)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestCreateReport_WrongRole(t *testing.T) {
	service, _, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)

	report, err := service.CreateReport(ctx, picker.UserID, "https://img.example/waste.jpg", "", 0, 0)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateReport_PhotoRequired(t *testing.T) {
	service, _, profilesMock, advisoryMock, _ := newTestReportService(t)
	ctx := context.Background()
	reporter := reporterProfile()

	profilesMock.EXPECT().Get(ctx, reporter.UserID).Return(reporter, nil).Times(1)
	// The advisory is never consulted for an invalid report.
	advisoryMock.EXPECT().Classify(gomock.Any(), gomock.Any()).Times(0)

	report, err := service.CreateReport(ctx, reporter.UserID, "", "no photo", 0, 0)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrPhotoRequired)
}

func TestClaimReport_Success(t *testing.T) {
	service, reportsMock, profilesMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusReported}
	claimed := &models.Report{ID: reportID, Status: models.StatusClaimed, PickerID: &picker.UserID, PickerName: &picker.Name}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	reportsMock.EXPECT().Claim(ctx, reportID, picker).Return(claimed, nil).Times(1)
	reportsMock.EXPECT().InvalidateReportCache(ctx, reportID).Return(nil).Times(1)
	publisherMock.EXPECT().ReportChanged(ctx, notify.EventReportUpdated, claimed).Return(nil).Times(1)

	report, err := service.ClaimReport(ctx, picker.UserID, reportID)

	require.NoError(t, err)
	assert.Equal(t, models.StatusClaimed, report.Status)
	require.NotNil(t, report.PickerID)
	assert.Equal(t, picker.UserID, *report.PickerID)
}

func TestClaimReport_RejectedIsClaimableAgain(t *testing.T) {
	service, reportsMock, profilesMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusRejected}
	claimed := &models.Report{ID: reportID, Status: models.StatusClaimed, PickerID: &picker.UserID}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	reportsMock.EXPECT().Claim(ctx, reportID, picker).Return(claimed, nil).Times(1)
	reportsMock.EXPECT().InvalidateReportCache(ctx, reportID).Return(nil).Times(1)
	publisherMock.EXPECT().ReportChanged(ctx, notify.EventReportUpdated, claimed).Return(nil).Times(1)

	report, err := service.ClaimReport(ctx, picker.UserID, reportID)

	require.NoError(t, err)
	assert.Equal(t, models.StatusClaimed, report.Status)
}

func TestClaimReport_AlreadyClaimed(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusClaimed}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	reportsMock.EXPECT().Claim(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	report, err := service.ClaimReport(ctx, picker.UserID, reportID)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestClaimReport_WrongRole(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	reporter := reporterProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusReported}

	profilesMock.EXPECT().Get(ctx, reporter.UserID).Return(reporter, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)

	report, err := service.ClaimReport(ctx, reporter.UserID, reportID)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestClaimReport_LostRace(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusReported}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	// Another picker got there first between the guard and the write.
	reportsMock.EXPECT().Claim(ctx, reportID, picker).Return(nil, ErrConflict).Times(1)

	report, err := service.ClaimReport(ctx, picker.UserID, reportID)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSubmitProof_Success(t *testing.T) {
	service, reportsMock, profilesMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusClaimed, PickerID: &picker.UserID}
	photo := "https://img.example/clean.jpg"
	pending := &models.Report{ID: reportID, Status: models.StatusPendingReview, PickerID: &picker.UserID, CleanupPhotoURL: &photo}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	reportsMock.EXPECT().SubmitProof(ctx, reportID, picker.UserID, photo, 55.75, 37.61).Return(pending, nil).Times(1)
	reportsMock.EXPECT().InvalidateReportCache(ctx, reportID).Return(nil).Times(1)
	publisherMock.EXPECT().ReportChanged(ctx, notify.EventReportUpdated, pending).Return(nil).Times(1)

	report, err := service.SubmitProof(ctx, picker.UserID, reportID, photo, 55.75, 37.61)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, report.Status)
	require.NotNil(t, report.CleanupPhotoURL)
	assert.Equal(t, photo, *report.CleanupPhotoURL)
}

func TestSubmitProof_NotAssignedPicker(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	otherPicker := uuid.New()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusClaimed, PickerID: &otherPicker}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	reportsMock.EXPECT().SubmitProof(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	report, err := service.SubmitProof(ctx, picker.UserID, reportID, "https://img.example/clean.jpg", 0, 0)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNotAssignedPicker)
}

func TestSubmitProof_ProofAlreadySubmitted(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	existing := "https://img.example/first.jpg"
	stored := &models.Report{ID: reportID, Status: models.StatusClaimed, PickerID: &picker.UserID, CleanupPhotoURL: &existing}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)

	report, err := service.SubmitProof(ctx, picker.UserID, reportID, "https://img.example/second.jpg", 0, 0)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrProofExists)
}

func TestSubmitProof_PhotoRequired(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusClaimed, PickerID: &picker.UserID}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)

	report, err := service.SubmitProof(ctx, picker.UserID, reportID, "", 0, 0)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrPhotoRequired)
}

func TestSubmitProof_NotClaimed(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusReported}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)

	report, err := service.SubmitProof(ctx, picker.UserID, reportID, "https://img.example/clean.jpg", 0, 0)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveReport_Success(t *testing.T) {
	service, reportsMock, profilesMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	monitor := monitorProfile()
	reportID := uuid.New()
	reporterID := uuid.New()
	pickerID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusPendingReview, ReporterID: reporterID, PickerID: &pickerID, BaseReward: DefaultBaseReward}
	settlement := &models.Settlement{
		Report:          &models.Report{ID: reportID, Status: models.StatusCompleted, ReporterRewardIssued: true, PickerRewardIssued: true},
		ReporterProfile: &models.Profile{UserID: reporterID, Role: models.RoleReporter, TotalReporterPoints: 10},
		PickerProfile:   &models.Profile{UserID: pickerID, Role: models.RolePicker, TotalPickerPoints: 30},
		ReporterReward:  DefaultBaseReward,
		PickerReward:    DefaultBaseReward * PickerRewardMultiplier,
	}

	profilesMock.EXPECT().Get(ctx, monitor.UserID).Return(monitor, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	reportsMock.EXPECT().Approve(ctx, reportID, monitor, "looks clean").Return(settlement, nil).Times(1)
	reportsMock.EXPECT().InvalidateReportCache(ctx, reportID).Return(nil).Times(1)

	// One report event and one profile event per settled side.
	publisherMock.EXPECT().ReportChanged(ctx, notify.EventReportUpdated, settlement.Report).Return(nil).Times(1)
	publisherMock.EXPECT().ProfileChanged(ctx, settlement.ReporterProfile).Return(nil).Times(1)
	publisherMock.EXPECT().ProfileChanged(ctx, settlement.PickerProfile).Return(nil).Times(1)

	result, err := service.ApproveReport(ctx, monitor.UserID, reportID, "looks clean")

	require.NoError(t, err)
	assert.Equal(t, 10, result.ReporterReward)
	assert.Equal(t, 30, result.PickerReward)
	assert.Equal(t, models.StatusCompleted, result.Report.Status)
	assert.True(t, result.Report.ReporterRewardIssued)
	assert.True(t, result.Report.PickerRewardIssued)
}

func TestApproveReport_WrongRole(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	picker := pickerProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusPendingReview}

	profilesMock.EXPECT().Get(ctx, picker.UserID).Return(picker, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	reportsMock.EXPECT().Approve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	settlement, err := service.ApproveReport(ctx, picker.UserID, reportID, "")

	require.Error(t, err)
	assert.Nil(t, settlement)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveReport_NotPendingReview(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	monitor := monitorProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusCompleted}

	profilesMock.EXPECT().Get(ctx, monitor.UserID).Return(monitor, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)

	settlement, err := service.ApproveReport(ctx, monitor.UserID, reportID, "")

	require.Error(t, err)
	assert.Nil(t, settlement)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveReport_SettlementConflict(t *testing.T) {
	service, reportsMock, profilesMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	monitor := monitorProfile()
	reportID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusPendingReview}

	profilesMock.EXPECT().Get(ctx, monitor.UserID).Return(monitor, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	// A concurrent verdict moved the report; the transaction rolled back.
	reportsMock.EXPECT().Approve(ctx, reportID, monitor, "").Return(nil, ErrConflict).Times(1)

	settlement, err := service.ApproveReport(ctx, monitor.UserID, reportID, "")

	require.Error(t, err)
	assert.Nil(t, settlement)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRejectReport_Success(t *testing.T) {
	service, reportsMock, profilesMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	monitor := monitorProfile()
	reportID := uuid.New()
	pickerID := uuid.New()
	stored := &models.Report{ID: reportID, Status: models.StatusPendingReview, PickerID: &pickerID}
	message := "photo does not show the site"
	rejected := &models.Report{ID: reportID, Status: models.StatusRejected, MonitorID: &monitor.UserID, MonitorMessage: &message}

	profilesMock.EXPECT().Get(ctx, monitor.UserID).Return(monitor, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(stored, nil).Times(1)
	reportsMock.EXPECT().Reject(ctx, reportID, monitor, message).Return(rejected, nil).Times(1)
	reportsMock.EXPECT().InvalidateReportCache(ctx, reportID).Return(nil).Times(1)
	publisherMock.EXPECT().ReportChanged(ctx, notify.EventReportUpdated, rejected).Return(nil).Times(1)

	report, err := service.RejectReport(ctx, monitor.UserID, reportID, message)

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, report.Status)
	// The rejected report re-enters the claimable pool with no picker attached.
	assert.Nil(t, report.PickerID)
	assert.Nil(t, report.CleanupPhotoURL)
	assert.True(t, report.Status.Claimable())
}

func TestGetReport_Success_FromCache(t *testing.T) {
	service, reportsMock, _, _, _ := newTestReportService(t)
	ctx := context.Background()
	reportID := uuid.New()
	expected := &models.Report{ID: reportID, Status: models.StatusReported}

	reportsMock.EXPECT().GetReportFromCache(ctx, reportID).Return(expected, nil).Times(1)

	report, err := service.GetReport(ctx, reportID)

	require.NoError(t, err)
	assert.Equal(t, expected, report)
}

func TestGetReport_Success_FromStore(t *testing.T) {
	service, reportsMock, _, _, _ := newTestReportService(t)
	ctx := context.Background()
	reportID := uuid.New()
	expected := &models.Report{ID: reportID, Status: models.StatusReported}

	reportsMock.EXPECT().GetReportFromCache(ctx, reportID).Return(nil, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(expected, nil).Times(1)
	reportsMock.EXPECT().SetReportCache(ctx, expected).Return(nil).Times(1)

	report, err := service.GetReport(ctx, reportID)

	require.NoError(t, err)
	assert.Equal(t, expected, report)
}

func TestGetReport_NotFound(t *testing.T) {
	service, reportsMock, _, _, _ := newTestReportService(t)
	ctx := context.Background()
	reportID := uuid.New()

	reportsMock.EXPECT().GetReportFromCache(ctx, reportID).Return(nil, nil).Times(1)
	reportsMock.EXPECT().GetByID(ctx, reportID).Return(nil, ErrReportNotFound).Times(1)

	report, err := service.GetReport(ctx, reportID)

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestListReports_Success(t *testing.T) {
	service, reportsMock, _, _, _ := newTestReportService(t)
	ctx := context.Background()
	filter := models.ReportFilter{ClaimableOnly: true}
	expected := []*models.Report{
		{ID: uuid.New(), Status: models.StatusReported},
		{ID: uuid.New(), Status: models.StatusRejected},
	}

	reportsMock.EXPECT().List(ctx, filter).Return(expected, nil).Times(1)

	reports, err := service.ListReports(ctx, filter)

	require.NoError(t, err)
	assert.Equal(t, expected, reports)
}

func TestListReports_RepositoryError(t *testing.T) {
	service, reportsMock, _, _, _ := newTestReportService(t)
	ctx := context.Background()
	repoError := fmt.Errorf("connection refused")

	reportsMock.EXPECT().List(ctx, models.ReportFilter{}).Return(nil, repoError).Times(1)

	reports, err := service.ListReports(ctx, models.ReportFilter{})

	require.Error(t, err)
	assert.Nil(t, reports)
	assert.ErrorContains(t, err, "could not list reports")
}

func TestStats_Success(t *testing.T) {
	service, reportsMock, _, _, _ := newTestReportService(t)
	ctx := context.Background()
	expected := &models.NamespaceStats{
		Reports:             models.StatusCounts{Reported: 3, Completed: 2},
		ReporterPointsTotal: 20,
		PickerPointsTotal:   60,
	}

	reportsMock.EXPECT().Stats(ctx).Return(expected, nil).Times(1)

	stats, err := service.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
}
