package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
	"github.com/cleansweep-app/cleansweep-api/internal/notify"
)

// Reward policy. The reporter receives the report's base reward and the
// picker receives three times that; both values are fixed at approval time.
const (
	DefaultBaseReward      = 10
	PickerRewardMultiplier = 3
)

// ReportRepository is the store contract for reports. Single-document writes
// are conditional on the expected source status (compare-and-swap) and return
// ErrConflict when the document moved underneath the caller; Approve runs the
// multi-document settlement transaction.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
	Claim(ctx context.Context, id uuid.UUID, picker *models.Profile) (*models.Report, error)
	SubmitProof(ctx context.Context, id uuid.UUID, pickerID uuid.UUID, photoURL string, lat, lng float64) (*models.Report, error)
	Approve(ctx context.Context, id uuid.UUID, monitor *models.Profile, message string) (*models.Settlement, error)
	Reject(ctx context.Context, id uuid.UUID, monitor *models.Profile, message string) (*models.Report, error)
	Stats(ctx context.Context) (*models.NamespaceStats, error)
	GetReportFromCache(ctx context.Context, id uuid.UUID) (*models.Report, error)
	SetReportCache(ctx context.Context, report *models.Report) error
	InvalidateReportCache(ctx context.Context, id uuid.UUID) error
}

// AdvisoryClient supplies non-authoritative suggestions for new reports.
// Implementations degrade to static fallbacks internally; calls never fail
// and never block report creation beyond a bounded single attempt.
type AdvisoryClient interface {
	Classify(ctx context.Context, note string) (classification, priority string)
	EstimateReward(ctx context.Context, classification, priority string) int
}

// ReportService is the report lifecycle engine.
type ReportService interface {
	CreateReport(ctx context.Context, actorID uuid.UUID, photoURL, note string, lat, lng float64) (*models.Report, error)
	ClaimReport(ctx context.Context, actorID, reportID uuid.UUID) (*models.Report, error)
	SubmitProof(ctx context.Context, actorID, reportID uuid.UUID, photoURL string, lat, lng float64) (*models.Report, error)
	ApproveReport(ctx context.Context, actorID, reportID uuid.UUID, message string) (*models.Settlement, error)
	RejectReport(ctx context.Context, actorID, reportID uuid.UUID, message string) (*models.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error)
	Stats(ctx context.Context) (*models.NamespaceStats, error)
}

type reportService struct {
	reports   ReportRepository
	profiles  ProfileRepository
	advisory  AdvisoryClient
	publisher notify.Publisher
	logger    *logrus.Logger
}

func NewReportService(reports ReportRepository, profiles ProfileRepository, advisory AdvisoryClient, publisher notify.Publisher, logger *logrus.Logger) ReportService {
	return &reportService{
		reports:   reports,
		profiles:  profiles,
		advisory:  advisory,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateReport validates the reporter, stamps advisory classification and
// base reward, and stores the new report in status "reported".
func (s *reportService) CreateReport(ctx context.Context, actorID uuid.UUID, photoURL, note string, lat, lng float64) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "CreateReport",
		"user_id": actorID,
	})

	actor, err := s.profiles.Get(ctx, actorID)
	if err != nil {
		log.WithError(err).Warn("Reporter profile missing")
		return nil, err
	}
	if err := checkTransition(ActionCreate, actor, nil); err != nil {
		log.WithField("role", actor.Role).Warn("Create rejected by transition table")
		return nil, err
	}
	if photoURL == "" {
		return nil, ErrPhotoRequired
	}

	// Advisory calls are best effort; the client falls back internally.
	classification, priority := s.advisory.Classify(ctx, note)
	baseReward := s.advisory.EstimateReward(ctx, classification, priority)

	report := &models.Report{
		ReporterID:       actor.UserID,
		ReporterName:     actor.Name,
		PhotoURL:         photoURL,
		Note:             note,
		Latitude:         lat,
		Longitude:        lng,
		AIClassification: classification,
		Priority:         priority,
		BaseReward:       baseReward,
		Status:           models.StatusReported,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		log.WithError(err).Error("Failed to create report in repository")
		return nil, fmt.Errorf("service: could not create report: %w", err)
	}

	s.publishReport(ctx, notify.EventReportCreated, report)
	log.WithField("report_id", report.ID).Info("Report created")
	return report, nil
}

// ClaimReport assigns a claimable report to the acting picker.
func (s *reportService) ClaimReport(ctx context.Context, actorID, reportID uuid.UUID) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "ClaimReport",
		"user_id":   actorID,
		"report_id": reportID,
	})

	actor, report, err := s.loadActorAndReport(ctx, actorID, reportID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(ActionClaim, actor, report); err != nil {
		log.WithFields(logrus.Fields{"role": actor.Role, "status": report.Status}).Warn("Claim rejected by transition table")
		return nil, err
	}

	updated, err := s.reports.Claim(ctx, reportID, actor)
	if err != nil {
		log.WithError(err).Error("Failed to claim report")
		return nil, err
	}
	if err := s.reports.InvalidateReportCache(ctx, reportID); err != nil {
		log.WithError(err).Warn("Failed to invalidate report cache")
	}

	s.publishReport(ctx, notify.EventReportUpdated, updated)
	log.Info("Report claimed")
	return updated, nil
}

// SubmitProof records the cleanup photo and the picker's location, moving the
// report to pending review. Only the assigned picker may submit, and only once.
func (s *reportService) SubmitProof(ctx context.Context, actorID, reportID uuid.UUID, photoURL string, lat, lng float64) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "SubmitProof",
		"user_id":   actorID,
		"report_id": reportID,
	})

	actor, report, err := s.loadActorAndReport(ctx, actorID, reportID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(ActionSubmitProof, actor, report); err != nil {
		log.WithFields(logrus.Fields{"role": actor.Role, "status": report.Status}).Warn("Proof rejected by transition table")
		return nil, err
	}
	if report.PickerID == nil || *report.PickerID != actor.UserID {
		return nil, ErrNotAssignedPicker
	}
	if report.CleanupPhotoURL != nil {
		return nil, ErrProofExists
	}
	if photoURL == "" {
		return nil, ErrPhotoRequired
	}

	updated, err := s.reports.SubmitProof(ctx, reportID, actor.UserID, photoURL, lat, lng)
	if err != nil {
		log.WithError(err).Error("Failed to submit proof")
		return nil, err
	}
	if err := s.reports.InvalidateReportCache(ctx, reportID); err != nil {
		log.WithError(err).Warn("Failed to invalidate report cache")
	}

	s.publishReport(ctx, notify.EventReportUpdated, updated)
	log.Info("Cleanup proof submitted")
	return updated, nil
}

// ApproveReport completes a report under review and settles both rewards in a
// single atomic transaction: either the report, the reporter profile and the
// picker profile all move together, or none of them do.
func (s *reportService) ApproveReport(ctx context.Context, actorID, reportID uuid.UUID, message string) (*models.Settlement, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "ApproveReport",
		"user_id":   actorID,
		"report_id": reportID,
	})

	actor, report, err := s.loadActorAndReport(ctx, actorID, reportID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(ActionApprove, actor, report); err != nil {
		log.WithFields(logrus.Fields{"role": actor.Role, "status": report.Status}).Warn("Approval rejected by transition table")
		return nil, err
	}

	settlement, err := s.reports.Approve(ctx, reportID, actor, message)
	if err != nil {
		log.WithError(err).Error("Settlement transaction failed")
		return nil, err
	}
	if err := s.reports.InvalidateReportCache(ctx, reportID); err != nil {
		log.WithError(err).Warn("Failed to invalidate report cache")
	}

	s.publishReport(ctx, notify.EventReportUpdated, settlement.Report)
	s.publishProfile(ctx, settlement.ReporterProfile)
	s.publishProfile(ctx, settlement.PickerProfile)

	log.WithFields(logrus.Fields{
		"reporter_reward": settlement.ReporterReward,
		"picker_reward":   settlement.PickerReward,
	}).Info("Report approved and rewards settled")
	return settlement, nil
}

// RejectReport sends a report under review back to the claimable pool. The
// picker assignment and the proof photo are cleared atomically with the
// status change; no rewards are issued.
func (s *reportService) RejectReport(ctx context.Context, actorID, reportID uuid.UUID, message string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "RejectReport",
		"user_id":   actorID,
		"report_id": reportID,
	})

	actor, report, err := s.loadActorAndReport(ctx, actorID, reportID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(ActionReject, actor, report); err != nil {
		log.WithFields(logrus.Fields{"role": actor.Role, "status": report.Status}).Warn("Rejection rejected by transition table")
		return nil, err
	}

	updated, err := s.reports.Reject(ctx, reportID, actor, message)
	if err != nil {
		log.WithError(err).Error("Failed to reject report")
		return nil, err
	}
	if err := s.reports.InvalidateReportCache(ctx, reportID); err != nil {
		log.WithError(err).Warn("Failed to invalidate report cache")
	}

	s.publishReport(ctx, notify.EventReportUpdated, updated)
	log.Info("Report rejected, returned to claimable pool")
	return updated, nil
}

// GetReport returns a report, serving from the cache when possible.
func (s *reportService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "GetReport",
		"report_id": id,
	})

	cached, err := s.reports.GetReportFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Report cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get report")
		return nil, err
	}
	if err := s.reports.SetReportCache(ctx, report); err != nil {
		log.WithError(err).Warn("Failed to cache report")
	}
	return report, nil
}

// ListReports returns reports matching the filter, newest first.
func (s *reportService) ListReports(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "ListReports",
	})

	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list reports")
		return nil, fmt.Errorf("service: could not list reports: %w", err)
	}
	return reports, nil
}

// Stats aggregates namespace-wide report counts and issued points.
func (s *reportService) Stats(ctx context.Context) (*models.NamespaceStats, error) {
	stats, err := s.reports.Stats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to compute namespace stats")
		return nil, fmt.Errorf("service: could not compute stats: %w", err)
	}
	return stats, nil
}

// loadActorAndReport fetches the acting profile and the live report for a
// transition check. The report is read from the store, not the cache, so the
// guard always sees the latest committed status.
func (s *reportService) loadActorAndReport(ctx context.Context, actorID, reportID uuid.UUID) (*models.Profile, *models.Report, error) {
	actor, err := s.profiles.Get(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	return actor, report, nil
}

// publishReport pushes a report snapshot to subscribers. Delivery is best
// effort: the write already committed, so a publish failure is only logged.
func (s *reportService) publishReport(ctx context.Context, event notify.EventType, report *models.Report) {
	if err := s.publisher.ReportChanged(ctx, event, report); err != nil {
		s.logger.WithError(err).WithField("report_id", report.ID).Warn("Failed to publish report change")
	}
}

func (s *reportService) publishProfile(ctx context.Context, profile *models.Profile) {
	if err := s.publisher.ProfileChanged(ctx, profile); err != nil {
		s.logger.WithError(err).WithField("user_id", profile.UserID).Warn("Failed to publish profile change")
	}
}
