package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
	"github.com/cleansweep-app/cleansweep-api/internal/service"
)

// reportColumns is the canonical column order shared by every report scan.
const reportColumns = `
	id, reporter_id, reporter_name, photo_url, note, latitude, longitude,
	ai_classification, priority, base_reward, status,
	picker_id, picker_name, cleanup_photo_url, picker_latitude, picker_longitude,
	reporter_reward_issued, picker_reward_issued,
	monitor_id, monitor_name, monitor_message,
	reported_at, updated_at`

type ReportRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	namespace   string
}

func NewReportRepository(db *pgxpool.Pool, redisClient *redis.Client, namespace string) service.ReportRepository {
	return &ReportRepository{
		db:          db,
		redisClient: redisClient,
		namespace:   namespace,
	}
}

func scanReport(row pgx.Row) (*models.Report, error) {
	report := &models.Report{}
	err := row.Scan(
		&report.ID,
		&report.ReporterID,
		&report.ReporterName,
		&report.PhotoURL,
		&report.Note,
		&report.Latitude,
		&report.Longitude,
		&report.AIClassification,
		&report.Priority,
		&report.BaseReward,
		&report.Status,
		&report.PickerID,
		&report.PickerName,
		&report.CleanupPhotoURL,
		&report.PickerLatitude,
		&report.PickerLongitude,
		&report.ReporterRewardIssued,
		&report.PickerRewardIssued,
		&report.MonitorID,
		&report.MonitorName,
		&report.MonitorMessage,
		&report.ReportedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Create inserts a new report in status "reported".
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (namespace, reporter_id, reporter_name, photo_url, note,
			latitude, longitude, ai_classification, priority, base_reward, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, reported_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		r.namespace,
		report.ReporterID,
		report.ReporterName,
		report.PhotoURL,
		report.Note,
		report.Latitude,
		report.Longitude,
		report.AIClassification,
		report.Priority,
		report.BaseReward,
		report.Status,
	).Scan(&report.ID, &report.ReportedAt, &report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID returns a report by its id.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE namespace = $1 AND id = $2;`
	report, err := scanReport(r.db.QueryRow(ctx, query, r.namespace, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report by id: %w", err)
	}
	return report, nil
}

// List returns reports matching the filter, newest first. Reports that
// somehow lack a timestamp sort as epoch zero, i.e. last.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]*models.Report, error) {
	var (
		conds = []string{"namespace = $1"}
		args  = []any{r.namespace}
	)

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			args = append(args, s)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.ClaimableOnly {
		claimable := models.ClaimableStatuses()
		placeholders := make([]string, len(claimable))
		for i, s := range claimable {
			args = append(args, s)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		conds = append(conds, fmt.Sprintf("reporter_id = $%d", len(args)))
	}
	if filter.PickerID != nil {
		args = append(args, *filter.PickerID)
		conds = append(conds, fmt.Sprintf("picker_id = $%d", len(args)))
	}

	query := `SELECT ` + reportColumns + `
		FROM reports
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY COALESCE(reported_at, 'epoch') DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during report list iteration: %w", err)
	}
	return reports, nil
}

// Claim assigns a claimable report to the picker. The status check is part of
// the UPDATE, so a concurrent claim of the same report loses cleanly with
// service.ErrConflict instead of overwriting.
func (r *ReportRepository) Claim(ctx context.Context, id uuid.UUID, picker *models.Profile) (*models.Report, error) {
	args := []any{
		models.StatusClaimed,
		picker.UserID,
		picker.Name,
		r.namespace,
		id,
	}
	claimable := models.ClaimableStatuses()
	placeholders := make([]string, len(claimable))
	for i, s := range claimable {
		args = append(args, s)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}

	query := `
		UPDATE reports SET
			status = $1,
			picker_id = $2,
			picker_name = $3,
			updated_at = NOW()
		WHERE namespace = $4 AND id = $5 AND status IN (` + strings.Join(placeholders, ", ") + `)
		RETURNING ` + reportColumns + `;`
	report, err := scanReport(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrConflict
		}
		return nil, fmt.Errorf("failed to claim report: %w", err)
	}
	return report, nil
}

// SubmitProof records the cleanup photo and picker location and moves the
// report to pending review. Guarded on the assigned picker and on the proof
// photo still being absent.
func (r *ReportRepository) SubmitProof(ctx context.Context, id uuid.UUID, pickerID uuid.UUID, photoURL string, lat, lng float64) (*models.Report, error) {
	query := `
		UPDATE reports SET
			status = $1,
			cleanup_photo_url = $2,
			picker_latitude = $3,
			picker_longitude = $4,
			updated_at = NOW()
		WHERE namespace = $5 AND id = $6 AND status = $7 AND picker_id = $8 AND cleanup_photo_url IS NULL
		RETURNING ` + reportColumns + `;`
	report, err := scanReport(r.db.QueryRow(ctx, query,
		models.StatusPendingReview,
		photoURL,
		lat,
		lng,
		r.namespace,
		id,
		models.StatusClaimed,
		pickerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrConflict
		}
		return nil, fmt.Errorf("failed to submit proof: %w", err)
	}
	return report, nil
}

// Approve performs the reward settlement as a single transaction: the report
// moves to completed with both reward flags set, the reporter profile gains
// the base reward and the picker profile gains three times that. The profile
// counters are read and incremented inside the transaction under row locks,
// so concurrent settlements touching the same profile cannot lose updates.
// On any error the transaction rolls back with no partial effect.
func (r *ReportRepository) Approve(ctx context.Context, id uuid.UUID, monitor *models.Profile, message string) (*models.Settlement, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the report first; the status condition makes a double approval a
	// clean conflict.
	var (
		reporterID uuid.UUID
		pickerID   *uuid.UUID
		baseReward int
	)
	err = tx.QueryRow(ctx, `
		SELECT reporter_id, picker_id, base_reward
		FROM reports
		WHERE namespace = $1 AND id = $2 AND status = $3
		FOR UPDATE;`,
		r.namespace, id, models.StatusPendingReview,
	).Scan(&reporterID, &pickerID, &baseReward)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrConflict
		}
		return nil, fmt.Errorf("failed to lock report for settlement: %w", err)
	}
	if pickerID == nil {
		return nil, fmt.Errorf("report %s is pending review without an assigned picker", id)
	}

	reporterReward := baseReward
	if reporterReward <= 0 {
		reporterReward = service.DefaultBaseReward
	}
	pickerReward := reporterReward * service.PickerRewardMultiplier

	// Lock both profiles in a deterministic order so two settlements touching
	// the same pair of users cannot deadlock.
	lockOrder := []uuid.UUID{reporterID, *pickerID}
	sort.Slice(lockOrder, func(i, j int) bool {
		return lockOrder[i].String() < lockOrder[j].String()
	})
	for _, userID := range lockOrder {
		if _, err := tx.Exec(ctx, `
			SELECT 1 FROM profiles WHERE namespace = $1 AND user_id = $2 FOR UPDATE;`,
			r.namespace, userID,
		); err != nil {
			return nil, fmt.Errorf("failed to lock profile %s for settlement: %w", userID, err)
		}
	}

	report, err := scanReport(tx.QueryRow(ctx, `
		UPDATE reports SET
			status = $1,
			reporter_reward_issued = TRUE,
			picker_reward_issued = TRUE,
			monitor_id = $2,
			monitor_name = $3,
			monitor_message = $4,
			updated_at = NOW()
		WHERE namespace = $5 AND id = $6
		RETURNING `+reportColumns+`;`,
		models.StatusCompleted,
		monitor.UserID,
		monitor.Name,
		message,
		r.namespace,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to complete report: %w", err)
	}

	reporterProfile, err := r.addPointsTx(ctx, tx, reporterID, "total_reporter_points", reporterReward)
	if err != nil {
		return nil, err
	}
	pickerProfile, err := r.addPointsTx(ctx, tx, *pickerID, "total_picker_points", pickerReward)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return &models.Settlement{
		Report:          report,
		ReporterProfile: reporterProfile,
		PickerProfile:   pickerProfile,
		ReporterReward:  reporterReward,
		PickerReward:    pickerReward,
	}, nil
}

// addPointsTx increments one point counter of a profile within the settlement
// transaction. The increment reads the current committed value, never a
// cached one.
func (r *ReportRepository) addPointsTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, column string, delta int) (*models.Profile, error) {
	// column is one of two constants chosen by the caller, never user input.
	query := fmt.Sprintf(`
		UPDATE profiles SET
			%s = %s + $1,
			updated_at = NOW()
		WHERE namespace = $2 AND user_id = $3
		RETURNING user_id, name, role, total_reporter_points, total_picker_points, created_at, updated_at;`,
		column, column)

	profile := &models.Profile{}
	err := tx.QueryRow(ctx, query, delta, r.namespace, userID).Scan(
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
			return nil, fmt.Errorf("settlement profile %s missing: %w", userID, service.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("failed to add points to profile %s: %w", userID, err)
	}
	return profile, nil
}

// Reject sends a report back to the claimable pool. Status change, picker
// unassignment, proof photo reset and the monitor verdict land in one atomic
// single-row update.
func (r *ReportRepository) Reject(ctx context.Context, id uuid.UUID, monitor *models.Profile, message string) (*models.Report, error) {
	query := `
		UPDATE reports SET
			status = $1,
			picker_id = NULL,
			picker_name = NULL,
			cleanup_photo_url = NULL,
			picker_latitude = NULL,
			picker_longitude = NULL,
			monitor_id = $2,
			monitor_name = $3,
			monitor_message = $4,
			updated_at = NOW()
		WHERE namespace = $5 AND id = $6 AND status = $7
		RETURNING ` + reportColumns + `;`
	report, err := scanReport(r.db.QueryRow(ctx, query,
		models.StatusRejected,
		monitor.UserID,
		monitor.Name,
		message,
		r.namespace,
		id,
		models.StatusPendingReview,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrConflict
		}
		return nil, fmt.Errorf("failed to reject report: %w", err)
	}
	return report, nil
}

// Stats aggregates report counts per status and the points issued so far.
func (r *ReportRepository) Stats(ctx context.Context) (*models.NamespaceStats, error) {
	stats := &models.NamespaceStats{}
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'reported'),
			COUNT(*) FILTER (WHERE status = 'claimed'),
			COUNT(*) FILTER (WHERE status = 'pending_review'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM reports
		WHERE namespace = $1;`,
		r.namespace,
	).Scan(
		&stats.Reports.Reported,
		&stats.Reports.Claimed,
		&stats.Reports.PendingReview,
		&stats.Reports.Completed,
		&stats.Reports.Rejected,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_reporter_points), 0), COALESCE(SUM(total_picker_points), 0)
		FROM profiles
		WHERE namespace = $1;`,
		r.namespace,
	).Scan(&stats.ReporterPointsTotal, &stats.PickerPointsTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to sum profile points: %w", err)
	}
	return stats, nil
}

func (r *ReportRepository) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:report:%s", r.namespace, id.String())
}

// GetReportFromCache tries to fetch a report from Redis. A miss returns
// (nil, nil).
func (r *ReportRepository) GetReportFromCache(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	val, err := r.redisClient.Get(ctx, r.cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report from cache: %w", err)
	}

	report := &models.Report{}
	if err := json.Unmarshal(val, report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	return report, nil
}

// SetReportCache stores a report in Redis with a short TTL.
func (r *ReportRepository) SetReportCache(ctx context.Context, report *models.Report) error {
	val, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, r.cacheKey(report.ID), val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set report in cache: %w", err)
	}
	return nil
}

// InvalidateReportCache drops a report from the Redis cache.
func (r *ReportRepository) InvalidateReportCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, r.cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report cache: %w", err)
	}
	return nil
}
