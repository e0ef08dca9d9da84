package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cleansweep-app/cleansweep-api/internal/config"
	"github.com/cleansweep-app/cleansweep-api/internal/identity"
	"github.com/cleansweep-app/cleansweep-api/internal/models"
	"github.com/cleansweep-app/cleansweep-api/internal/notify"
	"github.com/cleansweep-app/cleansweep-api/internal/service"
)

type Handler struct {
	reportService  service.ReportService
	profileService service.ProfileService
	sessions       identity.Service
	subscriber     notify.Subscriber
	logger         *logrus.Logger
	validate       *validator.Validate
	cfg            *config.Config
}

func NewHandler(reportService service.ReportService, profileService service.ProfileService, sessions identity.Service, subscriber notify.Subscriber, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		reportService:  reportService,
		profileService: profileService,
		sessions:       sessions,
		subscriber:     subscriber,
		logger:         logger,
		validate:       validator.New(),
		cfg:            cfg,
	}
}

// @Summary Sign in anonymously
// @Description Create an anonymous session with a stable user id.
// @Tags Auth
// @Produce json
// @Success 201 {object} SessionResponse
// @Failure 500 {object} notify.Notice
// @Router /auth/anonymous [post]
func (h *Handler) signInAnonymously(c *gin.Context) {
	log := h.logger.WithField("method", "signInAnonymously")

	session, err := h.sessions.SignInAnonymously(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to create anonymous session")
		c.JSON(http.StatusInternalServerError, notify.ErrorNotice("Sign-in failed", "Could not start a session. Please try again."))
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// @Summary Sign out
// @Description Revoke the current session token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 500 {object} notify.Notice
// @Router /auth/signout [post]
func (h *Handler) signOut(c *gin.Context) {
	log := h.logger.WithField("method", "signOut")

	if err := h.sessions.SignOut(c.Request.Context(), bearerToken(c)); err != nil {
		log.WithError(err).Error("Failed to sign out")
		c.JSON(http.StatusInternalServerError, notify.ErrorNotice("Sign-out failed", "Could not end the session. Please try again."))
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Get my profile
// @Description Get the caller's profile. 404 means the profile has not been set up yet.
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} notify.Notice "Profile setup required"
// @Failure 500 {object} notify.Notice
// @Router /me/profile [get]
func (h *Handler) getMyProfile(c *gin.Context) {
	userID := mustUserID(c)
	log := h.logger.WithField("method", "getMyProfile").WithField("user_id", userID)

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToProfileResponse(profile))
}

// @Summary Create my profile
// @Description Set up the caller's profile. Role is chosen once; repeat calls only refresh the name.
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body CreateProfileRequest true "Profile setup request"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} notify.Notice
// @Failure 500 {object} notify.Notice
// @Router /me/profile [put]
func (h *Handler) createMyProfile(c *gin.Context) {
	userID := mustUserID(c)
	log := h.logger.WithField("method", "createMyProfile").WithField("user_id", userID)

	var input CreateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The request body could not be read."))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", err.Error()))
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), userID, strings.TrimSpace(input.Name), models.Role(input.Role))
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToProfileResponse(profile))
}

// @Summary File a waste report
// @Description Create a new waste report with a photo and location. Reporter role required.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body CreateReportRequest true "New report"
// @Success 201 {object} ReportResponse
// @Failure 400 {object} notify.Notice
// @Failure 403 {object} notify.Notice
// @Failure 404 {object} notify.Notice "Profile setup required"
// @Failure 500 {object} notify.Notice
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	userID := mustUserID(c)
	log := h.logger.WithField("method", "createReport").WithField("user_id", userID)

	var input CreateReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The request body could not be read."))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", err.Error()))
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), userID, input.PhotoURL, input.Note, input.Latitude, input.Longitude)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToReportResponse(report))
}

// @Summary List reports
// @Description List reports, newest first. Filterable by status, ownership and claimability.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param status query string false "Comma-separated status filter"
// @Param mine query string false "Restrict to the caller's side: reported|claimed"
// @Param claimable query bool false "Only claimable reports"
// @Success 200 {array} ReportResponse
// @Failure 500 {object} notify.Notice
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	userID := mustUserID(c)
	log := h.logger.WithField("method", "listReports")

	filter := models.ReportFilter{}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, models.Status(strings.TrimSpace(s)))
		}
	}
	switch c.Query("mine") {
	case "reported":
		filter.ReporterID = &userID
	case "claimed":
		filter.PickerID = &userID
	}
	if c.Query("claimable") == "true" {
		filter.ClaimableOnly = true
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), filter)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Get a report
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} notify.Notice
// @Failure 404 {object} notify.Notice
// @Failure 500 {object} notify.Notice
// @Router /reports/{id} [get]
func (h *Handler) getReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The report id is not valid."))
		return
	}
	log := h.logger.WithField("method", "getReport").WithField("report_id", id)

	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Claim a report
// @Description Claim a claimable report for cleanup. Picker role required.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} notify.Notice
// @Failure 403 {object} notify.Notice
// @Failure 409 {object} notify.Notice
// @Failure 500 {object} notify.Notice
// @Router /reports/{id}/claim [post]
func (h *Handler) claimReport(c *gin.Context) {
	userID := mustUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The report id is not valid."))
		return
	}
	log := h.logger.WithField("method", "claimReport").WithField("report_id", id).WithField("user_id", userID)

	report, err := h.reportService.ClaimReport(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Submit cleanup proof
// @Description Submit the cleanup photo for a claimed report. Assigned picker only.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param proof body SubmitProofRequest true "Cleanup proof"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} notify.Notice
// @Failure 403 {object} notify.Notice
// @Failure 409 {object} notify.Notice
// @Failure 500 {object} notify.Notice
// @Router /reports/{id}/proof [post]
func (h *Handler) submitProof(c *gin.Context) {
	userID := mustUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The report id is not valid."))
		return
	}
	log := h.logger.WithField("method", "submitProof").WithField("report_id", id).WithField("user_id", userID)

	var input SubmitProofRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The request body could not be read."))
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", err.Error()))
		return
	}

	report, err := h.reportService.SubmitProof(c.Request.Context(), userID, id, input.PhotoURL, input.Latitude, input.Longitude)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Approve a report
// @Description Approve a report under review and settle both rewards atomically. Monitor role required.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param review body ReviewRequest false "Review message"
// @Success 200 {object} SettlementResponse
// @Failure 400 {object} notify.Notice
// @Failure 403 {object} notify.Notice
// @Failure 409 {object} notify.Notice
// @Failure 500 {object} notify.Notice
// @Router /reports/{id}/approve [post]
func (h *Handler) approveReport(c *gin.Context) {
	userID := mustUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The report id is not valid."))
		return
	}
	log := h.logger.WithField("method", "approveReport").WithField("report_id", id).WithField("user_id", userID)

	input, ok := h.bindReview(c, log)
	if !ok {
		return
	}

	settlement, err := h.reportService.ApproveReport(c.Request.Context(), userID, id, input.Message)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToSettlementResponse(settlement))
}

// @Summary Reject a report
// @Description Reject a report under review, returning it to the claimable pool. Monitor role required.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param review body ReviewRequest false "Review message"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} notify.Notice
// @Failure 403 {object} notify.Notice
// @Failure 409 {object} notify.Notice
// @Failure 500 {object} notify.Notice
// @Router /reports/{id}/reject [post]
func (h *Handler) rejectReport(c *gin.Context) {
	userID := mustUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The report id is not valid."))
		return
	}
	log := h.logger.WithField("method", "rejectReport").WithField("report_id", id).WithField("user_id", userID)

	input, ok := h.bindReview(c, log)
	if !ok {
		return
	}

	report, err := h.reportService.RejectReport(c.Request.Context(), userID, id, input.Message)
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// bindReview reads the optional review body; an empty body is a valid empty
// message.
func (h *Handler) bindReview(c *gin.Context, log *logrus.Entry) (ReviewRequest, bool) {
	var input ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			log.WithError(err).Warn("Failed to bind JSON")
			c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", "The request body could not be read."))
			return input, false
		}
		if err := h.validate.Struct(input); err != nil {
			log.WithError(err).Warn("Validation failed")
			c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", err.Error()))
			return input, false
		}
	}
	return input, true
}

// @Summary Namespace statistics
// @Description Report counts per status and points issued across the namespace.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.NamespaceStats
// @Failure 500 {object} notify.Notice
// @Router /reports/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.reportService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Get application health status
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
