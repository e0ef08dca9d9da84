package v1

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/cleansweep-app/cleansweep-api/internal/models"
	"github.com/cleansweep-app/cleansweep-api/internal/service"
)

// setStreamHeaders prepares the response for server-sent events.
func setStreamHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
}

// @Summary Stream report changes
// @Description Server-sent events: an initial snapshot of all reports, then every committed change. The stream ends when the client disconnects.
// @Tags Reports
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 "event stream"
// @Failure 500 {object} notify.Notice
// @Router /reports/stream [get]
func (h *Handler) streamReports(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.logger.WithField("method", "streamReports")

	// Subscribe before reading the snapshot so no committed write between the
	// two can be missed; consumers re-render from the latest snapshot anyway.
	events, cancel := h.subscriber.SubscribeReports(ctx)
	defer cancel()

	reports, err := h.reportService.ListReports(ctx, models.ReportFilter{})
	if err != nil {
		respondError(c, log, err)
		return
	}

	setStreamHeaders(c)
	c.SSEvent("snapshot", ModelsToReportResponses(reports))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), ModelToReportResponse(event.Report))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// @Summary Stream my profile changes
// @Description Server-sent events: the current profile (or an "absent" event for first-time users), then every committed change.
// @Tags Profiles
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 "event stream"
// @Failure 500 {object} notify.Notice
// @Router /me/profile/stream [get]
func (h *Handler) streamMyProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := mustUserID(c)
	log := h.logger.WithField("method", "streamMyProfile").WithField("user_id", userID)

	events, cancel := h.subscriber.SubscribeProfile(ctx, userID.String())
	defer cancel()

	profile, err := h.profileService.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, service.ErrProfileNotFound) {
		respondError(c, log, err)
		return
	}

	setStreamHeaders(c)
	if profile != nil {
		c.SSEvent("snapshot", ModelToProfileResponse(profile))
	} else {
		// Distinguishes "no profile yet" from a read failure; the client
		// routes this to the setup flow.
		c.SSEvent("absent", gin.H{"exists": false})
	}
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), ModelToProfileResponse(event.Profile))
			return true
		case <-ctx.Done():
			return false
		}
	})
}
