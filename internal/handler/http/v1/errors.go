package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cleansweep-app/cleansweep-api/internal/notify"
	"github.com/cleansweep-app/cleansweep-api/internal/service"
)

// respondError translates an engine failure into exactly one user-visible
// notice. The notice message is the human-readable cause; internals stay in
// the logs.
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, notify.ErrorNotice("Profile setup required", "Finish setting up your profile before continuing."))
	case errors.Is(err, service.ErrReportNotFound):
		c.JSON(http.StatusNotFound, notify.ErrorNotice("Report not found", "The report does not exist."))
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrPhotoRequired):
		c.JSON(http.StatusBadRequest, notify.ErrorNotice("Invalid request", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, notify.ErrorNotice("Not allowed", err.Error()))
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrNotAssignedPicker),
		errors.Is(err, service.ErrProofExists),
		errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, notify.ErrorNotice("Action not possible", err.Error()))
	default:
		log.WithError(err).Error("Unhandled service error")
		c.JSON(http.StatusInternalServerError, notify.ErrorNotice("Something went wrong", "The operation failed and no changes were made. Please try again."))
	}
}
