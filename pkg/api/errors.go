package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
)

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	var batchErr *model.BatchError
	switch {
	case errors.As(err, &batchErr):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadySignedUp),
		errors.Is(err, model.ErrSlotFull),
		errors.Is(err, model.ErrSignupCancelled),
		errors.Is(err, model.ErrCapacityBelowSignups),
		errors.Is(err, model.ErrTeamLeadNotSignedUp):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidRange),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidTimeslot):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var batchErr *model.BatchError
	if errors.As(err, &batchErr) {
		body["completed"] = batchErr.Completed
		body["total"] = batchErr.Total
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.JSON(status, body)
}
