package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftsignup/pkg/core/services"
)

type signupInput struct {
	EventID string `json:"eventId"`
}

type attendanceInput struct {
	Status string `json:"status" binding:"required"`
}

// Signup claims a place on the shift for the caller
func (s *Server) Signup(c *gin.Context) {
	var input signupInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	signup, err := services.SignupForTimeslot(c.Request.Context(), s.store, s.logger, services.SignupRequest{
		TimeslotID: c.Param("id"),
		EventID:    input.EventID,
		User:       claimsFrom(c).User(),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSignup(*signup))
}

// CancelSignup frees the caller's place. Admins may cancel anyone's signup.
func (s *Server) CancelSignup(c *gin.Context) {
	ctx := c.Request.Context()
	claims := claimsFrom(c)

	existing, err := s.store.GetSignup(ctx, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if existing.UserID != claims.Subject && !claims.IsAdmin() {
		s.logger.Warn("Refused cancel of another user's signup",
			zap.String("signup_id", existing.ID),
			zap.String("caller", claims.Subject))
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the signed up user or an admin may cancel"})
		return
	}

	signup, err := services.CancelSignup(ctx, s.store, s.logger, existing.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSignup(*signup))
}

// MarkAttendance records whether the volunteer turned up
func (s *Server) MarkAttendance(c *gin.Context) {
	var input attendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signup, err := services.MarkAttendance(c.Request.Context(), s.store, s.logger, c.Param("id"), input.Status, claimsFrom(c).Subject)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSignup(*signup))
}

// MySignups lists the caller's shifts. ?includeCancelled=true adds cancelled signups.
func (s *Server) MySignups(c *gin.Context) {
	includeCancelled, _ := strconv.ParseBool(c.Query("includeCancelled"))

	shifts, err := services.ListUserSignups(c.Request.Context(), s.store, claimsFrom(c).Subject, includeCancelled)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserShifts(shifts))
}
