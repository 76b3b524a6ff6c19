package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jakechorley/shiftsignup/pkg/core/services"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

type generateInput struct {
	StartTime       string `json:"startTime" binding:"required"`
	EndTime         string `json:"endTime" binding:"required"`
	DurationMinutes int    `json:"durationMinutes" binding:"omitempty,min=1"`
	Capacity        int    `json:"capacity" binding:"omitempty,min=1"`
}

type createTimeslotInput struct {
	ShiftNumber int    `json:"shiftNumber" binding:"omitempty,min=1"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	Capacity    int    `json:"capacity" binding:"omitempty,min=1"`
}

type updateTimeslotInput struct {
	ShiftNumber *int    `json:"shiftNumber" binding:"omitempty,min=1"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
}

type teamLeadInput struct {
	UserID string `json:"userId" binding:"required"`
}

// ListTimeslots returns the event's shifts with their signups and availability
func (s *Server) ListTimeslots(c *gin.Context) {
	views, err := services.ListEventTimeslots(c.Request.Context(), s.store, c.Param("eventID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViews(views))
}

// GenerateTimeslots splits a window of the event into consecutive shifts
func (s *Server) GenerateTimeslots(c *gin.Context) {
	var input generateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.GenerateTimeslots(c.Request.Context(), s.store, s.logger, services.GenerateRequest{
		EventID:         c.Param("eventID"),
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		DurationMinutes: s.durationOrDefault(input.DurationMinutes),
		Capacity:        s.capacityOrDefault(input.Capacity),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTimeslots(result.Timeslots))
}

// CreateTimeslot adds a single shift to the event
func (s *Server) CreateTimeslot(c *gin.Context) {
	var input createTimeslotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts, err := services.CreateTimeslot(c.Request.Context(), s.store, s.logger, services.CreateTimeslotRequest{
		EventID:     c.Param("eventID"),
		ShiftNumber: input.ShiftNumber,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Capacity:    s.capacityOrDefault(input.Capacity),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTimeslot(*ts))
}

// UpdateTimeslot applies a partial edit to a shift
func (s *Server) UpdateTimeslot(c *gin.Context) {
	var input updateTimeslotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts, err := services.UpdateTimeslot(c.Request.Context(), s.store, s.logger, c.Param("id"), db.TimeslotPatch{
		ShiftNumber: input.ShiftNumber,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Capacity:    input.Capacity,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTimeslot(*ts))
}

// DeleteTimeslot removes a shift and its signups
func (s *Server) DeleteTimeslot(c *gin.Context) {
	result, err := services.DeleteTimeslot(c.Request.Context(), s.store, s.logger, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleteResponse{
		RemovedSignups: result.RemovedSignups,
		Remaining:      toTimeslots(result.Remaining),
	})
}

// AssignTeamLead makes a signed-up volunteer the shift's team lead
func (s *Server) AssignTeamLead(c *gin.Context) {
	var input teamLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ts, err := services.AssignTeamLead(c.Request.Context(), s.store, s.logger, c.Param("id"), input.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTimeslot(*ts))
}

// RemoveTeamLead clears the shift's team lead
func (s *Server) RemoveTeamLead(c *gin.Context) {
	ts, err := services.RemoveTeamLead(c.Request.Context(), s.store, s.logger, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTimeslot(*ts))
}

func (s *Server) durationOrDefault(minutes int) int {
	if minutes == 0 {
		return s.cfg.Generator.DefaultDurationMinutes
	}
	return minutes
}

func (s *Server) capacityOrDefault(capacity int) int {
	if capacity == 0 {
		return s.cfg.Generator.DefaultCapacity
	}
	return capacity
}
