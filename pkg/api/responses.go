package api

import (
	"time"

	"github.com/jakechorley/shiftsignup/pkg/core/model"
	"github.com/jakechorley/shiftsignup/pkg/core/services"
	"github.com/jakechorley/shiftsignup/pkg/db"
)

type timeslotResponse struct {
	ID             string    `json:"id"`
	EventID        string    `json:"eventId"`
	ShiftNumber    int       `json:"shiftNumber"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	Capacity       int       `json:"capacity"`
	TeamLeadUserID *string   `json:"teamLeadUserId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type signupResponse struct {
	ID                 string     `json:"id"`
	TimeslotID         string     `json:"timeslotId"`
	EventID            string     `json:"eventId"`
	UserID             string     `json:"userId"`
	UserEmail          string     `json:"userEmail"`
	UserFirstName      string     `json:"userFirstName"`
	UserLastName       string     `json:"userLastName"`
	UserPhone          string     `json:"userPhone"`
	Status             string     `json:"status"`
	AttendanceStatus   *string    `json:"attendanceStatus"`
	AttendanceMarkedAt *time.Time `json:"attendanceMarkedAt"`
	AttendanceMarkedBy *string    `json:"attendanceMarkedBy"`
	SignupDate         time.Time  `json:"signupDate"`
}

type timeslotViewResponse struct {
	timeslotResponse
	Current      int              `json:"current"`
	Available    int              `json:"available"`
	IsFull       bool             `json:"isFull"`
	IsAlmostFull bool             `json:"isAlmostFull"`
	Signups      []signupResponse `json:"signups"`
}

type userShiftResponse struct {
	Signup   signupResponse    `json:"signup"`
	Timeslot *timeslotResponse `json:"timeslot"`
}

type deleteResponse struct {
	RemovedSignups int                `json:"removedSignups"`
	Remaining      []timeslotResponse `json:"remaining"`
}

func toTimeslot(ts db.Timeslot) timeslotResponse {
	return timeslotResponse{
		ID:             ts.ID,
		EventID:        ts.EventID,
		ShiftNumber:    ts.ShiftNumber,
		StartTime:      ts.StartTime,
		EndTime:        ts.EndTime,
		Capacity:       ts.Capacity,
		TeamLeadUserID: ts.TeamLeadUserID,
		CreatedAt:      ts.CreatedAt,
		UpdatedAt:      ts.UpdatedAt,
	}
}

func toTimeslots(timeslots []db.Timeslot) []timeslotResponse {
	out := make([]timeslotResponse, 0, len(timeslots))
	for _, ts := range timeslots {
		out = append(out, toTimeslot(ts))
	}
	return out
}

func toSignup(s db.Signup) signupResponse {
	return signupResponse{
		ID:                 s.ID,
		TimeslotID:         s.TimeslotID,
		EventID:            s.EventID,
		UserID:             s.UserID,
		UserEmail:          s.UserEmail,
		UserFirstName:      s.UserFirstName,
		UserLastName:       s.UserLastName,
		UserPhone:          s.UserPhone,
		Status:             s.Status,
		AttendanceStatus:   s.AttendanceStatus,
		AttendanceMarkedAt: s.AttendanceMarkedAt,
		AttendanceMarkedBy: s.AttendanceMarkedBy,
		SignupDate:         s.SignupDate,
	}
}

func toViews(views []model.TimeslotView) []timeslotViewResponse {
	out := make([]timeslotViewResponse, 0, len(views))
	for _, v := range views {
		signups := make([]signupResponse, 0, len(v.Signups))
		for _, s := range v.Signups {
			signups = append(signups, toSignup(s))
		}
		out = append(out, timeslotViewResponse{
			timeslotResponse: toTimeslot(v.Timeslot),
			Current:          v.Current,
			Available:        v.Available,
			IsFull:           v.IsFull,
			IsAlmostFull:     v.IsAlmostFull,
			Signups:          signups,
		})
	}
	return out
}

func toUserShifts(shifts []services.UserShift) []userShiftResponse {
	out := make([]userShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		resp := userShiftResponse{Signup: toSignup(shift.Signup)}
		if shift.Timeslot != nil {
			ts := toTimeslot(*shift.Timeslot)
			resp.Timeslot = &ts
		}
		out = append(out, resp)
	}
	return out
}
