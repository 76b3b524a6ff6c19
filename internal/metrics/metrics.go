package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Signups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "shifts_signups_total", Help: "Signup attempts by outcome"},
		[]string{"outcome"},
	)
	Cancellations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "shifts_cancellations_total", Help: "Total cancelled signups"},
	)
	AttendanceMarks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "shifts_attendance_marks_total", Help: "Attendance marks by status"},
		[]string{"status"},
	)
	LiveSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "shifts_live_subscriptions", Help: "Open live view subscriptions"},
	)
)

// Signup outcomes
const (
	OutcomeConfirmed     = "confirmed"
	OutcomeAlreadySigned = "already_signed_up"
	OutcomeFull          = "full"
	OutcomeError         = "error"
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(Signups, Cancellations, AttendanceMarks, LiveSubscriptions)
	})
}
