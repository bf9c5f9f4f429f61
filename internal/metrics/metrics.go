package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presensi_sessions_generated_total",
		Help: "Attendance sessions generated.",
	})

	CheckinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presensi_checkins_total",
		Help: "Attendance check-in attempts by outcome.",
	}, []string{"outcome"})

	ScheduleConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presensi_schedule_conflicts_total",
		Help: "Rejected schedule submissions by conflict type.",
	}, []string{"type"})
)
