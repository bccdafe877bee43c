package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	marksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_attendance_marks_total",
		Help: "Attendance mark attempts by outcome.",
	}, []string{"outcome"})

	parseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_timetable_parse_total",
		Help: "Timetable parse attempts by outcome.",
	}, []string{"outcome"})
)
