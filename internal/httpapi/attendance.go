package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/apperror"
	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/queue"
)

func (s *Server) handleMarkAttendance(c *gin.Context) {
	claims := auth.FromContext(c)

	var req struct {
		TimetableID string `json:"timetableId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		marksTotal.WithLabelValues("invalid").Inc()
		respondError(c, apperror.Invalid("Missing timetableId"))
		return
	}

	res, err := s.recorder.Mark(c.Request.Context(), claims.UserID, req.TimetableID, s.today())
	if err != nil {
		marksTotal.WithLabelValues("rejected").Inc()
		respondError(c, err)
		return
	}
	marksTotal.WithLabelValues("ok").Inc()

	if s.queue != nil {
		msg, err := queue.NewMessage(queue.TypeAttendanceMarked, queue.AttendanceMarked{
			UserID:        res.Attendance.StudentID,
			SlotID:        res.Attendance.SlotID,
			Day:           res.Attendance.Day,
			Points:        res.Stats.Points,
			CurrentStreak: res.Stats.CurrentStreak,
		})
		if err == nil {
			if err := s.queue.Publish(c.Request.Context(), msg); err != nil {
				log.Printf("queue publish failed: %v", err)
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attendance marked successfully",
		"attendance": res.Attendance,
		"stats":      res.Stats,
	})
}

func (s *Server) handleAttendanceHistory(c *gin.Context) {
	claims := auth.FromContext(c)
	records, err := s.recorder.History(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"attendance": records})
}

func (s *Server) handleGamification(c *gin.Context) {
	claims := auth.FromContext(c)
	stats, err := s.recorder.StatsFor(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
