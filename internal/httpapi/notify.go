package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/timetable"
)

// handleNotifications returns the caller's classes starting within their
// configured lead time today, for the in-app reminder banner.
func (s *Server) handleNotifications(c *gin.Context) {
	claims := auth.FromContext(c)

	user, err := s.users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	lead := user.NotificationLeadTime
	if lead <= 0 {
		lead = 30
	}

	upcoming, err := s.slots.UpcomingToday(c.Request.Context(), claims.UserID, s.now(), lead)
	if err != nil {
		respondError(c, err)
		return
	}
	if upcoming == nil {
		upcoming = []timetable.Slot{}
	}
	c.JSON(http.StatusOK, gin.H{"upcoming": upcoming})
}
