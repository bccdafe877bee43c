package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/apperror"
	"classtrack/internal/auth"
	"classtrack/internal/users"
)

func (s *Server) handleListUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []users.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (s *Server) handleChangeRole(c *gin.Context) {
	claims := auth.FromContext(c)
	var req struct {
		UserID string `json:"userId" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Invalid("Invalid payload"))
		return
	}
	user, err := s.users.ChangeRole(c.Request.Context(), claims.UserID, req.UserID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": user})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	claims := auth.FromContext(c)
	if err := s.users.Remove(c.Request.Context(), claims.UserID, c.Query("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// handleAnalytics assembles the dashboard summary: headline counts plus
// attendance totals grouped by subject.
func (s *Server) handleAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	totalStudents, err := s.users.CountStudents(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	totalSlots, err := s.slots.Count(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	bySubject, err := s.recorder.BySubject(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	labels := make([]string, 0, len(bySubject))
	data := make([]int, 0, len(bySubject))
	for _, sc := range bySubject {
		labels = append(labels, sc.Subject)
		data = append(data, sc.Count)
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{"totalStudents": totalStudents, "totalSlots": totalSlots},
		"charts": gin.H{
			"attendanceBySubject": gin.H{"labels": labels, "data": data},
		},
	})
}
