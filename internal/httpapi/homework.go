package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/apperror"
	"classtrack/internal/auth"
	"classtrack/internal/homework"
)

func (s *Server) handleCreateHomework(c *gin.Context) {
	claims := auth.FromContext(c)
	var in homework.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Invalid("Missing required fields"))
		return
	}
	hw, err := s.homework.Create(c.Request.Context(), claims.Role, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Homework created", "homework": hw})
}

func (s *Server) handleSlotHomework(c *gin.Context) {
	list, err := s.homework.ForSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []homework.Homework{}
	}
	c.JSON(http.StatusOK, gin.H{"homeworks": list})
}
