package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/apperror"
	"classtrack/internal/auth"
)

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Invalid("Missing required fields"))
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Invalid("Missing email or password"))
		return
	}

	user, err := s.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, exp, err := auth.Issue(user.ID, user.Role, s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.AccessTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_at":   exp.Unix(),
		"user":         user,
	})
}

func (s *Server) handleGetSettings(c *gin.Context) {
	claims := auth.FromContext(c)
	user, err := s.users.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":                 user.Name,
		"email":                user.Email,
		"role":                 user.Role,
		"notificationLeadTime": user.NotificationLeadTime,
	})
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	claims := auth.FromContext(c)
	var req struct {
		NotificationLeadTime int `json:"notificationLeadTime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Invalid("Invalid payload"))
		return
	}
	if err := s.users.SetLeadTime(c.Request.Context(), claims.UserID, req.NotificationLeadTime); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}
