// Package httpapi is the thin HTTP surface over the domain services.
package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classtrack/internal/apperror"
	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/clock"
	"classtrack/internal/config"
	"classtrack/internal/homework"
	"classtrack/internal/httpmiddleware"
	"classtrack/internal/queue"
	"classtrack/internal/store"
	"classtrack/internal/timetable"
	"classtrack/internal/users"
)

// Extractor converts an uploaded document into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, filename, mimeType string) (string, error)
}

// Structurer converts plain text into slot candidates.
type Structurer interface {
	Structure(ctx context.Context, rawText string) ([]timetable.Candidate, error)
}

// Server wires handlers to the domain services.
type Server struct {
	cfg        config.App
	loc        *time.Location
	clk        clock.Clock
	users      *users.Service
	slots      *timetable.Service
	recorder   *attendance.Service
	homework   *homework.Service
	extractor  Extractor
	structurer Structurer
	queue      queue.Queue
	db         *store.DB
	redis      *store.Redis
}

// New creates a server.
func New(
	cfg config.App,
	clk clock.Clock,
	usersSvc *users.Service,
	slotsSvc *timetable.Service,
	recorder *attendance.Service,
	homeworkSvc *homework.Service,
	extractor Extractor,
	structurer Structurer,
	q queue.Queue,
	db *store.DB,
	redis *store.Redis,
) *Server {
	return &Server{
		cfg:        cfg,
		loc:        cfg.Location(),
		clk:        clk,
		users:      usersSvc,
		slots:      slotsSvc,
		recorder:   recorder,
		homework:   homeworkSvc,
		extractor:  extractor,
		structurer: structurer,
		queue:      q,
		db:         db,
		redis:      redis,
	}
}

// Routes builds the gin engine with all middleware and endpoints.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.Metrics())
	r.Use(httpmiddleware.NewSimpleTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.handleHealth)

	r.POST("/auth/register", s.handleRegister)
	r.POST("/auth/login", s.handleLogin)

	v1 := r.Group("/v1", auth.UserAuth(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))

	v1.POST("/attendance/mark", s.handleMarkAttendance)
	v1.GET("/attendance", s.handleAttendanceHistory)
	v1.GET("/gamification", s.handleGamification)

	v1.POST("/timetables", s.handleCreateSlot)
	v1.GET("/timetables", s.handleListSlots)
	v1.GET("/timetables/:id", s.handleGetSlot)
	v1.PUT("/timetables/:id", s.handleUpdateSlot)
	v1.DELETE("/timetables/:id", s.handleDeleteSlot)
	v1.POST("/timetables/parse", s.handleParseTimetable)
	v1.POST("/timetables/import", s.handleImportSlots)
	v1.GET("/timetables/:id/homework", s.handleSlotHomework)
	v1.POST("/homework", s.handleCreateHomework)

	v1.GET("/notifications", s.handleNotifications)
	v1.GET("/settings", s.handleGetSettings)
	v1.POST("/settings", s.handleUpdateSettings)

	v1.GET("/analytics", auth.RequireRole(users.RoleAdmin, users.RoleLecturer), s.handleAnalytics)

	admin := v1.Group("/admin", auth.RequireRole(users.RoleAdmin))
	admin.GET("/users", s.handleListUsers)
	admin.PATCH("/users", s.handleChangeRole)
	admin.DELETE("/users", s.handleDeleteUser)

	return r
}

// today returns the current calendar day, midnight-truncated in the
// configured location.
func (s *Server) today() time.Time {
	return clock.DayOf(s.clk.Now(), s.loc)
}

func (s *Server) now() time.Time {
	return s.clk.Now().In(s.loc)
}

func (s *Server) handleHealth(c *gin.Context) {
	redisHealthy := s.redis.Healthy(c.Request.Context())
	dbHealthy := s.db != nil && s.db.Client.PingContext(c.Request.Context()) == nil
	status := http.StatusOK
	if !redisHealthy || !dbHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
}

// respondError maps the error taxonomy to HTTP statuses. Internal details
// are logged, never sent to clients.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrUnsupportedType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, apperror.ErrEmptyExtraction), errors.Is(err, apperror.ErrNoSlotsFound):
		status = http.StatusUnprocessableEntity
	}

	message := "Internal Server Error"
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"message": message})
}

// CORS middleware for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
