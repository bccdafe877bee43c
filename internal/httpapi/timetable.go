package httpapi

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"classtrack/internal/apperror"
	"classtrack/internal/auth"
	"classtrack/internal/timetable"
)

func (s *Server) handleCreateSlot(c *gin.Context) {
	claims := auth.FromContext(c)
	var in timetable.SlotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Invalid("Invalid input data"))
		return
	}
	slot, err := s.slots.Create(c.Request.Context(), claims.UserID, claims.Role, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Timetable created", "timetable": slot})
}

func (s *Server) handleListSlots(c *gin.Context) {
	slots, err := s.slots.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if slots == nil {
		slots = []timetable.Slot{}
	}
	c.JSON(http.StatusOK, slots)
}

func (s *Server) handleGetSlot(c *gin.Context) {
	claims := auth.FromContext(c)
	slot, err := s.slots.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (s *Server) handleUpdateSlot(c *gin.Context) {
	claims := auth.FromContext(c)
	var in timetable.SlotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, apperror.Invalid("Invalid data"))
		return
	}
	slot, err := s.slots.Update(c.Request.Context(), claims.UserID, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Updated", "timetable": slot})
}

func (s *Server) handleDeleteSlot(c *gin.Context) {
	claims := auth.FromContext(c)
	if err := s.slots.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (s *Server) handleImportSlots(c *gin.Context) {
	claims := auth.FromContext(c)
	var req struct {
		Slots []timetable.Candidate `json:"slots" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Invalid("No slots to import"))
		return
	}
	created, err := s.slots.Import(c.Request.Context(), claims.UserID, req.Slots)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Slots imported", "timetables": created})
}

// handleParseTimetable runs the whole upload pipeline: extract text from the
// file, then structure it into slot candidates. The candidates go back to
// the client for review; nothing is persisted here.
func (s *Server) handleParseTimetable(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		parseTotal.WithLabelValues("invalid").Inc()
		respondError(c, apperror.Invalid("No file provided"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		parseTotal.WithLabelValues("error").Inc()
		respondError(c, apperror.Internal(err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		parseTotal.WithLabelValues("error").Inc()
		respondError(c, apperror.Internal(err))
		return
	}

	// OCR plus generative-model latency can stack up; bound the whole
	// pipeline rather than hanging the request.
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.ParseTimeout)
	defer cancel()

	mimeType := fileHeader.Header.Get("Content-Type")
	rawText, err := s.extractor.Extract(ctx, data, fileHeader.Filename, mimeType)
	if err != nil {
		parseTotal.WithLabelValues("extract_failed").Inc()
		respondError(c, err)
		return
	}
	if len(strings.TrimSpace(rawText)) < s.cfg.MinExtracted {
		parseTotal.WithLabelValues("empty").Inc()
		respondError(c, apperror.EmptyExtraction("Could not extract any text from the file. Is the file empty or corrupted?"))
		return
	}

	slots, err := s.structurer.Structure(ctx, rawText)
	if err != nil {
		parseTotal.WithLabelValues("structure_failed").Inc()
		respondError(c, err)
		return
	}
	if len(slots) == 0 {
		parseTotal.WithLabelValues("no_slots").Inc()
		respondError(c, apperror.NoSlotsFound("AI could not find any class slots in this file. Please try manual entry."))
		return
	}

	parseTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
