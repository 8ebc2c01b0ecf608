package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"timetrack/internal/models"
	"timetrack/internal/tracker"
)

type startTimerRequest struct {
	Task string `json:"task" binding:"required,taskname"`
	At   string `json:"at"`
}

type stopTimerRequest struct {
	At string `json:"at"`
}

type updateTimerRequest struct {
	Task      *string `json:"task" binding:"omitempty,taskname"`
	Start     *string `json:"start"`
	Stop      *string `json:"stop"`
	ClearStop bool    `json:"clear_stop"`
}

// handleListTimers returns the timers started in [begin, end), or every
// timer when all=true.
func (s *Server) handleListTimers(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		timers []models.Timer
		err    error
	)
	if c.Query("all") == "true" {
		timers, err = s.tracker.AllTimers(ctx)
	} else {
		begin, end, ok := s.queryRange(c)
		if !ok {
			return
		}
		timers, err = s.tracker.TimersIntersecting(ctx, begin, end)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	if timers == nil {
		timers = []models.Timer{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"timers": timers})
}

// handleStartTimer starts a timer, closing the active one.
func (s *Server) handleStartTimer(c *gin.Context) {
	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}
	at, err := s.resolveTime(req.At)
	if err != nil {
		s.respondError(c, err)
		return
	}

	timer, err := s.tracker.Start(c.Request.Context(), req.Task, at)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"timer": timer})
}

// handleStopTimer closes the active timer. The body is optional.
func (s *Server) handleStopTimer(c *gin.Context) {
	var req stopTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}
	at, err := s.resolveTime(req.At)
	if err != nil {
		s.respondError(c, err)
		return
	}

	timer, err := s.tracker.Stop(c.Request.Context(), at)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"timer": timer})
}

// handleActiveTimer returns the running timer, or null.
func (s *Server) handleActiveTimer(c *gin.Context) {
	timer, ok, err := s.tracker.ActiveTimer(c.Request.Context())
	s.respondOptional(c, timer, ok, err)
}

// handleRecentTimer returns the timer with the latest start, or null.
func (s *Server) handleRecentTimer(c *gin.Context) {
	timer, ok, err := s.tracker.MostRecentTimer(c.Request.Context())
	s.respondOptional(c, timer, ok, err)
}

func (s *Server) respondOptional(c *gin.Context, timer models.Timer, ok bool, err error) {
	if err != nil {
		s.respondError(c, err)
		return
	}
	var payload *models.Timer
	if ok {
		payload = &timer
	}
	respondSuccess(c, http.StatusOK, gin.H{"timer": payload})
}

func (s *Server) handleGetTimer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	timer, err := s.tracker.Timer(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"timer": timer})
}

// handleUpdateTimer applies a partial update. clear_stop, or an empty
// stop, reactivates the timer.
func (s *Server) handleUpdateTimer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}

	update := tracker.TimerUpdate{Task: req.Task, ClearStop: req.ClearStop}
	var err error
	if update.Start, err = s.optionalTime(req.Start); err != nil {
		s.respondError(c, err)
		return
	}
	if req.Stop != nil && strings.TrimSpace(*req.Stop) == "" {
		update.ClearStop = true
	} else if update.Stop, err = s.optionalTime(req.Stop); err != nil {
		s.respondError(c, err)
		return
	}

	timer, err := s.tracker.UpdateTimer(c.Request.Context(), id, update)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"timer": timer})
}

func (s *Server) optionalTime(phrase *string) (*time.Time, error) {
	if phrase == nil {
		return nil, nil
	}
	t, err := s.resolveTime(*phrase)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// handleDeleteTimer removes a timer.
func (s *Server) handleDeleteTimer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.tracker.DeleteTimer(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
