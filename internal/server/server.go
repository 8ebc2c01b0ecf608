package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"timetrack/internal/report"
	"timetrack/internal/timeparse"
	"timetrack/internal/tracker"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	maxTaskName     = 200
)

// Server provides the HTTP API over the tracker and its reports.
type Server struct {
	engine    *gin.Engine
	tracker   *tracker.Service
	reports   *report.Reporter
	logger    *slog.Logger
	weekStart time.Weekday
}

// New constructs the HTTP server with routes and middleware configured.
// weekStart decides the default range of list and report endpoints.
func New(svc *tracker.Service, reports *report.Reporter, logger *slog.Logger, weekStart time.Weekday) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	registerValidators(logger)

	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine:    router,
		tracker:   svc,
		reports:   reports,
		logger:    logger,
		weekStart: weekStart,
	}
	router.Use(requestID(), srv.logRequests())

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET(":name", s.handleGetTask)
			tasks.PUT(":name", s.handleUpdateTask)
			tasks.DELETE(":name", s.handleDeleteTask)
			tasks.GET(":name/latest", s.handleLatestTimer)
		}

		timers := api.Group("/timers")
		{
			timers.GET("", s.handleListTimers)
			timers.POST("/start", s.handleStartTimer)
			timers.POST("/stop", s.handleStopTimer)
			timers.GET("/active", s.handleActiveTimer)
			timers.GET("/recent", s.handleRecentTimer)
			timers.GET(":id", s.handleGetTimer)
			timers.PATCH(":id", s.handleUpdateTimer)
			timers.DELETE(":id", s.handleDeleteTimer)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/weekly", s.handleWeeklyReport)
			reports.GET("/tasks", s.handleTaskReport)
			reports.GET("/days", s.handleDayReport)
		}
	}
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// resolveTime turns an optional phrase into an instant; empty means now.
func (s *Server) resolveTime(phrase string) (time.Time, error) {
	return timeparse.Resolve(phrase, s.tracker.Now(), s.tracker.Location())
}

// queryRange reads the begin and end query parameters, defaulting to the
// current week.
func (s *Server) queryRange(c *gin.Context) (time.Time, time.Time, bool) {
	begin, end, err := timeparse.Range(c.Query("begin"), c.Query("end"),
		s.tracker.Now(), s.tracker.Location(), s.weekStart)
	if err != nil {
		s.respondError(c, err)
		return time.Time{}, time.Time{}, false
	}
	return begin, end, true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrDuplicateName),
		errors.Is(err, tracker.ErrHasActiveReferences),
		errors.Is(err, tracker.ErrNoActiveTimer):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrValidationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, tracker.ErrInvalidName),
		errors.Is(err, timeparse.ErrUnparseable),
		errors.Is(err, report.ErrUnbounded):
		return http.StatusBadRequest
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, err error) {
	s.respondStatus(c, statusFor(err), err)
}

func (s *Server) respondStatus(c *gin.Context, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(c.Request.Context(), level, "request failed",
		slog.String("path", c.FullPath()),
		slog.String(requestIDKey, c.GetString(requestIDKey)),
		slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// requestID propagates or assigns the X-Request-ID header.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String(requestIDKey, c.GetString(requestIDKey)))
	}
}

// registerValidators adds the "taskname" rule to gin's validator.
func registerValidators(logger *slog.Logger) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := v.RegisterValidation("taskname", validTaskName); err != nil {
		logger.Error("register taskname validator", slog.String("error", err.Error()))
	}
}

// validTaskName accepts non-blank names without control characters.
func validTaskName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.TrimSpace(name) == "" || len(name) > maxTaskName {
		return false
	}
	return strings.IndexFunc(name, unicode.IsControl) < 0
}
