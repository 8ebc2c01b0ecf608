package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timetrack/internal/datatable"
	"timetrack/internal/render"
)

// handleWeeklyReport returns one day-by-task table per week in range.
// Durations are encoded as whole seconds.
func (s *Server) handleWeeklyReport(c *gin.Context) {
	begin, end, ok := s.queryRange(c)
	if !ok {
		return
	}
	tables, err := s.reports.SummaryByDayAndTask(c.Request.Context(), begin, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tables": portable(tables)})
}

func (s *Server) handleTaskReport(c *gin.Context) {
	begin, end, ok := s.queryRange(c)
	if !ok {
		return
	}
	table, err := s.reports.SummaryByTask(c.Request.Context(), begin, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"table": render.Portable(table)})
}

func (s *Server) handleDayReport(c *gin.Context) {
	begin, end, ok := s.queryRange(c)
	if !ok {
		return
	}
	tables, err := s.reports.TimersByDay(c.Request.Context(), begin, end)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tables": portable(tables)})
}

func portable(tables []datatable.Table) []datatable.Table {
	out := make([]datatable.Table, 0, len(tables))
	for _, t := range tables {
		out = append(out, render.Portable(t))
	}
	return out
}
