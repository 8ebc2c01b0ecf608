package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Name        string `json:"name" binding:"required,taskname"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Name        *string `json:"name" binding:"omitempty,taskname"`
	Description *string `json:"description"`
}

// handleListTasks returns all tasks in creation order.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tracker.ListTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks})
}

// handleCreateTask registers a new task.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.tracker.AddTask(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tracker.Task(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleUpdateTask renames and/or describes a task. An empty description
// clears it.
func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondStatus(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	name := c.Param("name")
	if req.Name != nil && *req.Name != name {
		if err := s.tracker.RenameTask(ctx, name, *req.Name); err != nil {
			s.respondError(c, err)
			return
		}
		name = *req.Name
	}
	if req.Description != nil {
		if err := s.tracker.DescribeTask(ctx, name, *req.Description); err != nil {
			s.respondError(c, err)
			return
		}
	}

	task, err := s.tracker.Task(ctx, name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task that no timer references.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.tracker.RemoveTask(c.Request.Context(), c.Param("name")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleLatestTimer returns the most recently started timer of a task.
func (s *Server) handleLatestTimer(c *gin.Context) {
	timer, err := s.tracker.LatestTimerForTask(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"timer": timer})
}
