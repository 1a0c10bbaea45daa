package server

import (
	"errors"
	"net/http"
	"time"

	"taskdeck/internal/db"
	"taskdeck/internal/db/models"
	"taskdeck/internal/sync"
	"taskdeck/internal/view"

	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// writeError maps the gateway error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": ve.Fields})
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, db.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseFilter reads the view configuration off the query string.
func parseFilter(c *gin.Context) (view.Filter, error) {
	f := view.Filter{
		Search:   c.Query("search"),
		Priority: view.PriorityFilter(c.DefaultQuery("priority", "all")),
		Status:   view.StatusFilter(c.DefaultQuery("status", "all")),
	}

	switch f.Priority {
	case view.PriorityAll, view.PriorityLow, view.PriorityMedium, view.PriorityHigh:
	default:
		return f, &models.ValidationError{Fields: map[string]string{"priority": "must be one of all low medium high"}}
	}
	switch f.Status {
	case view.StatusAll, view.StatusActive, view.StatusCompleted:
	default:
		return f, &models.ValidationError{Fields: map[string]string{"status": "must be one of all active completed"}}
	}

	if day := c.Query("day"); day != "" {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			return f, &models.ValidationError{Fields: map[string]string{"day": "must be formatted YYYY-MM-DD"}}
		}
		f.Day = &parsed
	}
	return f, nil
}

// listTasks serves the task view: the filtered items plus the
// aggregates and due-day set derived from the full collection. A read
// failure is an inline error state, not a notification.
func (s *Server) listTasks(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	tasks, err := s.controller.List(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":   view.Apply(tasks, filter),
		"stats":   view.Count(tasks),
		"dueDays": view.DueDays(tasks),
	})
}

func (s *Server) createTask(c *gin.Context) {
	var in models.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.controller.Create(c.Request.Context(), currentUser(c), in); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": sync.SuccessMessage(sync.OpCreate)})
}

func (s *Server) updateTask(c *gin.Context) {
	var in models.UpdateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.controller.Update(c.Request.Context(), currentUser(c), c.Param("id"), in); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": sync.SuccessMessage(sync.OpUpdate)})
}

func (s *Server) toggleTask(c *gin.Context) {
	if err := s.controller.Toggle(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": sync.SuccessMessage(sync.OpToggle)})
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.controller.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": sync.SuccessMessage(sync.OpDelete)})
}

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *Server) createProject(c *gin.Context) {
	var in models.CreateProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := s.store.CreateProject(c.Request.Context(), currentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
