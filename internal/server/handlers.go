package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/m3rciful/todobot/core/logger"
)

type createTaskRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	Completed     bool       `json:"completed"`
	DueDate       *time.Time `json:"due_date"`
	CategoryIDs   []string   `json:"category_ids"`
	CategoryNames []string   `json:"category_names"`
}

type createCategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.storage.ListTasks(c.Request.Context())
	if err != nil {
		s.internalError(c, "list_tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DueDate != nil {
		// Due dates are compared at day granularity: today is fine,
		// yesterday is not.
		due := *req.DueDate
		today := startOfDay(s.now())
		if startOfDay(due).Before(today) {
			c.JSON(http.StatusBadRequest, gin.H{"due_date": "due date cannot be in the past"})
			return
		}
	}

	task, err := s.storage.CreateTask(c.Request.Context(), NewTask{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Completed:     req.Completed,
		DueDate:       req.DueDate,
		CategoryIDs:   req.CategoryIDs,
		CategoryNames: req.CategoryNames,
	})
	if err != nil {
		s.internalError(c, "create_task", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	err := s.storage.DeleteTask(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case err != nil:
		s.internalError(c, "delete_task", err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
	}
}

func (s *Server) handleListCategories(c *gin.Context) {
	cats, err := s.storage.ListCategories(c.Request.Context())
	if err != nil {
		s.internalError(c, "list_categories", err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (s *Server) handleCheckCategory(c *gin.Context) {
	name := c.Query("name")
	exists := false
	if name != "" {
		var err error
		exists, err = s.storage.CategoryExists(c.Request.Context(), name)
		if err != nil {
			s.internalError(c, "check_category", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"name": "name cannot be blank"})
		return
	}

	cat, err := s.storage.CreateCategory(c.Request.Context(), name, req.Color)
	switch {
	case errors.Is(err, ErrDuplicateCategory):
		c.JSON(http.StatusBadRequest, gin.H{"name": "category with this name already exists"})
	case err != nil:
		s.internalError(c, "create_category", err)
	default:
		c.JSON(http.StatusCreated, cat)
	}
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	err := s.storage.DeleteCategory(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	case err != nil:
		s.internalError(c, "delete_category", err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}

func (s *Server) internalError(c *gin.Context, op string, err error) {
	logger.SRV.Error("storage",
		slog.String("event", "error"),
		slog.String("op", op),
		slog.String("err", logger.Sanitize(err.Error())),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
