package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/m3rciful/todobot/core/logger"
)

// Server exposes the task persistence API over HTTP.
type Server struct {
	storage Storage
	router  *gin.Engine
	now     func() time.Time
}

func NewServer(storage Storage) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		storage: storage,
		router:  router,
		now:     time.Now,
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/tasks/", s.handleListTasks)
		apiGroup.POST("/tasks/", s.handleCreateTask)
		apiGroup.POST("/tasks/:id/delete_task/", s.handleDeleteTask)
		apiGroup.GET("/categories/", s.handleListCategories)
		apiGroup.GET("/categories/check_category/", s.handleCheckCategory)
		apiGroup.POST("/categories/create_category/", s.handleCreateCategory)
		apiGroup.POST("/categories/:id/delete_category/", s.handleDeleteCategory)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.SRV.Info("listening", slog.String("event", "start"), slog.String("listen", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.SRV.Info("stopped", slog.String("event", "shutdown"))
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestLogger writes one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.SRV.Info("request",
			slog.String("event", "http"),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("http_code", c.Writer.Status()),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
	}
}
