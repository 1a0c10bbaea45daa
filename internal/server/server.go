// Package server exposes the task application over HTTP: Google login,
// a JWT-gated JSON API, and the wiring between the request layer and
// the sync controller.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/db/models"
	"taskdeck/internal/sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Store is everything the HTTP layer needs from the persistence
// gateway. *db.DB satisfies it.
type Store interface {
	sync.Gateway
	ListProjects(ctx context.Context, userID string) ([]models.Project, error)
	CreateProject(ctx context.Context, userID string, in models.CreateProjectInput) (models.Project, error)
	GetOrCreateUser(ctx context.Context, id, email, name, picture string) (models.User, error)
	Ping(ctx context.Context) error
}

type Server struct {
	cfg        *config.Config
	store      Store
	controller *sync.Controller
	auth       *Authenticator
	log        *logrus.Logger
	http       *http.Server
}

// New builds the router and wires the sync controller over the store.
// One controller serves all users; its cache is partitioned by user id.
func New(cfg *config.Config, store Store, log *logrus.Logger) *Server {
	cache := sync.NewCache()
	controller := sync.NewController(store, cache, sync.LogNotifier{Log: log}, log)

	s := &Server{
		cfg:        cfg,
		store:      store,
		controller: controller,
		auth:       NewAuthenticator(cfg.Auth, store, log),
		log:        log,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	s.routes(router)

	s.http = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Controller exposes the mutation controller, mainly for tests and
// non-HTTP callers.
func (s *Server) Controller() *sync.Controller {
	return s.controller
}

func (s *Server) routes(router *gin.Engine) {
	router.GET("/healthz", s.healthz)

	router.GET("/auth/login", s.auth.Login)
	router.GET("/auth/callback", s.auth.Callback)

	api := router.Group("/api", s.auth.RequireAuth())
	{
		api.GET("/tasks", s.listTasks)
		api.POST("/tasks", s.createTask)
		api.PATCH("/tasks/:id", s.updateTask)
		api.DELETE("/tasks/:id", s.deleteTask)
		api.POST("/tasks/:id/toggle", s.toggleTask)

		api.GET("/projects", s.listProjects)
		api.POST("/projects", s.createProject)
	}
}

// Start serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.http.Addr).Info("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.log.Info("shutting down http server")
	return s.http.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
