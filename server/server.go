// Package server is the tablero backend: an echo REST API over
// Postgres (production) or SQLite (dev/self-hosted). Governance rules
// are enforced here authoritatively; clients recompute them only to
// gate their own UI.
package server

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/tablero/internal/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Server is the backend service.
type Server struct {
	db     *sql.DB
	driver string
	echo   *echo.Echo
}

// New creates a server. driver is "postgres" or "sqlite".
func New(driver, dsn string) (*Server, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// Serialize access; also keeps :memory: databases coherent.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, err
		}
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Server{db: db, driver: driver}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	s.setupEcho()
	return s, nil
}

// q rewrites $N placeholders to ?N for the SQLite driver. Queries are
// written once, Postgres-style.
func (s *Server) q(query string) string {
	if s.driver != "sqlite" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)

	api := e.Group("/api/v1")

	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)

	protected.GET("/projects", s.handleListProjects)
	protected.POST("/projects", s.handleCreateProject)
	protected.GET("/projects/:id", s.handleGetProject)
	protected.PATCH("/projects/:id", s.handleUpdateProject)
	protected.DELETE("/projects/:id", s.handleDeleteProject)
	protected.GET("/projects/:id/board", s.handleBoard)

	protected.GET("/projects/:id/members", s.handleListMembers)
	protected.POST("/projects/:id/members", s.handleAddMember)
	protected.DELETE("/projects/:id/members/:uid", s.handleRemoveMember)
	protected.PUT("/projects/:id/members/:uid/role", s.handleChangeMemberRole)

	protected.POST("/tasks", s.handleCreateTask)
	protected.PATCH("/tasks/:id", s.handleUpdateTask)
	protected.PUT("/tasks/:id/status", s.handleChangeStatus)
	protected.POST("/tasks/:id/assign", s.handleAssignTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)

	protected.GET("/tasks/:id/labels", s.handleTaskLabels)
	protected.PUT("/tasks/:id/labels", s.handleReplaceTaskLabels)
	protected.POST("/labels/ensure", s.handleEnsureLabels)

	protected.GET("/tasks/:id/comments", s.handleListComments)
	protected.POST("/tasks/:id/comments", s.handleAddComment)

	protected.GET("/tasks/:id/attachments", s.handleListAttachments)

	s.echo = e
}

// Close closes the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// errJSON is the uniform error body.
func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// validationJSON carries structured per-field detail.
func validationJSON(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
		"error":  "validacion fallida",
		"fields": fields,
	})
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
