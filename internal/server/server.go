// Package server exposes the chat backend over HTTP with lifecycle
// management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/raphaelgruber/devmate-go/internal/metrics"
	"github.com/raphaelgruber/devmate-go/internal/models"
	"github.com/raphaelgruber/devmate-go/internal/recommend"
	"github.com/raphaelgruber/devmate-go/internal/session"
	"github.com/raphaelgruber/devmate-go/internal/store"
)

// chatService runs and deletes chat sessions on behalf of a user.
type chatService interface {
	Chat(ctx context.Context, userID, sessionUID, query string) (reply, uid string, err error)
	Delete(ctx context.Context, sessionUID string) error
}

// recommender suggests follow-up messages from a session's recent history.
type recommender interface {
	Suggest(ctx context.Context, sessionUID string, window int) ([]string, error)
}

// Server wraps the echo router with dependencies and lifecycle management.
type Server struct {
	echo      *echo.Echo
	sessions  chatService
	store     *store.Store
	recommend recommender
	metrics   *metrics.Collector
	logger    *slog.Logger
	port      string
}

// New creates the HTTP server and registers all routes.
func New(sessions chatService, st *store.Store, rec recommender, collector *metrics.Collector, port string, logger *slog.Logger) *Server {
	e := echo.New()

	s := &Server{
		echo:      e,
		sessions:  sessions,
		store:     st,
		recommend: rec,
		metrics:   collector,
		logger:    logger,
		port:      port,
	}

	e.Use(LoggingMiddleware(logger))
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	g := s.echo.Group("/api/v1")
	g.POST("/chat/agent", s.handleChat)
	g.GET("/chat/sessions/:userID", s.listSessions)
	g.GET("/chat/sessions/:uid/messages", s.listMessages)
	g.PUT("/chat/sessions/:uid/rename", s.renameSession)
	g.DELETE("/chat/sessions/:uid", s.deleteSession)
	g.POST("/recommendations", s.handleRecommendations)
	g.GET("/users", s.listUsers)
	g.GET("/stats", s.handleStats)
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := ":" + s.port
	s.logger.Info("starting HTTP server", "addr", addr)

	var shutdownErr error
	sc := echo.StartConfig{
		Address:         addr,
		HideBanner:      true,
		HidePort:        true,
		GracefulTimeout: 10 * time.Second,
		OnShutdownError: func(err error) { shutdownErr = err },
	}
	if err := sc.Start(ctx, s.echo); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}
	s.logger.Info("server stopped")
	return nil
}

// Echo returns the underlying router, exposed for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response        string  `json:"response"`
	SessionID       string  `json:"session_id"`
	Status          string  `json:"status"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (s *Server) handleChat(c *echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" || req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and query are required")
	}
	if req.SessionID != "" {
		if _, err := uuid.Parse(req.SessionID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid session_id")
		}
	}

	ctx := c.Request().Context()
	start := time.Now()
	reply, sessionUID, err := s.sessions.Chat(ctx, req.UserID, req.SessionID, req.Query)
	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpTurn, duration)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		if errors.Is(err, session.ErrNotOwner) {
			return echo.NewHTTPError(http.StatusForbidden, "session does not belong to user")
		}
		s.logger.Error("chat turn failed", "user_id", req.UserID, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "agent unavailable")
	}

	return c.JSON(http.StatusOK, chatResponse{
		Response:        reply,
		SessionID:       sessionUID,
		Status:          "success",
		DurationSeconds: duration.Seconds(),
	})
}

func (s *Server) listSessions(c *echo.Context) error {
	userID := c.Param("userID")
	sessions, err := s.store.ListSessions(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if sessions == nil {
		sessions = []*models.Session{}
	}
	return c.JSON(http.StatusOK, sessions)
}

// sessionUID extracts and validates the :uid path parameter. Session UIDs
// are Postgres-generated UUIDs, so anything else is rejected before it
// reaches the database.
func sessionUID(c *echo.Context) (string, error) {
	uid := c.Param("uid")
	if _, err := uuid.Parse(uid); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid session ID")
	}
	return uid, nil
}

func (s *Server) listMessages(c *echo.Context) error {
	uid, err := sessionUID(c)
	if err != nil {
		return err
	}
	if _, err := s.store.GetSession(c.Request().Context(), uid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	msgs, err := s.store.ListMessages(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return c.JSON(http.StatusOK, msgs)
}

type renameRequest struct {
	Title string `json:"title"`
}

func (s *Server) renameSession(c *echo.Context) error {
	uid, err := sessionUID(c)
	if err != nil {
		return err
	}
	var req renameRequest
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title required")
	}
	if err := s.store.RenameSession(c.Request().Context(), uid, req.Title); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteSession(c *echo.Context) error {
	uid, err := sessionUID(c)
	if err != nil {
		return err
	}
	// Through the manager so the per-session lock is released with the row.
	if err := s.sessions.Delete(c.Request().Context(), uid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type recommendationRequest struct {
	SessionID   string `json:"session_id"`
	NumMessages int    `json:"num_messages"`
}

type recommendationResponse struct {
	Suggestions     []string `json:"suggestions"`
	SessionID       string   `json:"session_id"`
	Status          string   `json:"status"`
	DurationSeconds float64  `json:"duration_seconds"`
}

func (s *Server) handleRecommendations(c *echo.Context) error {
	var req recommendationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}
	if _, err := uuid.Parse(req.SessionID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session_id")
	}
	if req.NumMessages < 0 || req.NumMessages > recommend.MaxWindow {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("num_messages must be between 1 and %d", recommend.MaxWindow))
	}

	ctx := c.Request().Context()
	start := time.Now()
	suggestions, err := s.recommend.Suggest(ctx, req.SessionID, req.NumMessages)
	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpRecommend, duration)
	}
	if err != nil {
		s.logger.Error("recommendation generation failed", "session_id", req.SessionID, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "recommendations unavailable")
	}

	return c.JSON(http.StatusOK, recommendationResponse{
		Suggestions:     suggestions,
		SessionID:       req.SessionID,
		Status:          "success",
		DurationSeconds: duration.Seconds(),
	})
}

// listUsers returns all accounts, or the one matching the email query
// parameter. The CLI uses it to discover user IDs.
func (s *Server) listUsers(c *echo.Context) error {
	ctx := c.Request().Context()

	if email := c.QueryParam("email"); email != "" {
		u, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "user not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, []store.User{*u})
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if users == nil {
		users = []store.User{}
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) handleStats(c *echo.Context) error {
	if s.metrics == nil {
		return c.JSON(http.StatusOK, metrics.Snapshot{})
	}
	return c.JSON(http.StatusOK, s.metrics.Snapshot())
}
