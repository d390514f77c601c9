package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/recall/internal/core/domain"
)

const (
	// shutdownTimeout bounds graceful shutdown in Run.
	shutdownTimeout = 5 * time.Second

	// readyPoll is how often WaitReady checks for the listener.
	readyPoll = 10 * time.Millisecond
)

// Server provides the HTTP API and websocket endpoint.
type Server struct {
	echo   *echo.Echo
	ports  *Ports
	hub    *Hub
	logger *zap.Logger
	config *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// RateLimit is the sustained API request rate per second. Zero disables limiting.
	RateLimit int

	// Root is reported by the health endpoint.
	Root string
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewServer creates a new HTTP server.
func NewServer(ports *Ports, logger *zap.Logger, cfg *Config) (*Server, error) {
	if ports == nil {
		return nil, ErrMissingConversationService
	}
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, ErrMissingLogger
	}
	if cfg == nil {
		cfg = &Config{
			Host:      domain.DefaultServerHost,
			Port:      domain.DefaultServerPort,
			RateLimit: domain.DefaultRateLimit,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	s := &Server{
		echo:   e,
		ports:  ports,
		hub:    NewHub(ports.Changes, logger),
		logger: logger,
		config: cfg,
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")
	if s.config.RateLimit > 0 {
		api.Use(rateLimit(rate.NewLimiter(rate.Limit(s.config.RateLimit), s.config.RateLimit)))
	}

	api.GET("/health", s.handleHealth)
	api.GET("/projects", s.handleProjects)
	api.GET("/conversations", s.handleConversations)
	api.GET("/conversations/:projectPath", s.handleConversations)
	api.GET("/conversations/:projectPath/:id", s.handleConversation)
	api.GET("/search", s.handleSearch)

	s.echo.GET("/ws", s.hub.ServeWS)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	addr := s.config.Addr()
	s.logger.Info("starting http server", zap.String("addr", addr), zap.String("root", s.config.Root))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// WaitReady blocks until the server is listening and returns the bound
// address, which resolves a configured port of 0.
func (s *Server) WaitReady(ctx context.Context) (string, error) {
	ticker := time.NewTicker(readyPoll)
	defer ticker.Stop()

	for {
		if addr := s.echo.ListenerAddr(); addr != nil {
			return addr.String(), nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// Run starts the hub and the server and shuts both down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	hubCtx, cancelHub := context.WithCancel(ctx)
	defer cancelHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", ClaudePath: s.config.Root})
}

func (s *Server) handleProjects(c echo.Context) error {
	projects := s.ports.Conversations.ListProjects(c.Request().Context())
	return c.JSON(http.StatusOK, NewProjectResponses(projects))
}

// handleConversations serves both the full listing and a single project.
func (s *Server) handleConversations(c echo.Context) error {
	conversations := s.ports.Conversations.ListConversations(c.Request().Context(), c.Param("projectPath"))
	return c.JSON(http.StatusOK, NewConversationResponses(conversations))
}

func (s *Server) handleConversation(c echo.Context) error {
	conv, err := s.ports.Conversations.GetConversation(c.Request().Context(), c.Param("projectPath"), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	}
	if err != nil {
		s.logger.Warn("load conversation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load conversation"})
	}
	return c.JSON(http.StatusOK, NewConversationResponse(conv))
}

func (s *Server) handleSearch(c echo.Context) error {
	opts := domain.SearchOptions{ProjectKey: c.QueryParam("projectPath")}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer"})
		}
		opts.Limit = n
	}

	query := c.QueryParam("query")
	results := s.ports.Search.Search(c.Request().Context(), query, opts)
	if strings.TrimSpace(query) == "" {
		return c.JSON(http.StatusOK, NewListingResponses(results))
	}
	return c.JSON(http.StatusOK, NewSearchResultResponses(results))
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	}
}

// rateLimit rejects requests once the shared token bucket is empty.
func rateLimit(limiter *rate.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests"})
			}
			return next(c)
		}
	}
}
