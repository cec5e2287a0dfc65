// Package server is the quitq-web storefront: server-rendered pages for the
// QuitQ marketplace, gated by the route guard over one shared session.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"filippo.io/csrf"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/quitq-dev/quitq/internal/cli/client"
	"github.com/quitq-dev/quitq/internal/config"
	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/session"
	"github.com/quitq-dev/quitq/internal/validate"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    zerolog.Logger
	session   *session.Store
	client    *client.Client
	validator *validate.Validator
	csrf      *csrf.Protection
}

// New creates a new server instance. The session store may still be
// restoring; protected pages answer with the loading page until it is done.
func New(cfg *config.Config, zlog zerolog.Logger, store *session.Store, api *client.Client) *Server {
	server := &Server{
		config:    cfg,
		logger:    zlog,
		session:   store,
		client:    api,
		validator: validate.New(),
		csrf:      csrf.New(),
	}

	server.setupRouter()

	return server
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	// Release mode unless a test already chose gin.TestMode
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// Every form post acts on the shared session, so cross-site posts are refused
	for _, origin := range s.config.Server.AllowedOrigins {
		if err := s.csrf.AddTrustedOrigin(origin); err != nil {
			s.logger.Warn().Err(err).Str("origin", origin).Msg("Ignoring invalid allowed origin")
		}
	}
	s.router.Use(s.crossOriginMiddleware())

	if len(s.config.Server.AllowedOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:     s.config.Server.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	s.router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))

	// Health check endpoint (never guarded)
	s.router.GET("/health", s.healthCheck)

	// Public views
	s.router.GET(guard.LoginPath, s.loginPage)
	s.router.POST(guard.LoginPath, s.login)
	s.router.POST("/logout", s.logout)
	s.router.GET("/register", s.registerPage)
	s.router.POST("/register", s.register)
	s.router.GET("/about", s.aboutPage)

	// Protected views, one per route of the guard's table
	for _, route := range guard.Routes {
		if route.Public {
			continue
		}
		s.router.GET(route.Path, s.guardMiddleware(route.Requirement), s.page(route))
	}

	// Form posts behind the same gates as the views they belong to
	authenticated := s.router.Group("/", s.guardMiddleware(guard.Authenticated()))
	{
		authenticated.POST("/cart/add", s.addToCart)
		authenticated.POST("/cart/:id/remove", s.removeFromCart)
		authenticated.POST("/checkout", s.checkout)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	st := s.session.State()
	c.JSON(http.StatusOK, gin.H{
		"status":        "online",
		"timestamp":     time.Now().UTC(),
		"service":       "quitq-web",
		"session_ready": !st.Loading,
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Server.ListenAddr

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second, // pages wait on the backend
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("api_url", s.client.BaseURL()).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.logger.Error().Err(err).Msg("HTTP server error")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
