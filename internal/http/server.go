// README: HTTP server; gin engine, middleware chain and route registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"concierge/internal/config"
	"concierge/internal/http/handlers"
	"concierge/internal/http/middleware"
)

type ServerDeps struct {
	Agent  handlers.Agent
	Config config.HTTPConfig
	Logger *zap.Logger
}

type Server struct {
	agent  *handlers.AgentHandler
	cfg    config.HTTPConfig
	logger *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		agent:  handlers.NewAgentHandler(deps.Agent),
		cfg:    deps.Config,
		logger: logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(s.logger),
		middleware.Logging(s.logger),
		cors.New(s.corsConfig()),
		middleware.RateLimit(s.cfg.RatePerMinute, s.cfg.RateBurst, s.logger),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api/agent")
	{
		api.POST("/plan", s.agent.Plan)
		api.POST("/query", s.agent.Query)
		api.GET("/health", s.agent.Health)
	}
	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// cors.New panics without any allowed origin.
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}
