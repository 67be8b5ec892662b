package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockledger/backend/internal/infrastructure/logger"
	"github.com/stockledger/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config holds router configuration
type Config struct {
	APIVersion   string
	MaxBodyBytes int64
	CORSOrigins  []string
}

// DefaultConfig returns the default router configuration
func DefaultConfig() Config {
	return Config{
		APIVersion:   "v1",
		MaxBodyBytes: 1 << 20,
	}
}

// Router assembles the HTTP engine, middleware chain and route registrars
type Router struct {
	engine     *gin.Engine
	cfg        Config
	log        *zap.Logger
	registrars []RouteRegistrar
}

// New creates a Router with the standard middleware chain
func New(log *zap.Logger, cfg Config) *Router {
	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)
	if len(cfg.CORSOrigins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowOrigins = cfg.CORSOrigins
		engine.Use(middleware.CORSWithConfig(corsCfg))
	}

	return &Router{
		engine: engine,
		cfg:    cfg,
		log:    log,
	}
}

// Register adds a RouteRegistrar to be wired by Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under the versioned API prefix
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.cfg.APIVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
