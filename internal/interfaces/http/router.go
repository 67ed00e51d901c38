package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/internal/interfaces/http/handlers"
	"github.com/turtacn/usersvc/internal/interfaces/http/middleware"
	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/logger"
)

// Router is the HTTP surface of the service.
type Router struct {
	engine         *gin.Engine
	config         *config.Config
	logger         logger.Logger
	healthHandler  *handlers.HealthHandler
	userHandler    *handlers.UserHandler
	reporter       handlers.ErrorReporter
	authMiddleware gin.HandlerFunc
	observability  gin.HandlerFunc
	metricsHandler http.Handler
	server         *http.Server
}

// NewRouter creates the router and registers its routes.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	reporter handlers.ErrorReporter,
	authMiddleware gin.HandlerFunc,
	observability gin.HandlerFunc,
	metricsHandler http.Handler,
) *Router {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:         gin.New(),
		config:         cfg,
		logger:         log.WithComponent("Router"),
		healthHandler:  healthHandler,
		userHandler:    userHandler,
		reporter:       reporter,
		authMiddleware: authMiddleware,
		observability:  observability,
		metricsHandler: metricsHandler,
	}
	r.setupRoutes()
	r.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        r.engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
	return r
}

func (r *Router) setupRoutes() {
	r.engine.Use(middleware.Recovery(r.logger, r.reporter))
	r.engine.Use(middleware.RequestID())
	if r.observability != nil {
		r.engine.Use(r.observability)
	}
	r.engine.Use(middleware.Logging(r.logger))

	origins := r.config.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", constants.HeaderAuthorization, constants.HeaderRequestID},
		ExposeHeaders:    []string{constants.HeaderRequestID, r.config.Security.Headers.UserID, r.config.Security.Headers.UserRole},
		AllowCredentials: !allowsAnyOrigin(origins),
		MaxAge:           12 * time.Hour,
	}))

	r.engine.GET("/health/live", r.healthHandler.LivenessCheck)
	r.engine.GET("/health/ready", r.healthHandler.HealthCheck)
	r.engine.GET("/health", r.healthHandler.HealthCheck)

	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}

	if !r.config.Server.IsProduction() {
		pprof.Register(r.engine)
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware)
	{
		users := v1.Group("/users")
		users.POST("/register", r.userHandler.Register)
		users.GET("/confirm", r.userHandler.Confirm)
		users.POST("/login", r.userHandler.Login)
		users.GET("/auth", middleware.RequireIdentity(r.reporter), r.userHandler.Authorize)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "The requested resource was not found",
			"status": "404 NOT_FOUND",
		})
	})
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Start serves HTTP until Stop is called.
func (r *Router) Start() error {
	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))
	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info(ctx, "Stopping HTTP server...")
	return r.server.Shutdown(ctx)
}

// Engine returns the gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
