// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	_ "sportpulse/docs" // swagger docs
	"sportpulse/internal/cache"
	"sportpulse/internal/config"
	"sportpulse/internal/database"
	"sportpulse/internal/featureflags"
	"sportpulse/internal/middleware"
	"sportpulse/internal/models"
	"sportpulse/internal/notifications"
	"sportpulse/internal/repository"
	"sportpulse/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	defaultOrigins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	// multipart overhead allowed on top of the image itself
	bodyLimitSlack = 1 << 20
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	tokens         *middleware.TokenManager
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	notifier       *notifications.Notifier
	hub            *notifications.FeedHub
	featureFlags   *featureflags.Manager
	authService    *service.AuthService
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	imageService   *service.ImageService
}

// NewServer connects to the configured database and Redis and builds a Server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cache.Options{URL: cfg.RedisURL, ClientName: cfg.Service()})

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, pub/sub fan-out and Redis rate limits are then skipped.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(cfg.Service()),
		tokens:         middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL()),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		hub:            notifications.NewFeedHub(),
	}

	s.authService = service.NewAuthService(s.userRepo, s.tokens)
	s.userService = service.NewUserService(s.userRepo)
	s.postService = service.NewPostService(s.postRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.imageService = service.NewImageService(cfg)

	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	return s, nil
}

// NewApp builds the Fiber application with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SportPulse API",
		BodyLimit:    int(s.imageService.MaxUploadBytes()) + bodyLimitSlack,
		ErrorHandler: s.errorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, &models.AppError{
			Code:    codeForStatus(fe.Code),
			Message: fe.Message,
		})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
		return models.CodeValidation
	case fiber.StatusUnauthorized:
		return models.CodeUnauthorized
	case fiber.StatusForbidden:
		return models.CodeForbidden
	case fiber.StatusConflict:
		return models.CodeConflict
	default:
		return models.CodeInternal
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Propagates request ID and user ID into the user context for logging.
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Uploaded images are embedded cross-origin by the web client.
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = defaultOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "Too many requests, please try again later.",
				"message": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/monitor", monitor.New(monitor.Config{
		Title: "SportPulse API Metrics",
	}))

	app.Static("/uploads", s.imageService.UploadDir(), fiber.Static{
		MaxAge: 3600,
	})

	api := app.Group("/api")
	api.Get("/", s.ReadinessCheck)
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/feature-flags", s.GetFeatureFlags)

	authRequired := s.AuthRequired()

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", authRequired, s.Me)
	auth.Put("/role", authRequired, s.UpdateRole)
	auth.Put("/personal-info", authRequired, s.UpdatePersonalInfo)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	// /user/me must be registered before the generic /:id route
	posts.Get("/user/me", authRequired, s.GetMyPosts)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", authRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Put("/:id", authRequired, s.UpdatePost)
	posts.Delete("/:id", authRequired, s.DeletePost)

	comments := api.Group("/comments")
	comments.Get("/:postId", s.GetComments)
	comments.Post("/:postId", authRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)

	ws := api.Group("/ws")
	ws.Get("/feed", s.FeedUpgrade, s.WebSocketFeedHandler())
}

// AuthRequired returns the session token middleware. Raw (unprefixed) tokens
// are accepted while the raw_token_auth flag is on.
func (s *Server) AuthRequired() fiber.Handler {
	return middleware.AuthRequired(s.tokens, s.rawTokenAllowed)
}

func (s *Server) rawTokenAllowed() bool {
	return s.featureFlags.On(featureflags.RawTokenAuth)
}

// optionalUserID reads the caller from the Authorization header without enforcing it.
func (s *Server) optionalUserID(c *fiber.Ctx) (string, bool) {
	tokenString, err := middleware.ExtractToken(c.Get(fiber.HeaderAuthorization), s.rawTokenAllowed())
	if err != nil {
		return "", false
	}
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so a
// server running without it stays ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "SportPulse API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// StartBackground wires the feed hub to Redis pub/sub. It is a no-op without Redis.
func (s *Server) StartBackground(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	go func() {
		if err := s.hub.StartWiring(ctx, s.notifier); err != nil {
			log.Printf("failed to start %s wiring: %v", s.hub.Name(), err)
		}
	}()
}

// Start builds the app and listens on the configured port. It blocks until the listener stops.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.NewApp()
	s.StartBackground(s.shutdownCtx)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stops the pub/sub subscriber.
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		log.Printf("error shutting down %s: %v", s.hub.Name(), err)
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
