// Package server contains the HTTP surface of the application: route
// registration, session-cookie authentication and the request handlers.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"waymark/internal/config"
	"waymark/internal/database"
	"waymark/internal/middleware"
	"waymark/internal/models"
	"waymark/internal/repository"
	"waymark/internal/seed"
	"waymark/internal/service"
	"waymark/internal/session"
	"waymark/internal/titlefetch"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	app      *fiber.App
	sessions session.Store

	userRepo    repository.UserRepository
	recRepo     repository.RecommendationRepository
	tagRepo     repository.TagRepository
	commentRepo repository.CommentRepository
	inviteRepo  repository.InviteRepository
	statsRepo   repository.StatsRepository

	feedService    *service.FeedService
	tagService     *service.TagService
	upvoteService  *service.UpvoteService
	authService    *service.AuthService
	commentService *service.CommentService
	adminService   *service.AdminService
	statsService   *service.StatsService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := seed.EnsureDefaultAdmin(db, cfg); err != nil {
		return nil, err
	}

	redisClient := newRedisClient(cfg.RedisURL)

	var store session.Store
	if redisClient != nil {
		store = session.NewRedisStore(redisClient)
	} else {
		store = session.NewMemoryStore()
	}

	return NewServerWithDeps(cfg, db, redisClient, store), nil
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Use this in tests or when a bootstrap layer establishes
// the DB and Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store session.Store) *Server {
	server := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		sessions:    store,
		userRepo:    repository.NewUserRepository(db),
		recRepo:     repository.NewRecommendationRepository(db),
		tagRepo:     repository.NewTagRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		inviteRepo:  repository.NewInviteRepository(db),
		statsRepo:   repository.NewStatsRepository(db),
	}

	server.feedService = service.NewFeedService(server.recRepo, server.tagRepo, titlefetch.New(), server.isAdminByUserID)
	server.tagService = service.NewTagService(server.tagRepo)
	server.upvoteService = service.NewUpvoteService(server.recRepo)
	server.authService = service.NewAuthService(server.userRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.recRepo, server.isAdminByUserID)
	server.adminService = service.NewAdminService(server.inviteRepo, server.userRepo)
	server.statsService = service.NewStatsService(server.statsRepo)

	return server
}

// newRedisClient builds a Redis client from either a redis:// URL or a
// bare host:port address. Returns nil when no URL is configured.
func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	if opts, err := redis.ParseURL(url); err == nil {
		return redis.NewClient(opts)
	}
	return redis.NewClient(&redis.Options{Addr: url})
}

// isAdminByUserID reports whether the given user currently has admin
// rights. Services use this for authorization decisions that must not
// trust a stale session flag.
func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	var isAdmin bool
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("is_admin").
		Where("id = ?", userID).
		Scan(&isAdmin).Error
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Cookie",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Preflight requests are handled by the CORS middleware and do
		// not count against the limit.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)
	auth.Get("/me", s.AuthRequired(), s.Me)
	auth.Put("/password", s.AuthRequired(), s.ChangePassword)

	// Everything below requires a session
	protected := api.Group("", s.AuthRequired())

	// Recommendation routes; /fetch-title before the wildcard /:id route
	recommendations := protected.Group("/recommendations")
	recommendations.Get("/", s.GetFeed)
	recommendations.Get("/fetch-title", s.FetchTitle)
	recommendations.Post("/", s.CreateRecommendation)
	recommendations.Get("/:id", s.GetRecommendation)
	recommendations.Delete("/:id", s.DeleteRecommendation)

	// Tag routes
	tags := protected.Group("/tags")
	tags.Get("/", s.GetTags)
	tags.Post("/", s.CreateTag)

	// Upvote routes
	upvotes := protected.Group("/upvotes")
	upvotes.Post("/:recommendationId/toggle", s.ToggleUpvote)

	// Comment routes
	comments := protected.Group("/comments")
	comments.Get("/:recommendationId", s.GetComments)
	comments.Post("/:recommendationId", s.CreateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Stats
	protected.Get("/stats", s.GetStats)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Post("/invites", s.CreateInvites)
	admin.Get("/invites", s.ListInvites)
	admin.Delete("/invites/:code", s.DeleteInvite)
	admin.Get("/users", s.ListUsers)
	admin.Delete("/users/:id", s.DeleteUser)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
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

	// Redis is optional; sessions fall back to the in-memory store.
	redisStatus := "not configured"
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
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns middleware that resolves the session cookie and
// rejects unauthenticated requests with 401.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		sess, err := s.sessions.Get(c.Context(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if sess == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		c.Locals("userID", sess.UserID)
		c.Locals("session", sess)
		c.Locals("sessionToken", token)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, sess.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with
// 403. It must be placed after AuthRequired so the session is available.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := s.currentSession(c)
		if sess == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}
		if !sess.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Waymark API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
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
