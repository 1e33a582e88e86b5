// Package server contains the HTTP surface of the notice-board API.
package server

import (
	"context"
	"log"
	"time"

	"noticeboard/internal/auth"
	"noticeboard/internal/config"
	"noticeboard/internal/featureflags"
	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/repository"
	"noticeboard/internal/service"
	"noticeboard/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server wires configuration, storage and repositories into Fiber handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	tokens  *auth.TokenService
	storage storage.Storage
	flags   *featureflags.Manager

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	announcementRepo repository.AnnouncementRepository
	eventRepo        repository.EventRepository
	marketplaceRepo  repository.MarketplaceRepository
	contactRepo      repository.ContactRepository
	activityRepo     repository.ActivityRepository

	userService *service.UserService
	postService *service.PostService
}

// NewServer creates a Server with production dependencies. The object store
// is optional; upload routes respond 503 when it is unavailable.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL())
	if err != nil {
		return nil, err
	}

	var store storage.Storage
	if minioClient, merr := storage.NewMinIOClient(cfg); merr != nil {
		log.Printf("WARNING: object storage unavailable, uploads disabled: %v", merr)
	} else {
		store = minioClient
	}

	return NewServerWithDeps(cfg, db, redisClient, tokens, store)
}

// NewServerWithDeps creates a Server with injected dependencies; tests use
// it with a sqlite database, miniredis and a stub store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, tokens *auth.TokenService, store storage.Storage) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	s := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("noticeboard-api"),
		tokens:           tokens,
		storage:          store,
		flags:            featureflags.NewManager(cfg.FeatureFlags),
		userRepo:         userRepo,
		postRepo:         postRepo,
		announcementRepo: repository.NewAnnouncementRepository(db),
		eventRepo:        repository.NewEventRepository(db),
		marketplaceRepo:  repository.NewMarketplaceRepository(db),
		contactRepo:      repository.NewContactRepository(db),
		activityRepo:     repository.NewActivityRepository(db),
		userService:      service.NewUserService(userRepo),
		postService:      service.NewPostService(postRepo),
	}
	return s, nil
}

// SetupMiddleware registers the global middleware chain. Order matters:
// recovery and request IDs first, then context propagation so the logger
// and tracer see them, security headers and CORS before rate limiting.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
	}))
}

// SetupRoutes registers all HTTP routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.HealthCheck)

	s.promMiddleware.RegisterAt(app, "/metrics")

	api := app.Group("/api")
	api.Get("/", s.HealthCheck)
	api.Get("/metrics/dashboard", monitor.New())

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	authGroup.Post("/logout", s.Logout)
	authGroup.Get("/me", s.AuthRequired(), s.GetMe)
	authGroup.Put("/me", s.AuthRequired(), s.UpdateMe)
	authGroup.Post("/change-password", s.AuthRequired(), s.ChangePassword)
	authGroup.Post("/refresh", s.AuthRequired(), s.RefreshToken)
	authGroup.Get("/validate-token", s.AuthRequired(), s.ValidateToken)

	// Posts. Specific /:id/:resource and literal routes come before the
	// generic /:id route.
	posts := api.Group("/posts")
	posts.Get("/", s.OptionalAuth(), s.ListPosts)
	posts.Get("/all", s.AuthRequired(), s.RequireRoles(models.RoleAdmin), s.ListAllPosts)
	posts.Get("/stats", s.AuthRequired(), s.RequireRoles(models.RoleAdmin), s.GetPostStats)
	posts.Get("/categories/list", s.ListPostCategories)
	posts.Get("/user/:userId", s.AuthRequired(), s.ListUserPosts)
	posts.Post("/", s.AuthRequired(), s.logActivity("post"), middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Put("/:id/like", s.AuthRequired(), s.ToggleLike)
	posts.Post("/:id/comment", s.AuthRequired(), middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.AddComment)
	posts.Delete("/:id/comment/:commentId", s.AuthRequired(), s.DeleteComment)
	posts.Get("/:id", s.OptionalAuth(), s.GetPost)
	posts.Put("/:id", s.AuthRequired(), s.logActivity("post"), s.UpdatePost)
	posts.Delete("/:id", s.AuthRequired(), s.logActivity("post"), s.DeletePost)

	// Announcements: read is public, writes need a moderation role.
	announcements := api.Group("/announcements")
	announcements.Get("/", s.OptionalAuth(), s.ListAnnouncements)
	announcements.Get("/categories/list", s.ListAnnouncementCategories)
	announcements.Get("/priorities/list", s.ListAnnouncementPriorities)
	announcements.Get("/:id", s.OptionalAuth(), s.GetAnnouncement)
	announcements.Post("/", s.AuthRequired(), s.RequireRoles(models.RoleAdmin, models.RoleModerator),
		s.logActivity("announcement"), s.CreateAnnouncement)
	announcements.Put("/:id", s.AuthRequired(), s.RequireRoles(models.RoleAdmin, models.RoleModerator),
		s.logActivity("announcement"), s.UpdateAnnouncement)
	announcements.Delete("/:id", s.AuthRequired(), s.RequireRoles(models.RoleAdmin, models.RoleModerator),
		s.logActivity("announcement"), s.DeleteAnnouncement)

	// Events: read is public, writes need a moderation role.
	events := api.Group("/events")
	events.Get("/", s.OptionalAuth(), s.ListEvents)
	events.Get("/types/list", s.ListEventTypes)
	events.Get("/statuses/list", s.ListEventStatuses)
	events.Get("/:id", s.OptionalAuth(), s.GetEvent)
	events.Post("/", s.AuthRequired(), s.RequireRoles(models.RoleAdmin, models.RoleModerator),
		s.logActivity("event"), s.CreateEvent)
	events.Put("/:id", s.AuthRequired(), s.RequireRoles(models.RoleAdmin, models.RoleModerator),
		s.logActivity("event"), s.UpdateEvent)
	events.Delete("/:id", s.AuthRequired(), s.RequireRoles(models.RoleAdmin, models.RoleModerator),
		s.logActivity("event"), s.DeleteEvent)

	// Marketplace is an optional module behind a feature flag.
	marketplace := api.Group("/marketplace", s.RequireFlag(featureflags.FlagMarketplace))
	marketplace.Get("/", s.OptionalAuth(), s.ListMarketplaceItems)
	marketplace.Get("/categories/list", s.ListMarketplaceCategories)
	marketplace.Get("/conditions/list", s.ListMarketplaceConditions)
	marketplace.Get("/:id", s.OptionalAuth(), s.GetMarketplaceItem)
	marketplace.Post("/", s.AuthRequired(), s.logActivity("marketplace_item"), s.CreateMarketplaceItem)
	marketplace.Post("/:id/approve", s.AuthRequired(), s.RequireRoles(models.RoleAdmin, models.RoleModerator),
		s.logActivity("marketplace_item"), s.ApproveMarketplaceItem)
	marketplace.Put("/:id", s.AuthRequired(), s.logActivity("marketplace_item"), s.UpdateMarketplaceItem)
	marketplace.Delete("/:id", s.AuthRequired(), s.logActivity("marketplace_item"), s.DeleteMarketplaceItem)

	// Contacts: the whole directory requires authentication.
	contacts := api.Group("/contacts", s.AuthRequired())
	contacts.Get("/", s.ListContacts)
	contacts.Get("/departments/list", s.ListContactDepartments)
	contacts.Get("/tags/list", s.ListContactTags)
	contacts.Get("/stats/overview", s.GetContactStats)
	contacts.Get("/:id", s.GetContact)
	contacts.Post("/", s.logActivity("contact"), s.CreateContact)
	contacts.Put("/:id", s.logActivity("contact"), s.UpdateContact)
	contacts.Delete("/:id", s.logActivity("contact"), s.DeleteContact)

	// Users: admin module. Moderators may view individual profiles.
	users := api.Group("/users", s.AuthRequired())
	users.Get("/", s.RequireRoles(models.RoleAdmin), s.ListUsers)
	users.Get("/stats/overview", s.RequireRoles(models.RoleAdmin), s.GetUserStats)
	users.Get("/:id", s.RequireRoles(models.RoleAdmin, models.RoleModerator), s.GetUser)
	users.Put("/:id", s.RequireRoles(models.RoleAdmin), s.logActivity("user"), s.UpdateUser)
	users.Delete("/:id", s.RequireRoles(models.RoleAdmin), s.logActivity("user"), s.DeactivateUser)
	users.Post("/:id/activate", s.RequireRoles(models.RoleAdmin), s.logActivity("user"), s.ActivateUser)

	// Uploads
	api.Post("/upload", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "upload"), s.UploadImage)

	// Audit trail, behind its own flag. Auth runs first so percentage
	// rollouts bucket by the caller's real id.
	api.Get("/activity", s.AuthRequired(),
		s.RequireFlag(featureflags.FlagActivityLog),
		s.RequireRoles(models.RoleAdmin), s.ListActivity)

	// Admin utilities
	admin := api.Group("/admin", s.AuthRequired(), s.RequireRoles(models.RoleAdmin))
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
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

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app degrades without Redis but readiness reports it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Noticeboard",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds (once) and returns the configured Fiber application.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName: "Noticeboard API",
		// Leave headroom above the upload cap so the handler can report
		// oversized images itself instead of a bare 413.
		BodyLimit: maxUploadBytes + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := err.(*models.AppError); ok {
				return models.RespondWithError(c, appErr.StatusCode(), appErr)
			}
			if fiberErr, ok := err.(*fiber.Error); ok {
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start builds the app and begins accepting connections.
func (s *Server) Start() error {
	app := s.App()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes its connections.
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
