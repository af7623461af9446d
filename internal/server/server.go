// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"carezy/internal/assistant"
	"carezy/internal/cache"
	"carezy/internal/chat"
	"carezy/internal/config"
	"carezy/internal/database"
	"carezy/internal/mail"
	"carezy/internal/middleware"
	"carezy/internal/models"
	"carezy/internal/music"
	"carezy/internal/otp"
	"carezy/internal/repository"
	"carezy/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	moodRepo       repository.MoodRepository
	taskRepo       repository.TaskRepository
	userService    *service.UserService
	assistantSvc   *service.AssistantService
	resetSvc       *service.ResetService
	recommender    music.Recommender
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	moodRepo := repository.NewMoodRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("carezy-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		moodRepo:       moodRepo,
		taskRepo:       taskRepo,
	}
	server.userService = service.NewUserService(server.userRepo)

	// Outbound providers degrade to 503 responses when unconfigured.
	if completer := assistant.NewClient(cfg.GeminiAPIKey, middleware.Logger); completer.Configured() {
		server.assistantSvc = service.NewAssistantService(completer, chat.NewStore(redisClient))
	}
	if recommender := music.NewClient(cfg.YouTubeAPIKey, middleware.Logger); recommender.Configured() {
		server.recommender = recommender
	}
	if mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass, middleware.Logger); mailer.Configured() {
		server.resetSvc = service.NewResetService(server.userRepo, otp.NewStore(redisClient), mailer)
	}

	return server, nil
}

// UseAssistant replaces the mood-analysis and chatbot backend.
// Intended for tests and alternate completion providers.
func (s *Server) UseAssistant(completer assistant.Completer, history chat.Store) {
	s.assistantSvc = service.NewAssistantService(completer, history)
}

// UseRecommender replaces the music search backend.
func (s *Server) UseRecommender(r music.Recommender) {
	s.recommender = r
}

// UseMailer replaces the password-reset delivery backend.
func (s *Server) UseMailer(sender mail.Sender, codes otp.Store) {
	s.resetSvc = service.NewResetService(s.userRepo, codes, sender)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// OpenTelemetry span per request
	app.Use(middleware.TracingMiddleware())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
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
	app.Get("/", s.HealthCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/api/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Carezy Backend Metrics Dashboard",
	}))

	// Auth routes
	app.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Password reset routes (public: the caller is locked out by definition)
	app.Post("/send-reset-otp", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "send_reset_otp"), s.SendResetOTP)
	app.Post("/reset-password", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "reset_password"), s.ResetPassword)

	// Uploaded profile images are served publicly by filename
	app.Get("/uploads/:filename", s.ServeUpload)

	// User routes
	user := app.Group("/api/user", s.AuthRequired())
	user.Put("/update-profile", s.UpdateProfile)
	user.Post("/upload-image", s.UploadProfileImage)
	// Generic /:id route must be last
	user.Get("/:id", s.GetUser)

	// Mood routes
	moods := app.Group("/moods", s.AuthRequired())
	moods.Post("/", s.CreateMood)
	moods.Get("/", s.GetMoods)

	// Task routes
	tasks := app.Group("/tasks", s.AuthRequired())
	tasks.Post("/", s.CreateTask)
	tasks.Get("/", s.GetTasks)
	tasks.Put("/:task_id", s.UpdateTaskStatus)
	tasks.Delete("/:task_id", s.DeleteTask)

	// Assistant routes
	app.Post("/ai/analyze-mood", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "analyze_mood"), s.AnalyzeMood)
	app.Post("/chatbot", s.AuthRequired(), middleware.RateLimit(
		s.redis, 15, time.Minute, "chatbot"), s.Chatbot)
	app.Post("/music-recommendation", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "music_recommendation"), s.MusicRecommendation)
}

// HealthCheck is a simple root-level alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Degraded but serviceable: caching, chatbot memory and OTP storage
		// fall back to in-process stores.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Carezy API is running...",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Access Denied. No token provided."))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Access Denied. No token provided."))
		}
		tokenString := parts[1]

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid token"))
		}

		// Extract claims
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid token claims"))
		}

		// Validate issuer and audience
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "carezy-api" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "carezy-client" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid token audience"))
		}

		// Extract user ID from subject claim
		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid user ID in token"))
		}

		// Store user ID in context
		c.Locals("userID", uint(userID))
		if email, emailOk := claims["email"].(string); emailOk {
			c.Locals("email", email)
		}
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Carezy API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Custom error handler
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
	// Shutdown the HTTP server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
