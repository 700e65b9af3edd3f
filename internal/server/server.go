// Package server contains the HTTP and WebSocket handlers for the Inkwell API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/featureflags"
	"inkwell/internal/mail"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/notifications"
	"inkwell/internal/repository"
	"inkwell/internal/service"

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

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	rateLimiter    *middleware.Limiter
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	tokens       *auth.TokenManager
	mailer       mail.Mailer
	notifier     *notifications.Notifier
	hub          *notifications.Hub
	featureFlags *featureflags.Manager

	userService         *service.UserService
	articleService      *service.ArticleService
	commentService      *service.CommentService
	bookmarkService     *service.BookmarkService
	discussionService   *service.DiscussionService
	proposalService     *service.ProposalService
	engagementService   *service.EngagementService
	notificationService *service.NotificationService
	otpService          *service.OTPService
	adminService        *service.AdminService
	mediaService        *service.MediaService
}

// Option customizes a Server built by NewServerWithDeps.
type Option func(*Server)

// WithMailer replaces the mailer derived from the SMTP settings.
func WithMailer(m mail.Mailer) Option {
	return func(s *Server) { s.mailer = m }
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil Redis client is tolerated: revocation, tickets and rate limits
// degrade, and notifications are delivered only to this process.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, opts ...Option) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires config and database")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		rateLimiter:    middleware.NewLimiter(redisClient, cfg.Env),
		promMiddleware: middleware.InitMetrics("inkwell-api"),
		tokens:         auth.NewTokenManager(cfg.JWTSecret, redisClient),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		hub:            notifications.NewHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, entry := range s.featureFlags.Ignored() {
		middleware.Logger.Warn("ignoring malformed feature flag", slog.String("entry", entry))
	}
	if s.mailer == nil {
		s.mailer = mail.New(cfg)
	}
	s.notifier = notifications.NewNotifier(redisClient).WithFallback(s.hub.BroadcastAll)

	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)

	s.userService = service.NewUserService(userRepo, s.tokens)
	s.articleService = service.NewArticleService(articleRepo, s.mailer, cfg.AdminEmail)
	s.commentService = service.NewCommentService(repository.NewCommentRepository(db), articleRepo)
	s.bookmarkService = service.NewBookmarkService(repository.NewBookmarkRepository(db), articleRepo)
	s.discussionService = service.NewDiscussionService(repository.NewDiscussionRepository(db))
	s.proposalService = service.NewProposalService(repository.NewProposalRepository(db))
	s.engagementService = service.NewEngagementService(repository.NewEngagementRepository(db))
	s.notificationService = service.NewNotificationService(
		repository.NewNotificationRepository(db), s.notifier, s.featureFlags)
	s.otpService = service.NewOTPService(
		repository.NewOTPRepository(db), userRepo, s.mailer, s.featureFlags,
		time.Duration(cfg.OTPTTLMinutes)*time.Minute)
	s.adminService = service.NewAdminService(repository.NewAdminRepository(db), s.tokens)
	s.mediaService = service.NewMediaService(cfg)

	return s, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Inkwell API",
		BodyLimit: int(s.mediaService.MaxUploadBytes()) + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// uploaded thumbnails are embedded by the frontend on another origin
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
				"code":  "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Static(service.UploadURLPrefix, s.mediaService.UploadDir(), fiber.Static{
		MaxAge: 86400,
	})

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Inkwell API Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Users and sessions
	api.Post("/signup", s.rateLimiter.Limit(5, 10*time.Minute, "signup"), s.Signup)
	api.Post("/login", s.rateLimiter.Limit(10, time.Minute, "login"), s.Login)
	api.Post("/logout", s.AuthRequired(), s.Logout)
	api.Post("/interests", s.AuthRequired(), s.UpdateInterests)
	api.Get("/users/me", s.AuthRequired(), s.GetMe)

	// Articles; fixed segments before /:id
	articles := api.Group("/articles")
	articles.Get("/all", s.ListArticles)
	articles.Get("/trending", s.TrendingArticles)
	articles.Get("/user/:username", s.ListArticlesByAuthor)
	articles.Get("/:articleId/comments", s.ListComments)
	articles.Post("/:articleId/comments", s.rateLimiter.Limit(10, time.Minute, "create_comment"), s.CreateComment)
	articles.Post("/", s.AuthRequired(), s.rateLimiter.Limit(5, 5*time.Minute, "create_article"), s.CreateArticle)
	articles.Post("/:id/report", s.rateLimiter.Limit(5, 10*time.Minute, "report_article"), s.ReportArticle)
	articles.Post("/:id/deletion-request", s.AuthRequired(),
		s.rateLimiter.Limit(3, time.Hour, "deletion_request"), s.RequestArticleDeletion)
	articles.Put("/:id", s.AuthRequired(), s.UpdateArticle)
	articles.Get("/:id", s.GetArticle)

	bookmarks := api.Group("/bookmarks", s.AuthRequired())
	bookmarks.Post("/add", s.AddBookmark)
	bookmarks.Post("/remove", s.RemoveBookmark)
	bookmarks.Get("/:userId", s.ListBookmarks)

	community := api.Group("/community")
	community.Get("/", s.ListDiscussions)
	community.Post("/create", s.AuthRequired(), s.rateLimiter.Limit(5, 5*time.Minute, "create_discussion"), s.CreateDiscussion)
	community.Post("/:discussionId/comments/:commentId/reply", s.AuthRequired(),
		s.rateLimiter.Limit(20, time.Minute, "discussion_reply"), s.ReplyToComment)
	community.Post("/:id/comment", s.AuthRequired(),
		s.rateLimiter.Limit(20, time.Minute, "discussion_comment"), s.CommentOnDiscussion)
	community.Get("/:id", s.GetDiscussion)

	proposals := api.Group("/proposals")
	proposals.Get("/explore", s.ExploreProposals)
	proposals.Post("/create", s.AuthRequired(), s.CreateProposal)
	proposals.Post("/respond", s.OptionalAuth(), s.rateLimiter.Limit(10, 10*time.Minute, "proposal_respond"), s.RespondToProposal)
	proposals.Get("/my-proposals/:userId", s.AuthRequired(), s.ListMyProposals)
	proposals.Put("/:id", s.AuthRequired(), s.UpdateProposal)
	proposals.Delete("/:id", s.AuthRequired(), s.DeleteProposal)

	otp := api.Group("/otp")
	otp.Post("/send", s.rateLimiter.LimitWithPolicy(3, 10*time.Minute, middleware.FailClosed, "otp_send"), s.SendOTP)
	otp.Post("/verify", s.rateLimiter.LimitWithPolicy(10, 10*time.Minute, middleware.FailClosed, "otp_verify"), s.VerifyOTP)
	otp.Post("/check-status", s.CheckOTPStatus)

	admin := api.Group("/admin")
	admin.Post("/authenticate", s.rateLimiter.Limit(5, 10*time.Minute, "admin_auth"), s.AuthenticateAdmin)
	admin.Get("/all-data", s.AdminRequired(), s.GetAllData)
	admin.Get("/feature-flags", s.AdminRequired(), s.GetFeatureFlags)

	api.Post("/subscribe", s.rateLimiter.Limit(5, 10*time.Minute, "subscribe"), s.Subscribe)
	api.Post("/contributors", s.rateLimiter.Limit(3, 10*time.Minute, "contributor_apply"), s.ApplyAsContributor)

	notifs := api.Group("/notifications")
	notifs.Get("/all", s.ListNotifications)
	notifs.Post("/send", s.AdminRequired(), s.SendNotification)
	notifs.Post("/view", s.AuthRequired(), s.MarkNotificationViewed)

	api.Post("/media/upload", s.AuthRequired(),
		s.rateLimiter.Limit(20, 10*time.Minute, "media_upload"), s.UploadMedia)

	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)
	api.Get("/ws/notifications", s.WSTicketRequired(), s.NotificationStream())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck pings the database and Redis.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
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
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"websockets": s.hub.Count(),
		"time":       time.Now(),
	})
}

// Start builds the app, wires the notification hub to Redis and listens.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.App()

	if s.redis != nil {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to wire notification hub", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down notification hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
