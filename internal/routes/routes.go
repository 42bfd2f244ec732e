package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/officevault/backend/internal/authz"
	"github.com/officevault/backend/internal/config"
	"github.com/officevault/backend/internal/handlers"
	"github.com/officevault/backend/internal/middleware"
	"github.com/officevault/backend/internal/notify"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	hub *notify.Hub,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	projectHandler *handlers.ProjectHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	protected := []fiber.Handler{middleware.JWTProtected(cfg), middleware.LoadUser(db)}
	adminOnly := func(op authz.Operation) []fiber.Handler {
		return append(append([]fiber.Handler{}, protected...), middleware.Authorize(op))
	}

	// Auth — public endpoints carry a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	auth.Post("/register", authLimiter, authHandler.Register)
	auth.Post("/login", authLimiter, authHandler.Login)
	auth.Post("/forgot-otp", authLimiter, authHandler.ForgotOTP)
	auth.Post("/reset-otp", authLimiter, authHandler.ResetOTP)

	// Approval gate administration
	auth.Get("/", append(protected, userHandler.List)...)
	auth.Get("/pending", append(adminOnly(authz.OpListPending), authHandler.Pending)...)
	auth.Put("/approve/:id", append(adminOnly(authz.OpApproveUser), authHandler.Approve)...)
	auth.Delete("/reject/:id", append(adminOnly(authz.OpRejectUser), authHandler.Reject)...)

	// Employee roster
	api.Get("/users", append(protected, userHandler.List)...)

	// Tasks
	api.Post("/tasks", append(adminOnly(authz.OpCreateTask), taskHandler.Create)...)
	api.Get("/tasks", append(protected, taskHandler.List)...)
	api.Put("/tasks/:id", append(protected, taskHandler.Update)...)
	api.Delete("/tasks/:id", append(adminOnly(authz.OpDeleteTask), taskHandler.Delete)...)

	// Projects
	api.Post("/projects", append(protected, projectHandler.Create)...)
	api.Get("/projects", append(protected, projectHandler.List)...)
	api.Put("/projects/:id/add", append(protected, projectHandler.AddFiles)...)
	api.Put("/projects/:id/remove-file", append(protected, projectHandler.RemoveFile)...)
	api.Delete("/projects/:id", append(protected, projectHandler.Delete)...)

	// Uploaded blobs
	app.Static("/uploads", cfg.UploadDir)

	// Live task notifications
	app.Get("/ws", notify.Upgrade(cfg.JWTSecret), notify.Serve(hub))
}
