// Package router holds the HTTP route table.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	_ "fintrack/internal/docs" // swagger docs
	apperrors "fintrack/internal/errors"
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Expenses *handlers.ExpenseHandler
	Habits   *handlers.HabitHandler
	Health   *handlers.HealthHandler
}

// Options configures the middleware stack.
type Options struct {
	Verifier       middleware.TokenVerifier
	Limiter        middleware.RateLimiter // nil disables rate limiting
	AllowedOrigins []string
	Production     bool
}

// Build wires services and handlers over db and returns the router.
func Build(cfg *config.Config, db *gorm.DB, health handlers.Pinger, tokens *auth.TokenManager, limiter middleware.RateLimiter) *gin.Engine {
	userService := services.NewUserService(db, cfg.BcryptCost)
	authService := services.NewAuthService(userService, tokens)
	expenseService := services.NewExpenseService(db)
	habitService := services.NewHabitService(db)
	auditService := services.NewAuditService(db)

	h := Handlers{
		Auth:     handlers.NewAuthHandler(userService, authService, auditService, cfg.GenericLoginErrors),
		Expenses: handlers.NewExpenseHandler(expenseService, auditService),
		Habits:   handlers.NewHabitHandler(habitService, auditService),
		Health:   handlers.NewHealthHandler(health),
	}
	return New(h, Options{
		Verifier:       tokens,
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins(),
		Production:     cfg.IsProduction(),
	})
}

// New registers the custom binding validators and mounts every route.
// Protected routes pass the auth middleware before reaching any handler.
func New(h Handlers, opts Options) *gin.Engine {
	validator.Register()

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SecurityHeaders(opts.Production))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	// Rendered by ErrorHandler.
	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrMethodNotAllowed)
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", h.Health.Health)

	// Public routes
	public := router.Group("/")
	if opts.Limiter != nil {
		public.Use(middleware.RateLimit(opts.Limiter))
	}
	public.POST("/register", h.Auth.Register)
	public.POST("/login", h.Auth.Login)

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(opts.Verifier))

	protected.GET("/profile", h.Auth.GetProfile)

	expenses := protected.Group("/expenses")
	expenses.GET("", h.Expenses.ListExpenses)
	expenses.POST("", h.Expenses.CreateExpense)
	expenses.GET("/:id", h.Expenses.GetExpense)
	expenses.PUT("/:id", h.Expenses.UpdateExpense)
	expenses.DELETE("/:id", h.Expenses.DeleteExpense)

	protected.GET("/summary/expenses", h.Expenses.SummarizeExpenses)

	habits := protected.Group("/habits")
	habits.GET("", h.Habits.ListHabits)
	habits.POST("", h.Habits.CreateHabit)
	habits.GET("/:id", h.Habits.GetHabit)
	habits.PUT("/:id", h.Habits.UpdateHabit)
	habits.DELETE("/:id", h.Habits.DeleteHabit)

	return router
}
