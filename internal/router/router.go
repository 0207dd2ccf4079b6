// Package router assembles the HTTP surface: middleware, handlers and routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"prodash/internal/config"
	_ "prodash/internal/docs" // Register swagger docs
	"prodash/internal/handlers"
	"prodash/internal/middleware"
	"prodash/internal/services"
	"prodash/internal/storage"
)

// Options carries the collaborators the router cannot build from the config
// alone. Images may be nil when no object store is configured.
type Options struct {
	DB          *gorm.DB
	Images      storage.ImageStore
	AuthLimiter *middleware.IPRateLimiter
}

// New wires services and handlers onto a fresh gin engine.
func New(cfg *config.Config, opts Options) *gin.Engine {
	db := opts.DB

	// Services
	notificationService := services.NewNotificationService(db)
	userService := services.NewUserService(db)
	taskService := services.NewTaskService(db, notificationService)
	expenseService := services.NewExpenseService(db)
	meetingService := services.NewMeetingService(db)
	countryLogService := services.NewCountryLogService(db, notificationService)
	auditService := services.NewAuditService(db)

	// Handlers
	tokens := middleware.NewTokenIssuer(cfg)
	authHandler := handlers.NewAuthHandler(userService, auditService, tokens, cfg.CookieSecure)
	taskHandler := handlers.NewTaskHandler(taskService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	meetingHandler := handlers.NewMeetingHandler(meetingService, auditService)
	countryLogHandler := handlers.NewCountryLogHandler(countryLogService, auditService)
	imageHandler := handlers.NewImageHandler(opts.Images, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.NoRoute(middleware.NotFound())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	if opts.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(opts.AuthLimiter))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))

	protected.GET("/profile", authHandler.GetProfile)

	tasks := protected.Group("/tasks")
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/view", taskHandler.GetTaskView)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.PATCH("/:id/soft-delete", taskHandler.SoftDeleteTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/analytics", expenseHandler.GetExpenseAnalytics)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.PATCH("/:id/soft-delete", expenseHandler.SoftDeleteExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	meetings := protected.Group("/meeting-schedules")
	meetings.POST("", meetingHandler.CreateMeeting)
	meetings.GET("", meetingHandler.GetMeetings)
	meetings.GET("/:id", meetingHandler.GetMeeting)
	meetings.GET("/:id/ics", meetingHandler.DownloadICS)
	meetings.PUT("/:id", meetingHandler.UpdateMeeting)
	meetings.PATCH("/:id/soft-delete", meetingHandler.SoftDeleteMeeting)
	meetings.DELETE("/:id", meetingHandler.DeleteMeeting)

	countryLogs := protected.Group("/country-logs")
	countryLogs.POST("", countryLogHandler.CreateCountryLog)
	countryLogs.GET("", countryLogHandler.GetCountryLogs)
	countryLogs.GET("/:id", countryLogHandler.GetCountryLog)
	countryLogs.PUT("/:id", countryLogHandler.UpdateCountryLog)
	countryLogs.DELETE("/:id", countryLogHandler.DeleteCountryLog)

	protected.POST("/images/upload", imageHandler.UploadImage)

	return router
}
