package router

import (
	"net/http"

	"fintrack/internal/config"
	"fintrack/internal/handler"
	"fintrack/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the Gin engine and all API routes.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), corsHeaders())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	userHandler := handler.NewUserHandler(db, cfg.Security.BcryptCost)

	// no token required
	api.POST("/auth/login", authHandler.Login)
	api.POST("/users/", userHandler.Create)

	protected := api.Group("")
	protected.Use(
		middleware.Auth(cfg.JWT.Secret, db),
		middleware.Audit(db),
	)

	protected.GET("/users/me", userHandler.Me)
	protected.PUT("/users/me", userHandler.UpdateMe)

	txnHandler := handler.NewTransactionHandler(db, cfg.App.PageSize)
	protected.POST("/transactions/", txnHandler.Create)
	protected.GET("/transactions/", txnHandler.List)
	protected.GET("/transactions/dashboard/categories", txnHandler.CategoryBreakdown)
	protected.GET("/transactions/dashboard/monthly-spending", txnHandler.MonthlySpending)
	protected.GET("/transactions/:id", txnHandler.Get)
	protected.DELETE("/transactions/:id", txnHandler.Delete)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/transactions/export/csv", exportHandler.CSV)
	protected.GET("/transactions/export/xlsx", exportHandler.XLSX)

	reminderHandler := handler.NewReminderHandler(db, cfg.App.PageSize)
	protected.POST("/reminders/", reminderHandler.Create)
	protected.GET("/reminders/", reminderHandler.List)
	protected.GET("/reminders/:id", reminderHandler.Get)
	protected.PUT("/reminders/:id", reminderHandler.Update)
	protected.DELETE("/reminders/:id", reminderHandler.Delete)

	notificationHandler := handler.NewNotificationHandler(db)
	protected.POST("/notifications/", notificationHandler.Create)
	protected.GET("/notifications/", notificationHandler.List)
	protected.GET("/notifications/:id", notificationHandler.Get)
	protected.PUT("/notifications/:id", notificationHandler.Resolve)

	auditHandler := handler.NewAuditHandler(db)
	protected.GET("/audit/logs", auditHandler.List)

	dummyHandler := handler.NewDummyHandler(db)
	protected.POST("/dummy-data/generate", dummyHandler.Generate)

	return r
}

// corsHeaders is a permissive CORS layer for browser clients.
func corsHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
