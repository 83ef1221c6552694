package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/depotdesk/depotdesk/internal/api/handlers"
	"github.com/depotdesk/depotdesk/internal/api/middleware"
	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/depotdesk/depotdesk/internal/config"
	"github.com/depotdesk/depotdesk/internal/rbac"
	"github.com/depotdesk/depotdesk/internal/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// NewRouter creates and configures the Gin router.
// oidcAuth may be nil when single sign-on is disabled.
func NewRouter(cfg *config.Config, db *gorm.DB, authenticator auth.Authenticator, authz *rbac.Authorizer, oidcAuth *auth.OIDCAuthenticator) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(loggingMiddleware())
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))

	handlers.OIDCEnabled = oidcAuth != nil
	authHandler := handlers.NewAuthHandler(authenticator)

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", handlers.HealthCheck(pingDB(db)))
		public.GET("/version", handlers.GetVersion)
		public.POST("/auth/login/", authHandler.Login)
		public.POST("/auth/refresh/", authHandler.Refresh)
		if oidcAuth != nil {
			public.GET("/auth/oidc/login", handlers.OIDCLogin(oidcAuth))
			public.GET("/auth/oidc/callback", handlers.OIDCCallback(oidcAuth))
		}
	}

	warehouseHandler := handlers.NewWarehouseHandler(service.NewWarehouseService(db))
	announcementHandler := handlers.NewAnnouncementHandler(service.NewAnnouncementService(db))
	categoryHandler := handlers.NewCategoryHandler(service.NewCategoryService(db))
	subCategoryHandler := handlers.NewSubCategoryHandler(service.NewSubCategoryService(db))
	userHandler := handlers.NewUserHandler(service.NewUserService(db))
	auditHandler := handlers.NewAuditHandler(db)

	// Protected routes (require authentication)
	protected := router.Group("/api")
	protected.Use(authenticator.Middleware())
	{
		protected.GET("/auth/user/", authHandler.CurrentUser)
		protected.POST("/auth/logout/", authHandler.Logout)

		admin := protected.Group("", middleware.RequirePolicy(authz, rbac.PolicyAdmin))
		{
			admin.GET("/warehouses/", warehouseHandler.ListWarehouses)
			admin.POST("/warehouses/", warehouseHandler.CreateWarehouse)
			admin.GET("/warehouses/:id/", warehouseHandler.GetWarehouse)
			admin.PUT("/warehouses/:id/", warehouseHandler.UpdateWarehouse)
			admin.DELETE("/warehouses/:id/", warehouseHandler.DeleteWarehouse)

			admin.GET("/announcements/", announcementHandler.ListAnnouncements)
			admin.POST("/announcements/", announcementHandler.CreateAnnouncement)
			admin.GET("/announcements/:id/", announcementHandler.GetAnnouncement)
			admin.PUT("/announcements/:id/", announcementHandler.UpdateAnnouncement)
			admin.DELETE("/announcements/:id/", announcementHandler.DeleteAnnouncement)

			admin.GET("/categories/", categoryHandler.ListCategories)
			admin.POST("/categories/", categoryHandler.CreateCategory)
			admin.GET("/categories/:id/", categoryHandler.GetCategory)
			admin.PUT("/categories/:id/", categoryHandler.UpdateCategory)
			admin.DELETE("/categories/:id/", categoryHandler.DeleteCategory)

			admin.GET("/subcategories/", subCategoryHandler.ListSubCategories)
			admin.POST("/subcategories/", subCategoryHandler.CreateSubCategory)
			admin.GET("/subcategories/:id/", subCategoryHandler.GetSubCategory)
			admin.PUT("/subcategories/:id/", subCategoryHandler.UpdateSubCategory)
			admin.DELETE("/subcategories/:id/", subCategoryHandler.DeleteSubCategory)
		}

		platform := protected.Group("", middleware.RequirePolicy(authz, rbac.PolicyPlatformAdmin))
		{
			platform.GET("/users/", userHandler.ListUsers)
			platform.POST("/users/", userHandler.CreateUser)
			platform.GET("/users/:id/", userHandler.GetUser)
			platform.PUT("/users/:id/", userHandler.UpdateUser)
			platform.DELETE("/users/:id/", userHandler.DeleteUser)

			platform.GET("/audit-logs/", auditHandler.ListAuditLogs)
		}
	}

	// Swagger documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	slog.Info("API router initialized", "mode", cfg.Server.Mode, "oidc", oidcAuth != nil)
	return router
}

func pingDB(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"ip", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			slog.Error("HTTP request", attrs...)
			return
		}
		slog.Info("HTTP request", attrs...)
	}
}

// corsMiddleware adds CORS headers for the configured origins.
// A "*" entry allows any origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := slices.Contains(origins, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || slices.Contains(origins, origin)) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
