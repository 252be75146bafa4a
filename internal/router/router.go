// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/campus-marketplace/internal/config"
	"github.com/javajoker/campus-marketplace/internal/graph"
	"github.com/javajoker/campus-marketplace/internal/handlers"
	"github.com/javajoker/campus-marketplace/internal/metrics"
	"github.com/javajoker/campus-marketplace/internal/middleware"
	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
	"github.com/javajoker/campus-marketplace/internal/services"
)

// maxFilesPerRequest bounds the multipart body accepted by /graphql.
const maxFilesPerRequest = 10

func Initialize(store repository.Store, cfg *config.Config) (*gin.Engine, error) {
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return New(store, cfg, storageService, services.NewGoogleVerifier(cfg.Identity.GoogleClientID)), nil
}

// New builds the engine around the given storage and identity verifier.
func New(store repository.Store, cfg *config.Config, storage services.ImageStorage, verifier services.IdentityVerifier) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(store, cfg)
	identityService := services.NewIdentityService(store, verifier, cfg)
	adminService := services.NewAdminService(store)

	schema := graph.NewSchema(graph.NewResolver(graph.Services{
		Listings:   services.NewListingService(store, storage),
		Offers:     services.NewOfferService(store),
		Moderation: services.NewModerationService(store, notificationService, cfg.Moderation.ReportThreshold),
		Wishlists:  services.NewWishlistService(store),
		Profiles:   services.NewProfileService(store),
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(identityService)
	adminHandler := handlers.NewAdminHandler(adminService)
	graphQLHandler := handlers.NewGraphQLHandler(schema, cfg.Storage.MaxImageSize*maxFilesPerRequest+1<<20)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.OptionalAuth(identityService))
	r.Use(middleware.AuditLogMiddleware(store))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/graphql", graphQLHandler.Serve)

	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.RequireLevel(models.PermissionAdmin))
		{
			admin.GET("/reports", adminHandler.GetReports)
			admin.GET("/notifications", adminHandler.GetNotifications)
			admin.PUT("/notifications/:id/read", adminHandler.MarkNotificationRead)
			admin.POST("/products/:id/questions", adminHandler.RecordQuestion)
		}
	}

	// Local uploads are served by the API itself
	if cfg.Storage.Driver == "local" {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	return r
}
