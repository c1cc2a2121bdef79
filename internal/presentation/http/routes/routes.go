// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/journeykit/journeykit-go/internal/application/container"
	"github.com/journeykit/journeykit-go/internal/presentation/http/handlers"
	"github.com/journeykit/journeykit-go/internal/presentation/http/middleware"
	"github.com/journeykit/journeykit-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.AccessMiddleware(container.AccessService))

	// Uploaded media is served straight from disk.
	r.Static(config.MediaPublicPrefix, config.MediaBasePath)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AccessService, container.Logger)
	experienceHandlers := handlers.NewExperienceHandlers(container.ExperienceService, container.Logger)
	builderHandlers := handlers.NewBuilderHandlers(container.SessionService, container.ExperienceService, container.Logger)
	mediaHandlers := handlers.NewMediaHandlers(container.UploadProcessor, container.Logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authHandlers.PostLogin)
		api.GET("/auth/status", authHandlers.GetStatus)

		// Listing and fetching apply the published-only rule for anonymous
		// callers inside the service, so no gate here.
		api.GET("/experiences", experienceHandlers.GetExperiences)
		api.GET("/experiences/:id", experienceHandlers.GetExperience)

		// Preview surface: admin or customer.
		preview := api.Group("")
		preview.Use(middleware.RequirePreviewAccess())
		{
			preview.GET("/experiences/:id/render", experienceHandlers.GetRendered)
		}

		// Builder surface and publish control: admin only.
		admin := api.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/experiences", experienceHandlers.PostExperience)
			admin.PUT("/experiences/:id", experienceHandlers.PutExperience)
			admin.DELETE("/experiences/:id", experienceHandlers.DeleteExperience)
			admin.POST("/experiences/:id/publish", experienceHandlers.PostPublish)

			admin.POST("/builder/sessions", builderHandlers.PostSession)
			admin.GET("/builder/sessions/:id", builderHandlers.GetSession)
			admin.POST("/builder/sessions/:id/ops", builderHandlers.PostOp)
			admin.POST("/builder/sessions/:id/save", builderHandlers.PostSave)
			admin.POST("/builder/sessions/:id/publish", builderHandlers.PostSessionPublish)
			admin.GET("/builder/sessions/:id/canvas", builderHandlers.GetCanvas)

			admin.POST("/media/upload", mediaHandlers.PostUpload)
		}
	}

	return r
}
