// Package container provides dependency injection for all singleton services
package container

import (
	"database/sql"

	"github.com/journeykit/journeykit-go/internal/application/services"
	"github.com/journeykit/journeykit-go/internal/infrastructure/media"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
	persistflow "github.com/journeykit/journeykit-go/internal/infrastructure/persistence/flow"
	"github.com/journeykit/journeykit-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	AccessService     *services.AccessService
	ExperienceService *services.ExperienceService
	SessionService    *services.SessionService

	ExperienceRepo  *persistflow.ExperienceRepository
	UploadProcessor *media.UploadProcessor
	Logger          *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services
func NewContainer(db *sql.DB, logger *logging.ChanneledLogger) *Container {
	experienceRepo := persistflow.NewExperienceRepository(db)

	accessConfig := services.AccessConfig{
		CompanyID:        config.CompanyID,
		JWTSecret:        config.JWTSecret,
		AdminPassword:    config.AdminPassword,
		CustomerPassword: config.CustomerPassword,
		TokenLifetime:    config.TokenLifetime,
		DevBypass:        config.AccessDevBypass,
	}
	verifier := services.NewJWTVerifier(config.JWTSecret)

	sessionService := services.NewSessionService(config.SessionTTL, logger)
	sessionService.StartCleanup(config.SessionCleanupInterval)

	return &Container{
		AccessService:     services.NewAccessService(verifier, &accessConfig, logger),
		ExperienceService: services.NewExperienceService(experienceRepo, logger, config.CompanyID),
		SessionService:    sessionService,

		ExperienceRepo:  experienceRepo,
		UploadProcessor: media.NewUploadProcessor(config.MediaBasePath, config.MediaPublicPrefix, config.MaxUploadSizeBytes),
		Logger:          logger,
	}
}

// Shutdown stops background workers owned by the container.
func (c *Container) Shutdown() {
	c.SessionService.Stop()
}
