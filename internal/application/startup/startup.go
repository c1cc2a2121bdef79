// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/journeykit/journeykit-go/internal/application/container"
	"github.com/journeykit/journeykit-go/internal/infrastructure/database"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
	persistdb "github.com/journeykit/journeykit-go/internal/infrastructure/persistence/database"
	"github.com/journeykit/journeykit-go/internal/infrastructure/security"
	"github.com/journeykit/journeykit-go/internal/presentation/http/server"
	"github.com/journeykit/journeykit-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	// Step 1: Load environment and configuration
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	config.Load()

	// Step 2: Create the channeled logger
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Startup().Info("Configuration loaded", "companyId", config.CompanyID, "dbDriver", config.DBDriver)

	// Without JWT_SECRET, tokens only survive until the next restart.
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(32)
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Startup().Warn("JWT_SECRET not set, generated an ephemeral signing key")
	}

	// Step 3: Open the database and ensure the schema exists
	logger.Startup().Info("Connecting to database...", "driver", config.DBDriver)
	db, err := persistdb.NewConnectionWithLogger(config.DBDriver, config.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Startup().Info("Ensuring database schema...")
	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Step 4: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(db.DB, logger)
	defer appContainer.Shutdown()

	// Step 5: Start HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
