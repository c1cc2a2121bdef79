package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/journeykit/journeykit-go/internal/application/services"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
	"github.com/journeykit/journeykit-go/internal/presentation/http/middleware"
	"github.com/journeykit/journeykit-go/pkg/config"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	accessService *services.AccessService
	logger        *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(accessService *services.AccessService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		accessService: accessService,
		logger:        logger,
	}
}

// PostLogin handles POST /api/v1/auth/login - password authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()

	var loginReq struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result := h.accessService.Authenticate(loginReq.Password)
	if !result.Success {
		h.logger.Auth().Warn("Login attempt failed", "error", result.Error, "duration", time.Since(start))
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	// HTTP-only cookie alongside the bearer token response
	maxAge := int(config.TokenLifetime.Seconds())
	c.SetCookie(middleware.AuthCookieName, result.Token, maxAge, "/", "", false, true)

	h.logger.Auth().Info("Login successful", "role", result.Role, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"role":  result.Role,
		"level": result.Level,
	})
}

// GetStatus handles GET /api/v1/auth/status - current access level
func (h *AuthHandlers) GetStatus(c *gin.Context) {
	level := middleware.GetAccessLevel(c)
	response := gin.H{
		"level":         level,
		"canUseBuilder": services.CanEnterBuilder(level),
		"canUsePreview": services.CanEnterPreview(level),
	}
	if principal := middleware.GetPrincipal(c); principal != nil {
		response["principalId"] = principal.ID
		response["role"] = principal.Role
	}
	c.JSON(http.StatusOK, response)
}
