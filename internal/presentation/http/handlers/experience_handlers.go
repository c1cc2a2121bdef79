package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/journeykit/journeykit-go/internal/application/services"
	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
	"github.com/journeykit/journeykit-go/internal/presentation/http/middleware"
	"github.com/journeykit/journeykit-go/internal/presentation/templates"
)

// ExperienceHandlers contains the experience CRUD and rendering handlers
type ExperienceHandlers struct {
	experienceService *services.ExperienceService
	logger            *logging.ChanneledLogger
}

// NewExperienceHandlers creates experience handlers with injected dependencies
func NewExperienceHandlers(experienceService *services.ExperienceService, logger *logging.ChanneledLogger) *ExperienceHandlers {
	return &ExperienceHandlers{
		experienceService: experienceService,
		logger:            logger,
	}
}

type experienceRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description *string        `json:"description"`
	Screens     []*flow.Screen `json:"screens"`
}

// GetExperiences handles GET /api/v1/experiences. Anonymous callers get
// published experiences only.
func (h *ExperienceHandlers) GetExperiences(c *gin.Context) {
	level := middleware.GetAccessLevel(c)
	experiences, err := h.experienceService.List(c.Request.Context(), level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"experiences": experiences})
}

// GetExperience handles GET /api/v1/experiences/:id
func (h *ExperienceHandlers) GetExperience(c *gin.Context) {
	level := middleware.GetAccessLevel(c)
	experience, err := h.experienceService.Get(c.Request.Context(), c.Param("id"), level)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, experience)
}

// PostExperience handles POST /api/v1/experiences
func (h *ExperienceHandlers) PostExperience(c *gin.Context) {
	start := time.Now()

	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	createdBy := ""
	if principal := middleware.GetPrincipal(c); principal != nil {
		createdBy = principal.ID
	}

	experience, err := h.experienceService.Create(c.Request.Context(), req.Name, req.Description, createdBy, req.Screens)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.Content().Info("Experience create request completed", "experienceId", experience.ID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, experience)
}

// PutExperience handles PUT /api/v1/experiences/:id - full-replace update
func (h *ExperienceHandlers) PutExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	experience, err := h.experienceService.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description, req.Screens)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, experience)
}

// DeleteExperience handles DELETE /api/v1/experiences/:id
func (h *ExperienceHandlers) DeleteExperience(c *gin.Context) {
	if err := h.experienceService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// PostPublish handles POST /api/v1/experiences/:id/publish
func (h *ExperienceHandlers) PostPublish(c *gin.Context) {
	experienceID := c.Param("id")
	if err := h.experienceService.Publish(c.Request.Context(), experienceID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"experienceId": experienceID, "isPublished": true})
}

// GetRendered handles GET /api/v1/experiences/:id/render - read-only HTML of
// the experience, one section per screen.
func (h *ExperienceHandlers) GetRendered(c *gin.Context) {
	level := middleware.GetAccessLevel(c)
	experience, err := h.experienceService.Get(c.Request.Context(), c.Param("id"), level)
	if err != nil {
		respondError(c, err)
		return
	}

	html := templates.RenderExperience(experience, templates.ModeReadOnly)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
