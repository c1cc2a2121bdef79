package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/journeykit/journeykit-go/internal/application/services"
	"github.com/journeykit/journeykit-go/internal/domain/builder"
	"github.com/journeykit/journeykit-go/internal/domain/entities/flow"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
	"github.com/journeykit/journeykit-go/internal/presentation/http/middleware"
	"github.com/journeykit/journeykit-go/internal/presentation/templates"
)

// BuilderHandlers contains the builder session HTTP handlers
type BuilderHandlers struct {
	sessionService    *services.SessionService
	experienceService *services.ExperienceService
	logger            *logging.ChanneledLogger
}

// NewBuilderHandlers creates builder handlers with injected dependencies
func NewBuilderHandlers(sessionService *services.SessionService, experienceService *services.ExperienceService, logger *logging.ChanneledLogger) *BuilderHandlers {
	return &BuilderHandlers{
		sessionService:    sessionService,
		experienceService: experienceService,
		logger:            logger,
	}
}

// PostSession handles POST /api/v1/builder/sessions. An optional
// experienceId loads that experience into the new session's store.
func (h *BuilderHandlers) PostSession(c *gin.Context) {
	var req struct {
		ExperienceID string `json:"experienceId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	session := h.sessionService.Create()
	if req.ExperienceID != "" {
		if _, err := h.experienceService.Load(c.Request.Context(), session.Store, req.ExperienceID); err != nil {
			h.sessionService.Delete(session.ID)
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"sessionId": session.ID,
		"state":     session.Store.Snapshot(),
	})
}

// GetSession handles GET /api/v1/builder/sessions/:id - store snapshot
func (h *BuilderHandlers) GetSession(c *gin.Context) {
	session, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
		"state":     session.Store.Snapshot(),
	})
}

// builderOpRequest carries one named store operation. Fields beyond the op
// name are read per operation; extras are ignored.
type builderOpRequest struct {
	Op            string         `json:"op" binding:"required"`
	ScreenID      string         `json:"screenId"`
	ComponentID   string         `json:"componentId"`
	ComponentType string         `json:"componentType"`
	Name          string         `json:"name"`
	FromIndex     int            `json:"fromIndex"`
	ToIndex       int            `json:"toIndex"`
	Tab           string         `json:"tab"`
	Content       *flow.Content  `json:"content"`
	Settings      *flow.Settings `json:"settings"`
}

// PostOp handles POST /api/v1/builder/sessions/:id/ops. Unknown op names are
// rejected; invalid targets inside a known op are the store's silent no-ops.
func (h *BuilderHandlers) PostOp(c *gin.Context) {
	session, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req builderOpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	store := session.Store
	switch req.Op {
	case "addScreen":
		store.AddScreen()
	case "renameScreen":
		store.RenameScreen(req.ScreenID, req.Name)
	case "deleteScreen":
		store.DeleteScreen(req.ScreenID)
	case "reorderScreens":
		store.ReorderScreens(req.FromIndex, req.ToIndex)
	case "selectScreen":
		store.SelectScreen(req.ScreenID)
	case "addComponent":
		store.AddComponent(flow.ComponentType(req.ComponentType))
	case "updateComponent":
		store.UpdateComponent(req.ComponentID, builder.ComponentPatch{
			Content:  req.Content,
			Settings: req.Settings,
		})
	case "deleteComponent":
		store.DeleteComponent(req.ComponentID)
	case "reorderComponents":
		store.ReorderComponents(req.FromIndex, req.ToIndex)
	case "selectComponent":
		store.SelectComponent(req.ComponentID)
	case "setActiveTab":
		level := middleware.GetAccessLevel(c)
		store.SetActiveTab(services.ClampTab(level, builder.Tab(req.Tab)))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown op: " + req.Op})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": store.Snapshot()})
}

// PostSave handles POST /api/v1/builder/sessions/:id/save
func (h *BuilderHandlers) PostSave(c *gin.Context) {
	session, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	createdBy := ""
	if principal := middleware.GetPrincipal(c); principal != nil {
		createdBy = principal.ID
	}

	experience, err := h.experienceService.Save(c.Request.Context(), session.Store, req.Name, req.Description, createdBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"experienceId": experience.ID,
		"state":        session.Store.Snapshot(),
	})
}

// PostSessionPublish handles POST /api/v1/builder/sessions/:id/publish. The
// session must have been saved so the store is bound to an experience.
func (h *BuilderHandlers) PostSessionPublish(c *gin.Context) {
	session, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.experienceService.PublishSession(c.Request.Context(), session.Store); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"experienceId": session.Store.BoundExperienceID(), "isPublished": true})
}

// GetCanvas handles GET /api/v1/builder/sessions/:id/canvas - editable HTML
// of the session's current screen.
func (h *BuilderHandlers) GetCanvas(c *gin.Context) {
	session, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	html := templates.RenderScreen(session.Store.CurrentScreen(), templates.ModeEditable)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
