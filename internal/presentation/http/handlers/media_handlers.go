package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/journeykit/journeykit-go/internal/infrastructure/media"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
)

// MediaHandlers contains the media upload HTTP handlers
type MediaHandlers struct {
	processor *media.UploadProcessor
	logger    *logging.ChanneledLogger
}

// NewMediaHandlers creates media handlers with injected dependencies
func NewMediaHandlers(processor *media.UploadProcessor, logger *logging.ChanneledLogger) *MediaHandlers {
	return &MediaHandlers{
		processor: processor,
		logger:    logger,
	}
}

// PostUpload handles POST /api/v1/media/upload - data-URL upload, returns a
// durable public URL for the stored file.
func (h *MediaHandlers) PostUpload(c *gin.Context) {
	start := time.Now()

	var req struct {
		Data     string `json:"data" binding:"required"`
		Filename string `json:"filename" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	url, err := h.processor.ProcessDataURL(req.Data, req.Filename, "uploads")
	if err != nil {
		h.logger.Media().Warn("Media upload rejected", "filename", req.Filename, "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Media().Info("Media upload stored", "filename", req.Filename, "url", url, "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"url": url})
}
