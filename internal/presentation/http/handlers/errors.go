// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/journeykit/journeykit-go/internal/apperror"
	"github.com/journeykit/journeykit-go/internal/domain/builder"
)

// respondError maps a classified service error onto its HTTP status.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, builder.ErrSaveInFlight):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
