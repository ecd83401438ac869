package handlers

import (
	"errors"
	"net/http"

	"core/apperr"

	"github.com/gin-gonic/gin"
)

// respondError traduit un kind d'erreur métier en statut HTTP :
// NotFound→404, Forbidden→403, les autres kinds→400. Toute erreur non
// métier devient un 500 avec le message générique fourni.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.IsBusinessError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
