package handlers

import (
	"net/http"

	"core/models"
	"core/services"

	"github.com/gin-gonic/gin"
)

// AdminDuelHandler expose les interventions administratives sur les
// duels. Les routes sont protégées par RequireRole(admin) en amont.
type AdminDuelHandler struct {
	adminDuelService *services.AdminDuelService
}

func NewAdminDuelHandler(adminDuelService *services.AdminDuelService) *AdminDuelHandler {
	return &AdminDuelHandler{
		adminDuelService: adminDuelService,
	}
}

// ForceValider forces a duel into VALIDE state
// @Summary Force-validate a duel
// @Description Force a duel into VALIDE with the given scores, bypassing the negotiation. Admin only.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Duel ID"
// @Param validation body models.ForceValiderRequest true "Scores and reason"
// @Success 200 {object} models.Duel
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/duels/{id}/valider [put]
func (h *AdminDuelHandler) ForceValider(c *gin.Context) {
	duelID, ok := parseDuelID(c)
	if !ok {
		return
	}

	var req models.ForceValiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	duel, err := h.adminDuelService.ForceValider(duelID, *req.ScoreChallenger, *req.ScoreAdversaire, req.Motif)
	if err != nil {
		respondError(c, err, "Failed to force-validate duel")
		return
	}

	c.JSON(http.StatusOK, duel)
}

// SupprimerDuel deletes a duel
// @Summary Delete a duel
// @Description Delete a duel and its score validations, whatever its state. Admin only.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Duel ID"
// @Param motif query string false "Deletion reason"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/duels/{id} [delete]
func (h *AdminDuelHandler) SupprimerDuel(c *gin.Context) {
	duelID, ok := parseDuelID(c)
	if !ok {
		return
	}

	if err := h.adminDuelService.Supprimer(duelID, c.Query("motif")); err != nil {
		respondError(c, err, "Failed to delete duel")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Duel deleted"})
}
