package handlers

import (
	"net/http"
	"strconv"

	"core/models"
	"core/services"

	"github.com/gin-gonic/gin"
)

type ClassementHandler struct {
	classementService *services.ClassementService
}

func NewClassementHandler(classementService *services.ClassementService) *ClassementHandler {
	return &ClassementHandler{
		classementService: classementService,
	}
}

// GetClassement retrieves the leaderboard of active duellistes
// @Summary Get the leaderboard
// @Description Get the ranked leaderboard of ACTIF duellistes, sorted by points, wins, touch index and name
// @Tags classement
// @Produce json
// @Param categorie query string false "Filter by categorie" Enums(JUNIOR,SENIOR)
// @Success 200 {array} models.ClassementEntry
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /classement [get]
func (h *ClassementHandler) GetClassement(c *gin.Context) {
	categorie := c.Query("categorie")
	if categorie != "" && categorie != models.CategorieJunior && categorie != models.CategorieSenior {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid categorie. Must be JUNIOR or SENIOR"})
		return
	}

	classement, err := h.classementService.GetClassement(categorie)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute classement"})
		return
	}

	c.JSON(http.StatusOK, classement)
}

// GetClassementJunior retrieves the junior leaderboard
// @Summary Get the junior leaderboard
// @Description Get the leaderboard restricted to the JUNIOR categorie
// @Tags classement
// @Produce json
// @Success 200 {array} models.ClassementEntry
// @Failure 500 {object} map[string]string
// @Router /classement/junior [get]
func (h *ClassementHandler) GetClassementJunior(c *gin.Context) {
	classement, err := h.classementService.GetClassementJunior()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute classement"})
		return
	}

	c.JSON(http.StatusOK, classement)
}

// GetDuelisteDetail retrieves the detailed view of a dueliste
// @Summary Get dueliste detail
// @Description Get a dueliste with per-opponent breakdown and current streak over validated duels
// @Tags classement
// @Produce json
// @Param id path int true "Dueliste ID"
// @Success 200 {object} models.DuelisteDetail
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /classement/dueliste/{id} [get]
func (h *ClassementHandler) GetDuelisteDetail(c *gin.Context) {
	duelisteIDStr := c.Param("id")
	duelisteID, err := strconv.ParseUint(duelisteIDStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueliste ID"})
		return
	}

	detail, err := h.classementService.GetDuelisteDetail(uint(duelisteID))
	if err != nil {
		respondError(c, err, "Failed to retrieve dueliste detail")
		return
	}

	c.JSON(http.StatusOK, detail)
}
