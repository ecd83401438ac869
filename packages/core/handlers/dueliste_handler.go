package handlers

import (
	"net/http"
	"strconv"

	"core/models"
	"core/services"

	authMiddleware "auth/middleware"

	"github.com/gin-gonic/gin"
)

type DuelisteHandler struct {
	duelisteService *services.DuelisteService
}

func NewDuelisteHandler(duelisteService *services.DuelisteService) *DuelisteHandler {
	return &DuelisteHandler{
		duelisteService: duelisteService,
	}
}

// GetAllDuellistes retrieves duellistes with pagination and filters
// @Summary Get duellistes
// @Description Get duellistes with optional categorie and statut filters, ordered by name
// @Tags duellistes
// @Produce json
// @Param page query int false "Page number (default: 1)" default(1)
// @Param per_page query int false "Items per page (default: 20, max: 100)" default(20)
// @Param categorie query string false "Filter by categorie" Enums(JUNIOR,SENIOR)
// @Param statut query string false "Filter by statut" Enums(ACTIF,INACTIF,SUSPENDU)
// @Success 200 {object} models.PaginatedDuellistesResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /duellistes [get]
func (h *DuelisteHandler) GetAllDuellistes(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	perPageStr := c.DefaultQuery("per_page", "20")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter"})
		return
	}

	perPage, err := strconv.Atoi(perPageStr)
	if err != nil || perPage < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid per_page parameter"})
		return
	}

	if perPage > 100 {
		perPage = 100
	}

	categorie := c.Query("categorie")
	statut := c.Query("statut")

	result, err := h.duelisteService.GetAllDuellistes(categorie, statut, page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve duellistes"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDueliste retrieves a dueliste by ID
// @Summary Get a dueliste
// @Description Get a dueliste by ID
// @Tags duellistes
// @Produce json
// @Param id path int true "Dueliste ID"
// @Success 200 {object} models.Dueliste
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duellistes/{id} [get]
func (h *DuelisteHandler) GetDueliste(c *gin.Context) {
	duelisteID, ok := parseDuelisteID(c)
	if !ok {
		return
	}

	dueliste, err := h.duelisteService.GetDuelisteByID(duelisteID)
	if err != nil {
		respondError(c, err, "Failed to retrieve dueliste")
		return
	}

	c.JSON(http.StatusOK, dueliste)
}

// GetDuelisteDuels retrieves the duels of a dueliste
// @Summary Get the duels of a dueliste
// @Description Get paginated duels where the dueliste is challenger or adversaire, filterable on victoires/defaites
// @Tags duellistes
// @Produce json
// @Param id path int true "Dueliste ID"
// @Param filter query string false "Filter" Enums(victoires,defaites)
// @Param page query int false "Page number (default: 1)" default(1)
// @Param per_page query int false "Items per page (default: 10, max: 100)" default(10)
// @Success 200 {object} models.PaginatedDuelsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duellistes/{id}/duels [get]
func (h *DuelisteHandler) GetDuelisteDuels(c *gin.Context) {
	duelisteID, ok := parseDuelisteID(c)
	if !ok {
		return
	}

	filter := c.Query("filter")
	if filter != "" && filter != "victoires" && filter != "defaites" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter. Must be victoires or defaites"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page parameter"})
		return
	}

	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if err != nil || perPage < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid per_page parameter"})
		return
	}
	if perPage > 100 {
		perPage = 100
	}

	result, err := h.duelisteService.GetDuelsForDueliste(duelisteID, filter, page, perPage)
	if err != nil {
		respondError(c, err, "Failed to retrieve duels")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateDueliste updates a dueliste profile
// @Summary Update a dueliste
// @Description Update categorie, statut or avatar. A dueliste can only update their own profile.
// @Tags duellistes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Dueliste ID"
// @Param update body models.UpdateDuelisteRequest true "Fields to update"
// @Success 200 {object} models.Dueliste
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duellistes/{id} [put]
func (h *DuelisteHandler) UpdateDueliste(c *gin.Context) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	duelisteID, ok := parseDuelisteID(c)
	if !ok {
		return
	}

	if duelisteID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own profile"})
		return
	}

	var req models.UpdateDuelisteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	dueliste, err := h.duelisteService.UpdateDueliste(duelisteID, req)
	if err != nil {
		respondError(c, err, "Failed to update dueliste")
		return
	}

	c.JSON(http.StatusOK, dueliste)
}

func parseDuelisteID(c *gin.Context) (uint, bool) {
	duelisteIDStr := c.Param("id")
	duelisteID, err := strconv.ParseUint(duelisteIDStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueliste ID"})
		return 0, false
	}
	return uint(duelisteID), true
}
