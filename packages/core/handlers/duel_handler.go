package handlers

import (
	"net/http"
	"strconv"
	"time"

	"core/models"
	"core/services"

	authMiddleware "auth/middleware"

	"github.com/gin-gonic/gin"
)

type DuelHandler struct {
	duelService *services.DuelService
}

func NewDuelHandler(duelService *services.DuelService) *DuelHandler {
	return &DuelHandler{
		duelService: duelService,
	}
}

// GetDuels retrieves duels with pagination and filters
// @Summary Get duels with pagination and filters
// @Description Get duels with optional filters for dueliste, statut and date range
// @Tags duels
// @Produce json
// @Param page query int false "Page number (default: 1)" default(1)
// @Param per_page query int false "Items per page (default: 10, max: 100)" default(10)
// @Param dueliste_id query int false "Filter by dueliste ID (duels where dueliste is challenger or adversaire)"
// @Param statut query string false "Filter by duel statut" Enums(PROPOSE,A_JOUER,PROPOSE_SCORE,EN_ATTENTE_VALIDATION,VALIDE,REFUSE)
// @Param date_from query string false "Filter from date (YYYY-MM-DD format)"
// @Param date_to query string false "Filter to date (YYYY-MM-DD format)"
// @Success 200 {object} models.PaginatedDuelsResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /duels [get]
func (h *DuelHandler) GetDuels(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	perPageStr := c.DefaultQuery("per_page", "10")

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

	// Limit per_page to maximum 100
	if perPage > 100 {
		perPage = 100
	}

	filters := services.DuelFilters{
		Page:    page,
		PerPage: perPage,
	}

	if duelisteIDStr := c.Query("dueliste_id"); duelisteIDStr != "" {
		duelisteID, err := strconv.ParseUint(duelisteIDStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dueliste_id parameter"})
			return
		}
		duelisteIDUint := uint(duelisteID)
		filters.DuelisteID = &duelisteIDUint
	}

	if statut := c.Query("statut"); statut != "" {
		if !isValidStatut(statut) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid statut filter"})
			return
		}
		filters.Statut = &statut
	}

	if dateFromStr := c.Query("date_from"); dateFromStr != "" {
		dateFrom, err := time.Parse("2006-01-02", dateFromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from format. Use YYYY-MM-DD"})
			return
		}
		filters.DateFrom = &dateFrom
	}

	if dateToStr := c.Query("date_to"); dateToStr != "" {
		dateTo, err := time.Parse("2006-01-02", dateToStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to format. Use YYYY-MM-DD"})
			return
		}
		filters.DateTo = &dateTo
	}

	result, err := h.duelService.GetDuels(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve duels"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecentDuels retrieves the N most recent duels
// @Summary Get recent duels
// @Description Get the N most recent duels ordered by creation date (newest first)
// @Tags duels
// @Produce json
// @Param limit query int false "Number of duels to retrieve (default: 10, max: 100)"
// @Success 200 {array} models.Duel
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /duels/recent [get]
func (h *DuelHandler) GetRecentDuels(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	if limit > 100 {
		limit = 100
	}

	duels, err := h.duelService.GetRecentDuels(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent duels"})
		return
	}

	c.JSON(http.StatusOK, duels)
}

// GetDuel retrieves a duel by ID
// @Summary Get a duel
// @Description Get a duel with its participants, arbitre and vainqueur
// @Tags duels
// @Produce json
// @Param id path int true "Duel ID"
// @Success 200 {object} models.Duel
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duels/{id} [get]
func (h *DuelHandler) GetDuel(c *gin.Context) {
	duelID, ok := parseDuelID(c)
	if !ok {
		return
	}

	duel, err := h.duelService.GetDuelByID(duelID)
	if err != nil {
		respondError(c, err, "Failed to retrieve duel")
		return
	}

	c.JSON(http.StatusOK, duel)
}

// CreateDuel proposes a new duel
// @Summary Propose a new duel
// @Description Propose a duel to another dueliste. The authenticated dueliste is the challenger.
// @Tags duels
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param duel body models.CreateDuelRequest true "Duel proposal"
// @Success 201 {object} models.Duel
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /duels [post]
func (h *DuelHandler) CreateDuel(c *gin.Context) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.CreateDuelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	duel, err := h.duelService.Proposer(userID, req)
	if err != nil {
		respondError(c, err, "Failed to create duel")
		return
	}

	c.JSON(http.StatusCreated, duel)
}

// AccepterDuel accepts a proposed duel
// @Summary Accept a duel
// @Description Accept a PROPOSE duel. Only the designated adversaire can accept.
// @Tags duels
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Duel ID"
// @Param accept body models.AccepterDuelRequest false "Optional scheduled date"
// @Success 200 {object} models.Duel
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duels/{id}/accepter [put]
func (h *DuelHandler) AccepterDuel(c *gin.Context) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	duelID, ok := parseDuelID(c)
	if !ok {
		return
	}

	var req models.AccepterDuelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	duel, err := h.duelService.Accepter(duelID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to accept duel")
		return
	}

	c.JSON(http.StatusOK, duel)
}

// RefuserDuel refuses a proposed duel
// @Summary Refuse a duel
// @Description Refuse a PROPOSE duel. Only the designated adversaire can refuse.
// @Tags duels
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Duel ID"
// @Param refuse body models.RefuserDuelRequest false "Optional refusal reason"
// @Success 200 {object} models.Duel
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duels/{id}/refuser [put]
func (h *DuelHandler) RefuserDuel(c *gin.Context) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	duelID, ok := parseDuelID(c)
	if !ok {
		return
	}

	var req models.RefuserDuelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	duel, err := h.duelService.Refuser(duelID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to refuse duel")
		return
	}

	c.JSON(http.StatusOK, duel)
}

// ReportScore reports a score for a duel
// @Summary Report a score
// @Description Report a score for a duel. Covers first report, counter-proposal, acceptance by identical scores and immediate arbitrator validation.
// @Tags duels
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Duel ID"
// @Param score body models.ReportScoreRequest true "Asserted scores"
// @Success 200 {object} models.Duel
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duels/{id}/score [put]
func (h *DuelHandler) ReportScore(c *gin.Context) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	duelID, ok := parseDuelID(c)
	if !ok {
		return
	}

	var req models.ReportScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	duel, err := h.duelService.ReportScore(duelID, userID, *req.ScoreChallenger, *req.ScoreAdversaire)
	if err != nil {
		respondError(c, err, "Failed to report score")
		return
	}

	c.JSON(http.StatusOK, duel)
}

// GetProposition retrieves the pending score proposal on a duel
// @Summary Get the pending score proposal
// @Description Get the pending score proposal of a PROPOSE_SCORE duel. Only participants may consult it.
// @Tags duels
// @Security BearerAuth
// @Produce json
// @Param id path int true "Duel ID"
// @Success 200 {object} models.PropositionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duels/{id}/proposition [get]
func (h *DuelHandler) GetProposition(c *gin.Context) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	duelID, ok := parseDuelID(c)
	if !ok {
		return
	}

	proposition, err := h.duelService.GetProposition(duelID, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve proposition")
		return
	}

	c.JSON(http.StatusOK, proposition)
}

// AccepterProposition accepts the pending score proposal as-is
// @Summary Accept the pending score proposal
// @Description Accept the pending score proposal without re-typing the scores, validating the duel.
// @Tags duels
// @Security BearerAuth
// @Produce json
// @Param id path int true "Duel ID"
// @Success 200 {object} models.Duel
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /duels/{id}/accepter-proposition [put]
func (h *DuelHandler) AccepterProposition(c *gin.Context) {
	userID, exists := authMiddleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	duelID, ok := parseDuelID(c)
	if !ok {
		return
	}

	duel, err := h.duelService.AccepterProposition(duelID, userID)
	if err != nil {
		respondError(c, err, "Failed to accept proposition")
		return
	}

	c.JSON(http.StatusOK, duel)
}

func parseDuelID(c *gin.Context) (uint, bool) {
	duelIDStr := c.Param("id")
	duelID, err := strconv.ParseUint(duelIDStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duel ID"})
		return 0, false
	}
	return uint(duelID), true
}

func isValidStatut(statut string) bool {
	switch statut {
	case models.StatutDuelPropose, models.StatutDuelAccepte, models.StatutDuelAJouer,
		models.StatutDuelProposeScore, models.StatutDuelEnAttenteValidation,
		models.StatutDuelValide, models.StatutDuelRefuse:
		return true
	}
	return false
}
