package services

import (
	"testing"
	"time"

	"core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	service := NewStatsService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	creerActif(t, db, 3, "Chloé")

	now := time.Now()
	creerDuelValide(t, db, 1, 2, 15, 10, now.Add(-time.Hour))

	propose := models.Duel{ChallengerID: 1, AdversaireID: 3, Statut: models.StatutDuelPropose}
	require.NoError(t, db.Create(&propose).Error)

	negociation := models.Duel{ChallengerID: 2, AdversaireID: 3, Statut: models.StatutDuelProposeScore}
	require.NoError(t, db.Create(&negociation).Error)

	ancien := models.Duel{
		ChallengerID: 1,
		AdversaireID: 3,
		Statut:       models.StatutDuelRefuse,
		CreatedAt:    now.AddDate(0, 0, -10),
	}
	require.NoError(t, db.Create(&ancien).Error)

	stats, err := service.GetStats()
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.TotalDuellistes)
	assert.EqualValues(t, 4, stats.TotalDuels)
	assert.EqualValues(t, 1, stats.DuelsValides)
	assert.EqualValues(t, 1, stats.DuelsEnNegociation)
	assert.EqualValues(t, 1, stats.InvitationsEnAttente)
	assert.EqualValues(t, 3, stats.DuelsLast7Days)
	assert.EqualValues(t, 1, stats.DuelsPrevious7Days)
}
