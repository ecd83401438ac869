package services

import (
	"testing"
	"time"

	"core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelancerInvitations(t *testing.T) {
	db := setupTestDB(t)
	notifier := &recordingNotifier{}
	service := NewRelanceService(db, notifier)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	vieille := time.Now().Add(-DelaiRelance - 24*time.Hour)
	stale := models.Duel{ChallengerID: 1, AdversaireID: 2, Statut: models.StatutDuelPropose, CreatedAt: vieille}
	require.NoError(t, db.Create(&stale).Error)

	recente := models.Duel{ChallengerID: 2, AdversaireID: 1, Statut: models.StatutDuelPropose}
	require.NoError(t, db.Create(&recente).Error)

	// Un duel déjà accepté n'est jamais relancé, même ancien.
	accepte := models.Duel{ChallengerID: 1, AdversaireID: 2, Statut: models.StatutDuelAJouer, CreatedAt: vieille}
	require.NoError(t, db.Create(&accepte).Error)

	count, err := service.GetStaleInvitationsCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, service.RelancerInvitations())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, uint(2), notifier.sent[0].DestinataireID)
	assert.Equal(t, NotifInvitationRecue, notifier.sent[0].Kind)

	// La relance ne mute jamais le duel.
	var relu models.Duel
	require.NoError(t, db.First(&relu, stale.ID).Error)
	assert.Equal(t, models.StatutDuelPropose, relu.Statut)
}

func TestRelancerInvitationsContinueApresEchec(t *testing.T) {
	db := setupTestDB(t)
	service := NewRelanceService(db, &failingNotifier{})

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	vieille := time.Now().Add(-DelaiRelance - 24*time.Hour)
	stale := models.Duel{ChallengerID: 1, AdversaireID: 2, Statut: models.StatutDuelPropose, CreatedAt: vieille}
	require.NoError(t, db.Create(&stale).Error)

	// Les échecs d'envoi sont loggés, pas propagés.
	require.NoError(t, service.RelancerInvitations())
}
