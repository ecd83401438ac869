package services

import (
	"testing"

	"core/apperr"
	"core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAdminService(db *gorm.DB) *AdminDuelService {
	return NewAdminDuelService(db, NewClassementService(db))
}

func TestForceValider(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)
	admin := newTestAdminService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel := duelAJouer(t, service)
	_, err := service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	// La validation forcée écrase la négociation en cours, quel que
	// soit l'auteur de la proposition.
	valide, err := admin.ForceValider(duel.ID, 10, 15, "désaccord persistant")
	require.NoError(t, err)

	assert.Equal(t, models.StatutDuelValide, valide.Statut)
	assert.True(t, valide.ValideParArbitre)
	assert.Equal(t, uint(2), *valide.VainqueurID)
	assert.Contains(t, valide.Notes, "désaccord persistant")
	assert.EqualValues(t, 0, compterValidations(t, db, duel.ID))

	// Les compteurs des deux participants sont recalculés.
	assert.Equal(t, 1, rechargerDueliste(t, db, 2).NbVictoires)
	assert.Equal(t, 1, rechargerDueliste(t, db, 1).NbDefaites)
}

func TestForceValiderDejaValide(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)
	admin := newTestAdminService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel := duelAJouer(t, service)
	_, err := service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)
	_, err = service.ReportScore(duel.ID, 2, 15, 12)
	require.NoError(t, err)

	_, err = admin.ForceValider(duel.ID, 10, 15, "correction")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestForceValiderScoresInvalides(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)
	admin := newTestAdminService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	duel := duelAJouer(t, service)

	_, err := admin.ForceValider(duel.ID, 10, 10, "motif")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = admin.ForceValider(duel.ID, -1, 10, "motif")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestForceValiderIntrouvable(t *testing.T) {
	db := setupTestDB(t)
	admin := newTestAdminService(db)

	_, err := admin.ForceValider(99, 10, 15, "motif")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSupprimer(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)
	admin := newTestAdminService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel := duelAJouer(t, service)
	_, err := service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	require.NoError(t, admin.Supprimer(duel.ID, "doublon"))

	_, err = service.GetDuelByID(duel.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualValues(t, 0, compterValidations(t, db, duel.ID))
}

func TestSupprimerDuelValideLaisseLesCompteurs(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)
	admin := newTestAdminService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel := duelAJouer(t, service)
	_, err := service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)
	_, err = service.ReportScore(duel.ID, 2, 15, 12)
	require.NoError(t, err)

	require.NoError(t, admin.Supprimer(duel.ID, "saisi par erreur"))

	// La suppression ne recalcule rien : les compteurs restent figés
	// jusqu'au prochain RecalculerStats.
	assert.Equal(t, 1, rechargerDueliste(t, db, 1).NbVictoires)
	assert.Equal(t, 1, rechargerDueliste(t, db, 2).NbDefaites)

	require.NoError(t, NewClassementService(db).RecalculerStats(db, 1))
	assert.Equal(t, 0, rechargerDueliste(t, db, 1).NbVictoires)
}

func TestSupprimerIntrouvable(t *testing.T) {
	db := setupTestDB(t)
	admin := newTestAdminService(db)

	err := admin.Supprimer(99, "motif")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
