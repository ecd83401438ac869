package services

import (
	"testing"

	"core/apperr"
	"core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposer(t *testing.T) {
	db := setupTestDB(t)
	service, notifier := newTestDuelService(db)

	challenger := creerActif(t, db, 1, "Alice")
	adversaire := creerActif(t, db, 2, "Bruno")

	duel, err := service.Proposer(challenger.ID, models.CreateDuelRequest{
		AdversaireID: adversaire.ID,
		Notes:        "Salle A, piste 2",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatutDuelPropose, duel.Statut)
	assert.Equal(t, challenger.ID, duel.ChallengerID)
	assert.Equal(t, adversaire.ID, duel.AdversaireID)
	assert.Nil(t, duel.ScoreChallenger)
	assert.Nil(t, duel.VainqueurID)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, adversaire.ID, notifier.sent[0].DestinataireID)
	assert.Equal(t, NotifInvitationRecue, notifier.sent[0].Kind)
}

func TestProposerContreSoiMeme(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")

	_, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 1})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestProposerAdversaireIntrouvable(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")

	_, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 99})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProposerMembreInactif(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerDueliste(t, db, 2, "Bruno", models.CategorieSenior, models.StatutSuspendu)

	_, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)
}

func TestProposerArbitreIntrouvable(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	arbitreID := uint(99)
	_, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2, ArbitreID: &arbitreID})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProposerPaireDejaEnCours(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)

	// Plusieurs invitations simultanées entre la même paire restent
	// permises tant qu'aucune n'est acceptée, dans les deux sens.
	_, err = service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)
	_, err = service.Proposer(2, models.CreateDuelRequest{AdversaireID: 1})
	require.NoError(t, err)

	_, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	require.NoError(t, err)

	// Une fois un duel accepté, la paire est verrouillée dans les deux sens.
	_, err = service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, err = service.Proposer(2, models.CreateDuelRequest{AdversaireID: 1})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Un duel contre un tiers reste possible.
	creerActif(t, db, 3, "Chloé")
	_, err = service.Proposer(1, models.CreateDuelRequest{AdversaireID: 3})
	require.NoError(t, err)
}

func TestAccepter(t *testing.T) {
	db := setupTestDB(t)
	service, notifier := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)

	accepte, err := service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.StatutDuelAJouer, accepte.Statut)
	require.NotNil(t, accepte.AccepteLe)

	derniere := notifier.sent[len(notifier.sent)-1]
	assert.Equal(t, uint(1), derniere.DestinataireID)
	assert.Equal(t, NotifInvitationAcceptee, derniere.Kind)
}

func TestAccepterParMauvaisActeur(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	creerActif(t, db, 3, "Chloé")

	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)

	// Ni le challenger ni un tiers ne peuvent accepter.
	_, err = service.Accepter(duel.ID, 1, models.AccepterDuelRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = service.Accepter(duel.ID, 3, models.AccepterDuelRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestAccepterHorsPropose(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)

	_, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	require.NoError(t, err)

	_, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)
}

func TestRefuser(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)

	refuse, err := service.Refuser(duel.ID, 2, models.RefuserDuelRequest{Motif: "indisponible"})
	require.NoError(t, err)

	assert.Equal(t, models.StatutDuelRefuse, refuse.Statut)
	assert.Contains(t, refuse.Notes, "indisponible")

	// REFUSE est terminal : aucune transition n'en repart.
	_, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)
	_, err = service.ReportScore(duel.ID, 2, 15, 10)
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)

	// Le refus ne touche pas aux compteurs.
	assert.Equal(t, 0, rechargerDueliste(t, db, 1).NbMatchsTotal)
	assert.Equal(t, 0, rechargerDueliste(t, db, 2).NbMatchsTotal)
}

// duelAJouer crée un duel accepté entre les duellistes 1 et 2.
func duelAJouer(t *testing.T, service *DuelService) *models.Duel {
	t.Helper()

	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)
	duel, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	require.NoError(t, err)
	return duel
}

func TestReportScorePremierReport(t *testing.T) {
	db := setupTestDB(t)
	service, notifier := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	duel := duelAJouer(t, service)

	reporte, err := service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	assert.Equal(t, models.StatutDuelProposeScore, reporte.Statut)
	require.NotNil(t, reporte.ScoreChallenger)
	assert.Equal(t, 15, *reporte.ScoreChallenger)
	assert.Equal(t, 12, *reporte.ScoreAdversaire)
	assert.Nil(t, reporte.VainqueurID)
	assert.EqualValues(t, 1, compterValidations(t, db, duel.ID))

	// Rien n'est encore compté au classement.
	assert.Equal(t, 0, rechargerDueliste(t, db, 1).NbMatchsTotal)

	derniere := notifier.sent[len(notifier.sent)-1]
	assert.Equal(t, uint(2), derniere.DestinataireID)
	assert.Equal(t, NotifScoreSoumis, derniere.Kind)
}

func TestReportScoreAccordValide(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	duel := duelAJouer(t, service)

	_, err := service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	valide, err := service.ReportScore(duel.ID, 2, 15, 12)
	require.NoError(t, err)

	assert.Equal(t, models.StatutDuelValide, valide.Statut)
	require.NotNil(t, valide.VainqueurID)
	assert.Equal(t, uint(1), *valide.VainqueurID)
	require.NotNil(t, valide.ValideLe)
	assert.False(t, valide.ValideParArbitre)

	// La validation purge les enregistrements de négociation.
	assert.EqualValues(t, 0, compterValidations(t, db, duel.ID))

	// Les compteurs des deux participants sont recalculés.
	alice := rechargerDueliste(t, db, 1)
	bruno := rechargerDueliste(t, db, 2)
	assert.Equal(t, 1, alice.NbVictoires)
	assert.Equal(t, 0, alice.NbDefaites)
	assert.Equal(t, 1, alice.NbMatchsTotal)
	assert.Equal(t, 3, alice.IndiceTouches)
	assert.Equal(t, 0, bruno.NbVictoires)
	assert.Equal(t, 1, bruno.NbDefaites)
	assert.Equal(t, -3, bruno.IndiceTouches)
}

func TestReportScoreContreProposition(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	duel := duelAJouer(t, service)

	_, err := service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	// Bruno conteste : sa contre-proposition remplace la première.
	contre, err := service.ReportScore(duel.ID, 2, 12, 15)
	require.NoError(t, err)

	assert.Equal(t, models.StatutDuelProposeScore, contre.Statut)
	assert.Equal(t, 12, *contre.ScoreChallenger)
	assert.Equal(t, 15, *contre.ScoreAdversaire)
	assert.EqualValues(t, 1, compterValidations(t, db, duel.ID))

	var validation models.ScoreValidation
	require.NoError(t, db.Where("duel_id = ?", duel.ID).First(&validation).Error)
	assert.Equal(t, uint(2), validation.DuelisteID)

	// Alice accepte la contre-proposition : le duel se valide avec
	// Bruno vainqueur.
	valide, err := service.ReportScore(duel.ID, 1, 12, 15)
	require.NoError(t, err)
	assert.Equal(t, models.StatutDuelValide, valide.Statut)
	assert.Equal(t, uint(2), *valide.VainqueurID)
}

func TestReportScoreProprePropositon(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	duel := duelAJouer(t, service)

	_, err := service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	// L'auteur de la proposition ne peut ni la confirmer ni la modifier.
	_, err = service.ReportScore(duel.ID, 1, 15, 12)
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)
	_, err = service.ReportScore(duel.ID, 1, 15, 10)
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)

	// La proposition initiale reste seule en place.
	assert.EqualValues(t, 1, compterValidations(t, db, duel.ID))
}

func TestReportScoreInvalide(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	duel := duelAJouer(t, service)

	_, err := service.ReportScore(duel.ID, 1, 10, 10)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = service.ReportScore(duel.ID, 1, -1, 5)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	// Le contrôle des scores précède la résolution du duel : un score
	// invalide sur un duel inexistant reste une erreur de saisie.
	_, err = service.ReportScore(999, 1, 7, 7)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestReportScoreParTiers(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	creerActif(t, db, 3, "Chloé")
	duel := duelAJouer(t, service)

	_, err := service.ReportScore(duel.ID, 3, 15, 12)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestReportScoreArbitreCourtCircuit(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	arbitre := creerActif(t, db, 3, "Chloé")

	arbitreID := arbitre.ID
	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2, ArbitreID: &arbitreID})
	require.NoError(t, err)
	_, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	require.NoError(t, err)

	// Négociation en cours, puis l'arbitre tranche avec un score
	// différent de la proposition.
	_, err = service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	valide, err := service.ReportScore(duel.ID, arbitre.ID, 10, 15)
	require.NoError(t, err)

	assert.Equal(t, models.StatutDuelValide, valide.Statut)
	assert.True(t, valide.ValideParArbitre)
	assert.Equal(t, uint(2), *valide.VainqueurID)
	assert.EqualValues(t, 0, compterValidations(t, db, duel.ID))
}

func TestReportScoreArbitreDesAJouer(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	arbitre := creerActif(t, db, 3, "Chloé")

	arbitreID := arbitre.ID
	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2, ArbitreID: &arbitreID})
	require.NoError(t, err)
	_, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	require.NoError(t, err)

	// L'arbitre peut valider sans négociation préalable.
	valide, err := service.ReportScore(duel.ID, arbitre.ID, 15, 8)
	require.NoError(t, err)
	assert.Equal(t, models.StatutDuelValide, valide.Statut)
	assert.True(t, valide.ValideParArbitre)
}

func TestReportScoreEnAttenteValidation(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	arbitre := creerActif(t, db, 3, "Chloé")

	arbitreID := arbitre.ID
	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2, ArbitreID: &arbitreID})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Duel{}).Where("id = ?", duel.ID).
		Update("statut", models.StatutDuelEnAttenteValidation).Error)

	// Un participant ne peut plus rien rapporter, seul l'arbitre tranche.
	_, err = service.ReportScore(duel.ID, 1, 15, 12)
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)

	valide, err := service.ReportScore(duel.ID, arbitre.ID, 15, 12)
	require.NoError(t, err)
	assert.Equal(t, models.StatutDuelValide, valide.Statut)
}

func TestGetProposition(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	creerActif(t, db, 3, "Chloé")
	duel := duelAJouer(t, service)

	_, err := service.GetProposition(duel.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)

	_, err = service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	// Vue de l'auteur : il ne peut pas répondre.
	proposition, err := service.GetProposition(duel.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), proposition.ProposeParID)
	assert.Equal(t, "Alice", proposition.ProposeParNom)
	assert.Equal(t, 15, proposition.ScoreChallenger)
	assert.Equal(t, 12, proposition.ScoreAdversaire)
	assert.False(t, proposition.PeutRepondre)

	// Vue de l'autre participant : il peut répondre.
	proposition, err = service.GetProposition(duel.ID, 2)
	require.NoError(t, err)
	assert.True(t, proposition.PeutRepondre)

	_, err = service.GetProposition(duel.ID, 3)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestAccepterProposition(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	duel := duelAJouer(t, service)

	_, err := service.AccepterProposition(duel.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)

	_, err = service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	// L'auteur ne peut pas accepter sa propre proposition.
	_, err = service.AccepterProposition(duel.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrPreconditionFailed)

	valide, err := service.AccepterProposition(duel.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.StatutDuelValide, valide.Statut)
	assert.Equal(t, uint(1), *valide.VainqueurID)
}

func TestNotificationEnEchecNeBloquePas(t *testing.T) {
	db := setupTestDB(t)
	classement := NewClassementService(db)
	service := NewDuelService(db, classement, &failingNotifier{})

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")

	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)

	_, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	require.NoError(t, err)
	_, err = service.ReportScore(duel.ID, 1, 15, 12)
	require.NoError(t, err)

	valide, err := service.ReportScore(duel.ID, 2, 15, 12)
	require.NoError(t, err)
	assert.Equal(t, models.StatutDuelValide, valide.Statut)
}

func TestGetDuelsFiltres(t *testing.T) {
	db := setupTestDB(t)
	service, _ := newTestDuelService(db)

	creerActif(t, db, 1, "Alice")
	creerActif(t, db, 2, "Bruno")
	creerActif(t, db, 3, "Chloé")

	duel, err := service.Proposer(1, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)
	_, err = service.Proposer(3, models.CreateDuelRequest{AdversaireID: 2})
	require.NoError(t, err)
	_, err = service.Accepter(duel.ID, 2, models.AccepterDuelRequest{})
	require.NoError(t, err)

	statut := models.StatutDuelAJouer
	page, err := service.GetDuels(DuelFilters{Page: 1, PerPage: 10, Statut: &statut})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, duel.ID, page.Data[0].ID)

	aliceID := uint(1)
	page, err = service.GetDuels(DuelFilters{Page: 1, PerPage: 10, DuelisteID: &aliceID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	brunoID := uint(2)
	page, err = service.GetDuels(DuelFilters{Page: 1, PerPage: 10, DuelisteID: &brunoID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}
