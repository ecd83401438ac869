package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"core/apperr"
	"core/models"

	"gorm.io/gorm"
)

// DuelService pilote le cycle de vie d'un duel : proposition, acceptation,
// négociation de score en double confirmation et validation. Toutes les
// transitions multi-écritures s'exécutent dans une transaction unique.
type DuelService struct {
	db            *gorm.DB
	classement    *ClassementService
	notifications NotificationService
}

func NewDuelService(db *gorm.DB, classement *ClassementService, notifications NotificationService) *DuelService {
	return &DuelService{
		db:            db,
		classement:    classement,
		notifications: notifications,
	}
}

// statutsEnCours sont les statuts qui bloquent une nouvelle acceptation
// entre la même paire de duellistes. Plusieurs PROPOSE simultanés entre
// la même paire restent permis.
var statutsEnCours = []string{
	models.StatutDuelAccepte,
	models.StatutDuelAJouer,
	models.StatutDuelEnAttenteValidation,
}

// Proposer crée un duel en PROPOSE entre le challenger et l'adversaire.
func (s *DuelService) Proposer(challengerID uint, req models.CreateDuelRequest) (*models.Duel, error) {
	if challengerID == req.AdversaireID {
		return nil, apperr.InvalidArgument("le challenger et l'adversaire doivent être différents")
	}

	var challenger, adversaire models.Dueliste
	if err := s.db.First(&challenger, challengerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("challenger %d introuvable", challengerID)
		}
		return nil, err
	}
	if err := s.db.First(&adversaire, req.AdversaireID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("adversaire %d introuvable", req.AdversaireID)
		}
		return nil, err
	}

	if !challenger.EstActif() {
		return nil, apperr.PreconditionFailed("le challenger %s n'est pas ACTIF", challenger.Nom)
	}
	if !adversaire.EstActif() {
		return nil, apperr.PreconditionFailed("l'adversaire %s n'est pas ACTIF", adversaire.Nom)
	}

	if req.ArbitreID != nil {
		var arbitre models.Dueliste
		if err := s.db.First(&arbitre, *req.ArbitreID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("arbitre %d introuvable", *req.ArbitreID)
			}
			return nil, err
		}
	}

	var enCours int64
	if err := s.db.Model(&models.Duel{}).
		Where("((challenger_id = ? AND adversaire_id = ?) OR (challenger_id = ? AND adversaire_id = ?)) AND statut IN ?",
			challengerID, req.AdversaireID, req.AdversaireID, challengerID, statutsEnCours).
		Count(&enCours).Error; err != nil {
		return nil, err
	}
	if enCours > 0 {
		return nil, apperr.Conflict("un duel est déjà en cours entre %s et %s", challenger.Nom, adversaire.Nom)
	}

	duel := models.Duel{
		ChallengerID: challengerID,
		AdversaireID: req.AdversaireID,
		ArbitreID:    req.ArbitreID,
		Statut:       models.StatutDuelPropose,
		DatePrevue:   req.DatePrevue,
		Notes:        req.Notes,
	}

	if err := s.db.Create(&duel).Error; err != nil {
		return nil, err
	}

	s.notifier(&adversaire, NotifInvitationRecue, "Nouveau défi",
		fmt.Sprintf("%s vous défie en duel.", challenger.Nom))

	return s.GetDuelByID(duel.ID)
}

// Accepter fait passer un duel de PROPOSE à A_JOUER. Seul l'adversaire
// désigné peut accepter.
func (s *DuelService) Accepter(duelID, duelisteID uint, req models.AccepterDuelRequest) (*models.Duel, error) {
	duel, err := s.getDuel(duelID)
	if err != nil {
		return nil, err
	}

	if duel.AdversaireID != duelisteID {
		return nil, apperr.Forbidden("seul l'adversaire désigné peut accepter ce duel")
	}
	if duel.Statut != models.StatutDuelPropose {
		return nil, apperr.PreconditionFailed("le duel n'est pas en PROPOSE")
	}

	now := time.Now()
	duel.Statut = models.StatutDuelAJouer
	duel.AccepteLe = &now
	if req.DatePrevue != nil {
		duel.DatePrevue = req.DatePrevue
	}

	if err := s.db.Save(duel).Error; err != nil {
		return nil, err
	}

	s.notifier(&duel.Challenger, NotifInvitationAcceptee, "Défi accepté",
		fmt.Sprintf("%s a accepté votre défi.", duel.Adversaire.Nom))

	return s.GetDuelByID(duel.ID)
}

// Refuser fait passer un duel de PROPOSE à REFUSE, état terminal sans
// effet sur les statistiques.
func (s *DuelService) Refuser(duelID, duelisteID uint, req models.RefuserDuelRequest) (*models.Duel, error) {
	duel, err := s.getDuel(duelID)
	if err != nil {
		return nil, err
	}

	if duel.AdversaireID != duelisteID {
		return nil, apperr.Forbidden("seul l'adversaire désigné peut refuser ce duel")
	}
	if duel.Statut != models.StatutDuelPropose {
		return nil, apperr.PreconditionFailed("le duel n'est pas en PROPOSE")
	}

	duel.Statut = models.StatutDuelRefuse
	if req.Motif != "" {
		duel.Notes = appendNote(duel.Notes, "Refusé : "+req.Motif)
	}

	if err := s.db.Save(duel).Error; err != nil {
		return nil, err
	}

	return s.GetDuelByID(duel.ID)
}

// statutsReportables sont les statuts dans lesquels un score peut être
// rapporté. EN_ATTENTE_VALIDATION n'est atteignable que par voie
// administrative mais reste un état de garde valide : seul un arbitre
// peut y rapporter un score.
var statutsReportables = []string{
	models.StatutDuelAccepte,
	models.StatutDuelAJouer,
	models.StatutDuelProposeScore,
	models.StatutDuelEnAttenteValidation,
}

// ReportScore est le point d'entrée unique de la négociation de score :
// premier report, acceptation par scores identiques, contre-proposition
// et validation immédiate par l'arbitre.
func (s *DuelService) ReportScore(duelID, duelisteID uint, scoreChallenger, scoreAdversaire int) (*models.Duel, error) {
	if scoreChallenger < 0 || scoreAdversaire < 0 {
		return nil, apperr.InvalidArgument("les scores doivent être positifs ou nuls")
	}
	if scoreChallenger == scoreAdversaire {
		return nil, apperr.InvalidArgument("les scores ne peuvent pas être égaux : pas de match nul")
	}

	duel, err := s.getDuel(duelID)
	if err != nil {
		return nil, err
	}

	if !duel.Participant(duelisteID) && !duel.EstArbitre(duelisteID) {
		return nil, apperr.Forbidden("seuls le challenger, l'adversaire ou l'arbitre peuvent rapporter un score")
	}
	if !statutReportable(duel.Statut) {
		return nil, apperr.PreconditionFailed("le statut %s ne permet pas de rapporter un score", duel.Statut)
	}

	// L'arbitre court-circuite la négociation : son report est
	// immédiatement définitif, quel que soit l'état courant.
	if duel.EstArbitre(duelisteID) {
		if err := s.validerDuel(duel, scoreChallenger, scoreAdversaire, true); err != nil {
			return nil, err
		}
		s.notifierResultat(duel)
		return s.GetDuelByID(duel.ID)
	}

	switch duel.Statut {
	case models.StatutDuelAccepte, models.StatutDuelAJouer:
		return s.premierReport(duel, duelisteID, scoreChallenger, scoreAdversaire)
	case models.StatutDuelProposeScore:
		return s.repondreProposition(duel, duelisteID, scoreChallenger, scoreAdversaire)
	default:
		// EN_ATTENTE_VALIDATION : seul un arbitre peut trancher un conflit.
		return nil, apperr.PreconditionFailed("le duel est en attente de validation par un arbitre")
	}
}

// premierReport enregistre la première proposition de score et fait
// passer le duel en PROPOSE_SCORE.
func (s *DuelService) premierReport(duel *models.Duel, duelisteID uint, scoreChallenger, scoreAdversaire int) (*models.Duel, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	validation := models.ScoreValidation{
		DuelID:          duel.ID,
		DuelisteID:      duelisteID,
		ScoreChallenger: scoreChallenger,
		ScoreAdversaire: scoreAdversaire,
	}
	if err := tx.Create(&validation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	duel.Statut = models.StatutDuelProposeScore
	duel.ScoreChallenger = &scoreChallenger
	duel.ScoreAdversaire = &scoreAdversaire
	if err := tx.Save(duel).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	autre := s.autreParticipant(duel, duelisteID)
	s.notifier(autre, NotifScoreSoumis, "Score proposé",
		fmt.Sprintf("Un score de %d-%d a été proposé pour votre duel. Confirmez-le ou proposez le vôtre.",
			scoreChallenger, scoreAdversaire))

	return s.GetDuelByID(duel.ID)
}

// repondreProposition traite la réponse à une proposition existante :
// scores identiques = acceptation et validation, scores différents =
// contre-proposition qui remplace la précédente.
func (s *DuelService) repondreProposition(duel *models.Duel, duelisteID uint, scoreChallenger, scoreAdversaire int) (*models.Duel, error) {
	var proposition models.ScoreValidation
	if err := s.db.Where("duel_id = ?", duel.ID).Order("created_at DESC").First(&proposition).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.PreconditionFailed("aucune proposition de score trouvée pour ce duel")
		}
		return nil, err
	}

	if proposition.DuelisteID == duelisteID {
		return nil, apperr.PreconditionFailed("vous ne pouvez pas répondre à votre propre proposition")
	}

	identiques := duel.ScoreChallenger != nil && duel.ScoreAdversaire != nil &&
		*duel.ScoreChallenger == scoreChallenger && *duel.ScoreAdversaire == scoreAdversaire

	if identiques {
		// Acceptation : second enregistrement puis validation.
		if err := s.accepterScores(duel, duelisteID, scoreChallenger, scoreAdversaire); err != nil {
			return nil, err
		}
		s.notifierResultat(duel)
		return s.GetDuelByID(duel.ID)
	}

	// Contre-proposition : remplace la proposition existante.
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("duel_id = ?", duel.ID).Delete(&models.ScoreValidation{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	contre := models.ScoreValidation{
		DuelID:          duel.ID,
		DuelisteID:      duelisteID,
		ScoreChallenger: scoreChallenger,
		ScoreAdversaire: scoreAdversaire,
	}
	if err := tx.Create(&contre).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	duel.ScoreChallenger = &scoreChallenger
	duel.ScoreAdversaire = &scoreAdversaire
	duel.Statut = models.StatutDuelProposeScore
	if err := tx.Save(duel).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	autre := s.autreParticipant(duel, duelisteID)
	s.notifier(autre, NotifScoreSoumis, "Contre-proposition de score",
		fmt.Sprintf("Un score de %d-%d a été contre-proposé pour votre duel.", scoreChallenger, scoreAdversaire))

	return s.GetDuelByID(duel.ID)
}

// accepterScores valide le duel après accord des deux parties : création
// du second enregistrement puis validation dans la même transaction.
func (s *DuelService) accepterScores(duel *models.Duel, duelisteID uint, scoreChallenger, scoreAdversaire int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		accord := models.ScoreValidation{
			DuelID:          duel.ID,
			DuelisteID:      duelisteID,
			ScoreChallenger: scoreChallenger,
			ScoreAdversaire: scoreAdversaire,
		}
		if err := tx.Create(&accord).Error; err != nil {
			return err
		}
		return s.validerDansTransaction(tx, duel, scoreChallenger, scoreAdversaire, false)
	})
}

// validerDuel valide le duel dans une transaction dédiée (chemin arbitre).
func (s *DuelService) validerDuel(duel *models.Duel, scoreChallenger, scoreAdversaire int, parArbitre bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.validerDansTransaction(tx, duel, scoreChallenger, scoreAdversaire, parArbitre)
	})
}

// validerDansTransaction pose l'état final du duel : purge des
// ScoreValidation, scores définitifs, vainqueur, horodatage, puis
// recalcul des statistiques des deux participants.
func (s *DuelService) validerDansTransaction(tx *gorm.DB, duel *models.Duel, scoreChallenger, scoreAdversaire int, parArbitre bool) error {
	if err := tx.Where("duel_id = ?", duel.ID).Delete(&models.ScoreValidation{}).Error; err != nil {
		return err
	}

	vainqueurID := duel.ChallengerID
	if scoreAdversaire > scoreChallenger {
		vainqueurID = duel.AdversaireID
	}

	now := time.Now()
	duel.Statut = models.StatutDuelValide
	duel.ScoreChallenger = &scoreChallenger
	duel.ScoreAdversaire = &scoreAdversaire
	duel.VainqueurID = &vainqueurID
	duel.ValideLe = &now
	duel.ValideParArbitre = parArbitre

	if err := tx.Save(duel).Error; err != nil {
		return err
	}

	if err := s.classement.RecalculerStats(tx, duel.ChallengerID); err != nil {
		return err
	}
	return s.classement.RecalculerStats(tx, duel.AdversaireID)
}

// GetProposition retourne la proposition de score en attente, vue par un
// des deux participants.
func (s *DuelService) GetProposition(duelID, duelisteID uint) (*models.PropositionResponse, error) {
	duel, err := s.getDuel(duelID)
	if err != nil {
		return nil, err
	}

	if duel.Statut != models.StatutDuelProposeScore {
		return nil, apperr.PreconditionFailed("aucune proposition de score en attente sur ce duel")
	}
	if !duel.Participant(duelisteID) {
		return nil, apperr.Forbidden("seuls les participants peuvent consulter la proposition")
	}

	var proposition models.ScoreValidation
	if err := s.db.Preload("Dueliste").Where("duel_id = ?", duel.ID).
		Order("created_at DESC").First(&proposition).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.PreconditionFailed("aucune proposition de score trouvée pour ce duel")
		}
		return nil, err
	}

	return &models.PropositionResponse{
		DuelID:          duel.ID,
		ScoreChallenger: proposition.ScoreChallenger,
		ScoreAdversaire: proposition.ScoreAdversaire,
		ProposeParID:    proposition.DuelisteID,
		ProposeParNom:   proposition.Dueliste.Nom,
		PeutRepondre:    proposition.DuelisteID != duelisteID,
	}, nil
}

// AccepterProposition accepte la proposition de score courante sans la
// ressaisir : équivalent d'un ReportScore avec les scores déjà stockés.
func (s *DuelService) AccepterProposition(duelID, duelisteID uint) (*models.Duel, error) {
	duel, err := s.getDuel(duelID)
	if err != nil {
		return nil, err
	}

	if duel.Statut != models.StatutDuelProposeScore {
		return nil, apperr.PreconditionFailed("aucune proposition de score en attente sur ce duel")
	}
	if duel.ScoreChallenger == nil || duel.ScoreAdversaire == nil {
		return nil, apperr.PreconditionFailed("aucune proposition de score trouvée pour ce duel")
	}

	return s.ReportScore(duelID, duelisteID, *duel.ScoreChallenger, *duel.ScoreAdversaire)
}

// DuelFilters regroupe les filtres de listing des duels.
type DuelFilters struct {
	Page       int
	PerPage    int
	DuelisteID *uint
	Statut     *string
	DateFrom   *time.Time
	DateTo     *time.Time
}

func (s *DuelService) GetDuels(filters DuelFilters) (*models.PaginatedDuelsResponse, error) {
	query := s.db.Model(&models.Duel{})

	if filters.DuelisteID != nil {
		query = query.Where("challenger_id = ? OR adversaire_id = ?", *filters.DuelisteID, *filters.DuelisteID)
	}
	if filters.Statut != nil {
		query = query.Where("statut = ?", *filters.Statut)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at < ?", filters.DateTo.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (filters.Page - 1) * filters.PerPage

	var duels []models.Duel
	if err := query.Order("created_at DESC").
		Preload("Challenger").
		Preload("Adversaire").
		Preload("Vainqueur").
		Offset(offset).
		Limit(filters.PerPage).
		Find(&duels).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filters.PerPage) - 1) / int64(filters.PerPage))

	return &models.PaginatedDuelsResponse{
		Data:       duels,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PerPage,
		TotalPages: totalPages,
	}, nil
}

func (s *DuelService) GetRecentDuels(limit int) ([]models.Duel, error) {
	var duels []models.Duel

	result := s.db.Order("created_at DESC").
		Limit(limit).
		Preload("Challenger").
		Preload("Adversaire").
		Preload("Vainqueur").
		Find(&duels)

	if result.Error != nil {
		return nil, result.Error
	}

	return duels, nil
}

func (s *DuelService) GetDuelByID(id uint) (*models.Duel, error) {
	var duel models.Duel
	if err := s.db.Preload("Challenger").
		Preload("Adversaire").
		Preload("Arbitre").
		Preload("Vainqueur").
		First(&duel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("duel %d introuvable", id)
		}
		return nil, err
	}
	return &duel, nil
}

// getDuel charge un duel avec ses participants pour les transitions.
func (s *DuelService) getDuel(id uint) (*models.Duel, error) {
	var duel models.Duel
	if err := s.db.Preload("Challenger").Preload("Adversaire").First(&duel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("duel %d introuvable", id)
		}
		return nil, err
	}
	return &duel, nil
}

func (s *DuelService) autreParticipant(duel *models.Duel, duelisteID uint) *models.Dueliste {
	if duel.ChallengerID == duelisteID {
		return &duel.Adversaire
	}
	return &duel.Challenger
}

// notifier envoie une notification best-effort : l'échec est loggé puis
// avalé, jamais propagé à la transition appelante.
func (s *DuelService) notifier(destinataire *models.Dueliste, kind, sujet, message string) {
	if err := s.notifications.Notify(destinataire, kind, sujet, message); err != nil {
		log.Printf("Notification [%s] to dueliste %d failed: %v", kind, destinataire.ID, err)
	}
}

// notifierResultat prévient les deux participants de l'issue du duel.
func (s *DuelService) notifierResultat(duel *models.Duel) {
	if duel.VainqueurID == nil || duel.ScoreChallenger == nil || duel.ScoreAdversaire == nil {
		return
	}

	score := fmt.Sprintf("%d-%d", *duel.ScoreChallenger, *duel.ScoreAdversaire)
	vainqueur, perdant := &duel.Challenger, &duel.Adversaire
	if *duel.VainqueurID == duel.AdversaireID {
		vainqueur, perdant = &duel.Adversaire, &duel.Challenger
	}

	s.notifier(vainqueur, NotifDuelTermine, "Victoire !",
		fmt.Sprintf("Vous avez remporté votre duel contre %s (%s).", perdant.Nom, score))
	s.notifier(perdant, NotifDuelTermine, "Défaite",
		fmt.Sprintf("Vous avez perdu votre duel contre %s (%s).", vainqueur.Nom, score))
}

func statutReportable(statut string) bool {
	for _, s := range statutsReportables {
		if s == statut {
			return true
		}
	}
	return false
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}
