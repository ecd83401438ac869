package services

import (
	"errors"
	"log"
	"time"

	"core/apperr"
	"core/models"

	"gorm.io/gorm"
)

// AdminDuelService regroupe les interventions administratives sur les
// duels : validation forcée et suppression, qui court-circuitent les
// contrôles d'acteur et d'état de la négociation normale.
type AdminDuelService struct {
	db         *gorm.DB
	classement *ClassementService
}

func NewAdminDuelService(db *gorm.DB, classement *ClassementService) *AdminDuelService {
	return &AdminDuelService{
		db:         db,
		classement: classement,
	}
}

// ForceValider force un duel en VALIDE avec les scores fournis, quel que
// soit son état courant. Le motif est ajouté aux notes du duel.
func (s *AdminDuelService) ForceValider(duelID uint, scoreChallenger, scoreAdversaire int, motif string) (*models.Duel, error) {
	var duel models.Duel
	if err := s.db.First(&duel, duelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("duel %d introuvable", duelID)
		}
		return nil, err
	}

	if duel.Statut == models.StatutDuelValide {
		return nil, apperr.Conflict("le duel est déjà VALIDE")
	}
	if scoreChallenger < 0 || scoreAdversaire < 0 {
		return nil, apperr.InvalidArgument("les scores doivent être positifs ou nuls")
	}
	if scoreChallenger == scoreAdversaire {
		return nil, apperr.InvalidArgument("les scores ne peuvent pas être égaux : pas de match nul")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
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
		duel.ValideParArbitre = true
		duel.Notes = appendNote(duel.Notes, "Validation admin : "+motif)

		if err := tx.Save(&duel).Error; err != nil {
			return err
		}

		if err := s.classement.RecalculerStats(tx, duel.ChallengerID); err != nil {
			return err
		}
		return s.classement.RecalculerStats(tx, duel.AdversaireID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Duel %d force-validé par un admin (%d-%d) : %s", duel.ID, scoreChallenger, scoreAdversaire, motif)

	return &duel, nil
}

// Supprimer efface un duel et ses ScoreValidation, quel que soit son état.
// Supprimer un duel VALIDE ne déclenche pas de recalcul : les compteurs
// des participants deviennent obsolètes jusqu'au prochain recalcul
// (limitation assumée, les ids sont loggés pour permettre une reprise
// manuelle via ClassementService.RecalculerStats).
func (s *AdminDuelService) Supprimer(duelID uint, motif string) error {
	var duel models.Duel
	if err := s.db.First(&duel, duelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("duel %d introuvable", duelID)
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("duel_id = ?", duel.ID).Delete(&models.ScoreValidation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&duel).Error
	})
	if err != nil {
		return err
	}

	if motif == "" {
		motif = "aucun motif"
	}
	log.Printf("Duel %d supprimé par un admin (statut %s, participants %d/%d) : %s",
		duel.ID, duel.Statut, duel.ChallengerID, duel.AdversaireID, motif)

	return nil
}
