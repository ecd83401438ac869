package services

import (
	"fmt"
	"log"
	"time"

	"core/models"

	"gorm.io/gorm"
)

// Délai au-delà duquel une invitation PROPOSE sans réponse est relancée.
const DelaiRelance = 7 * 24 * time.Hour

// RelanceService relance les invitations restées sans réponse. Il ne
// mute jamais les duels : la double confirmation interdit toute
// acceptation automatique, la relance se limite à notifier l'adversaire.
type RelanceService struct {
	db            *gorm.DB
	notifications NotificationService
}

func NewRelanceService(db *gorm.DB, notifications NotificationService) *RelanceService {
	return &RelanceService{
		db:            db,
		notifications: notifications,
	}
}

// GetStaleInvitationsCount retourne le nombre d'invitations PROPOSE plus
// vieilles que le délai de relance.
func (s *RelanceService) GetStaleInvitationsCount() (int64, error) {
	cutoffTime := time.Now().Add(-DelaiRelance)

	var count int64
	result := s.db.Model(&models.Duel{}).
		Where("statut = ? AND created_at < ?", models.StatutDuelPropose, cutoffTime).
		Count(&count)

	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// RelancerInvitations notifie l'adversaire de chaque invitation restée
// en PROPOSE au-delà du délai de relance.
func (s *RelanceService) RelancerInvitations() error {
	cutoffTime := time.Now().Add(-DelaiRelance)

	var duels []models.Duel
	result := s.db.Preload("Challenger").Preload("Adversaire").
		Where("statut = ? AND created_at < ?", models.StatutDuelPropose, cutoffTime).
		Find(&duels)

	if result.Error != nil {
		log.Printf("Error finding stale invitations: %v", result.Error)
		return result.Error
	}

	if len(duels) == 0 {
		log.Println("No stale invitations found")
		return nil
	}

	log.Printf("Found %d stale invitations to follow up", len(duels))

	for _, duel := range duels {
		message := fmt.Sprintf("Le défi de %s du %s attend toujours votre réponse.",
			duel.Challenger.Nom, duel.CreatedAt.Format("02/01/2006"))

		if err := s.notifications.Notify(&duel.Adversaire, NotifInvitationRecue, "Défi en attente", message); err != nil {
			log.Printf("Error sending reminder for duel ID %d: %v", duel.ID, err)
			// Continue with other invitations even if one fails
			continue
		}

		log.Printf("Reminder sent for duel ID %d (created at %v)", duel.ID, duel.CreatedAt)
	}

	return nil
}
