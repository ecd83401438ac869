package services

import (
	"errors"
	"testing"

	"core/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the duel schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Dueliste{},
		&models.Duel{},
		&models.ScoreValidation{},
	))

	return db
}

// recordingNotifier captures notifications instead of sending them.
type recordingNotifier struct {
	sent []sentNotification
}

type sentNotification struct {
	DestinataireID uint
	Kind           string
	Sujet          string
}

func (n *recordingNotifier) Notify(destinataire *models.Dueliste, kind, sujet, message string) error {
	n.sent = append(n.sent, sentNotification{
		DestinataireID: destinataire.ID,
		Kind:           kind,
		Sujet:          sujet,
	})
	return nil
}

// failingNotifier always fails, to verify transitions never depend on
// notification delivery.
type failingNotifier struct{}

func (n *failingNotifier) Notify(destinataire *models.Dueliste, kind, sujet, message string) error {
	return errors.New("smtp unreachable")
}

func creerDueliste(t *testing.T, db *gorm.DB, id uint, nom, categorie, statut string) *models.Dueliste {
	t.Helper()

	dueliste := &models.Dueliste{
		ID:        id,
		Nom:       nom,
		Categorie: categorie,
		Statut:    statut,
	}
	require.NoError(t, db.Create(dueliste).Error)
	return dueliste
}

func creerActif(t *testing.T, db *gorm.DB, id uint, nom string) *models.Dueliste {
	t.Helper()
	return creerDueliste(t, db, id, nom, models.CategorieSenior, models.StatutActif)
}

func newTestDuelService(db *gorm.DB) (*DuelService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	classement := NewClassementService(db)
	return NewDuelService(db, classement, notifier), notifier
}

func compterValidations(t *testing.T, db *gorm.DB, duelID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.ScoreValidation{}).Where("duel_id = ?", duelID).Count(&count).Error)
	return count
}

func rechargerDueliste(t *testing.T, db *gorm.DB, id uint) *models.Dueliste {
	t.Helper()

	var dueliste models.Dueliste
	require.NoError(t, db.First(&dueliste, id).Error)
	return &dueliste
}
