package fixtures

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	authModels "auth/models"
	authUtils "auth/utils"
	"core/models"
	"core/services"

	"gorm.io/gorm"
)

type Fixtures struct {
	db *gorm.DB
}

func NewFixtures(db *gorm.DB) *Fixtures {
	return &Fixtures{db: db}
}

// GenerateTestData crée un jeu de données complet : comptes, duellistes,
// duels dans les différents états et compteurs recalculés.
func (f *Fixtures) GenerateTestData() error {
	log.Println("Starting fixtures generation...")

	duellistes, err := f.generateDuellistes()
	if err != nil {
		return fmt.Errorf("failed to generate duellistes: %w", err)
	}

	duelsValides, err := f.generateDuelsValides(duellistes)
	if err != nil {
		return fmt.Errorf("failed to generate validated duels: %w", err)
	}

	duelsEnCours, err := f.generateDuelsEnCours(duellistes)
	if err != nil {
		return fmt.Errorf("failed to generate in-progress duels: %w", err)
	}

	if err := f.recalculerTousLesCompteurs(duellistes); err != nil {
		return fmt.Errorf("failed to recalculate counters: %w", err)
	}

	log.Println("Fixtures generated successfully!")
	log.Printf("Created %d duellistes, %d validated duels, %d in-progress duels",
		len(duellistes), len(duelsValides), len(duelsEnCours))
	return nil
}

func (f *Fixtures) generateDuellistes() ([]models.Dueliste, error) {
	type seed struct {
		nom       string
		categorie string
		statut    string
		admin     bool
	}

	seeds := []seed{
		{"Alexandre Dubois", models.CategorieSenior, models.StatutActif, true},
		{"Marie Lefevre", models.CategorieSenior, models.StatutActif, false},
		{"Julien Moreau", models.CategorieSenior, models.StatutActif, false},
		{"Sophie Bernard", models.CategorieJunior, models.StatutActif, false},
		{"Thomas Petit", models.CategorieJunior, models.StatutActif, false},
		{"Camille Roux", models.CategorieSenior, models.StatutActif, false},
		{"Nicolas Fournier", models.CategorieJunior, models.StatutActif, false},
		{"Laura Girard", models.CategorieSenior, models.StatutActif, false},
		{"Antoine Lambert", models.CategorieSenior, models.StatutInactif, false},
		{"Emma Bonnet", models.CategorieJunior, models.StatutSuspendu, false},
	}

	var duellistes []models.Dueliste

	for i, s := range seeds {
		hashedPassword, err := authUtils.HashPassword("password123")
		if err != nil {
			return nil, err
		}

		email := fmt.Sprintf("membre%d@club-duel.fr", i+1)
		userID := uint(i + 1) // IDs fixes 1, 2, 3, ...

		roles := authModels.GetDefaultRoles()
		if s.admin {
			roles = append(roles, authModels.RoleAdmin)
		}

		user := authModels.User{
			ID:       userID,
			Email:    email,
			Username: s.nom,
			Password: hashedPassword,
			Enabled:  true,
			Roles:    roles,
		}

		if err := f.db.Create(&user).Error; err != nil {
			return nil, err
		}

		dueliste := models.Dueliste{
			ID:        userID,
			Nom:       s.nom,
			Email:     &email,
			Categorie: s.categorie,
			Statut:    s.statut,
		}

		if err := f.db.Create(&dueliste).Error; err != nil {
			return nil, err
		}

		duellistes = append(duellistes, dueliste)
	}

	return duellistes, nil
}

// generateDuelsValides crée des duels terminés répartis sur les six
// dernières semaines, entre duellistes actifs uniquement.
func (f *Fixtures) generateDuelsValides(duellistes []models.Dueliste) ([]models.Duel, error) {
	actifs := filtrerActifs(duellistes)
	var duels []models.Duel

	for i := 0; i < 30; i++ {
		challenger := actifs[rand.Intn(len(actifs))] // #nosec G404
		adversaire := actifs[rand.Intn(len(actifs))] // #nosec G404
		if challenger.ID == adversaire.ID {
			continue
		}

		scoreChallenger := rand.Intn(15) + 1 // #nosec G404
		scoreAdversaire := rand.Intn(15) + 1 // #nosec G404
		if scoreChallenger == scoreAdversaire {
			scoreChallenger++
		}

		vainqueurID := challenger.ID
		if scoreAdversaire > scoreChallenger {
			vainqueurID = adversaire.ID
		}

		valideLe := time.Now().AddDate(0, 0, -rand.Intn(42)) // #nosec G404
		accepteLe := valideLe.AddDate(0, 0, -2)

		duel := models.Duel{
			ChallengerID:    challenger.ID,
			AdversaireID:    adversaire.ID,
			Statut:          models.StatutDuelValide,
			ScoreChallenger: &scoreChallenger,
			ScoreAdversaire: &scoreAdversaire,
			VainqueurID:     &vainqueurID,
			AccepteLe:       &accepteLe,
			ValideLe:        &valideLe,
		}

		// Un duel sur cinq est arbitré
		if i%5 == 0 {
			for _, a := range actifs {
				if a.ID != challenger.ID && a.ID != adversaire.ID {
					arbitreID := a.ID
					duel.ArbitreID = &arbitreID
					duel.ValideParArbitre = true
					break
				}
			}
		}

		if err := f.db.Create(&duel).Error; err != nil {
			return nil, err
		}
		duels = append(duels, duel)
	}

	return duels, nil
}

// generateDuelsEnCours crée des duels dans chaque état intermédiaire du
// cycle de vie pour exercer l'interface.
func (f *Fixtures) generateDuelsEnCours(duellistes []models.Dueliste) ([]models.Duel, error) {
	actifs := filtrerActifs(duellistes)
	if len(actifs) < 4 {
		return nil, fmt.Errorf("not enough active duellistes: %d", len(actifs))
	}

	var duels []models.Duel
	now := time.Now()

	// Invitations en attente, dont une datée pour déclencher une relance
	vieille := now.AddDate(0, 0, -10)
	invitations := []models.Duel{
		{ChallengerID: actifs[0].ID, AdversaireID: actifs[1].ID, Statut: models.StatutDuelPropose},
		{ChallengerID: actifs[2].ID, AdversaireID: actifs[3].ID, Statut: models.StatutDuelPropose, CreatedAt: vieille},
	}
	for i := range invitations {
		if err := f.db.Create(&invitations[i]).Error; err != nil {
			return nil, err
		}
		duels = append(duels, invitations[i])
	}

	// Duel accepté, à jouer
	accepteLe := now.AddDate(0, 0, -1)
	aJouer := models.Duel{
		ChallengerID: actifs[1].ID,
		AdversaireID: actifs[2].ID,
		Statut:       models.StatutDuelAJouer,
		AccepteLe:    &accepteLe,
	}
	if err := f.db.Create(&aJouer).Error; err != nil {
		return nil, err
	}
	duels = append(duels, aJouer)

	// Duel en négociation de score, avec la proposition du challenger
	scoreChallenger, scoreAdversaire := 15, 12
	enNegociation := models.Duel{
		ChallengerID:    actifs[3].ID,
		AdversaireID:    actifs[0].ID,
		Statut:          models.StatutDuelProposeScore,
		AccepteLe:       &accepteLe,
		ScoreChallenger: &scoreChallenger,
		ScoreAdversaire: &scoreAdversaire,
	}
	if err := f.db.Create(&enNegociation).Error; err != nil {
		return nil, err
	}
	validation := models.ScoreValidation{
		DuelID:          enNegociation.ID,
		DuelisteID:      actifs[3].ID,
		ScoreChallenger: scoreChallenger,
		ScoreAdversaire: scoreAdversaire,
	}
	if err := f.db.Create(&validation).Error; err != nil {
		return nil, err
	}
	duels = append(duels, enNegociation)

	// Duel refusé
	refuse := models.Duel{
		ChallengerID: actifs[0].ID,
		AdversaireID: actifs[2].ID,
		Statut:       models.StatutDuelRefuse,
		Notes:        "Refus : indisponible cette semaine",
	}
	if err := f.db.Create(&refuse).Error; err != nil {
		return nil, err
	}
	duels = append(duels, refuse)

	return duels, nil
}

func (f *Fixtures) recalculerTousLesCompteurs(duellistes []models.Dueliste) error {
	classement := services.NewClassementService(f.db)
	for _, d := range duellistes {
		if err := classement.RecalculerStats(f.db, d.ID); err != nil {
			return err
		}
	}
	return nil
}

func filtrerActifs(duellistes []models.Dueliste) []models.Dueliste {
	var actifs []models.Dueliste
	for _, d := range duellistes {
		if d.EstActif() {
			actifs = append(actifs, d)
		}
	}
	return actifs
}

// ClearAllData vide toutes les tables de données dans l'ordre des
// dépendances.
func (f *Fixtures) ClearAllData() error {
	log.Println("Clearing all fixture data...")

	tables := []string{
		"score_validations",
		"duels",
		"duellistes",
		"refresh_tokens",
		"users",
	}

	for _, table := range tables {
		if err := f.db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	log.Println("All fixture data cleared")
	return nil
}
