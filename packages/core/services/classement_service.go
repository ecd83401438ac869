package services

import (
	"errors"
	"math"
	"sort"

	"core/apperr"
	"core/models"

	"gorm.io/gorm"
)

// Points attribués au classement : une victoire rapporte 3 points,
// une défaite jouée rapporte tout de même 1 point.
const (
	PointsVictoire = 3
	PointsDefaite  = 1
)

type ClassementService struct {
	db *gorm.DB
}

func NewClassementService(db *gorm.DB) *ClassementService {
	return &ClassementService{
		db: db,
	}
}

// RecalculerStats recalcule intégralement les compteurs d'un dueliste à
// partir de ses duels VALIDE. Idempotent : relancer sans changement de
// duels produit exactement les mêmes compteurs. C'est le seul endroit du
// code qui écrit nb_victoires / nb_defaites / nb_matchs_total /
// indice_touches.
//
// Le tx passé en paramètre permet d'exécuter le recalcul dans la même
// transaction que la validation qui l'a déclenché.
func (s *ClassementService) RecalculerStats(tx *gorm.DB, duelisteID uint) error {
	var duels []models.Duel
	if err := tx.Where("(challenger_id = ? OR adversaire_id = ?) AND statut = ?",
		duelisteID, duelisteID, models.StatutDuelValide).Find(&duels).Error; err != nil {
		return err
	}

	victoires := 0
	defaites := 0
	indiceTouches := 0

	for _, duel := range duels {
		if duel.VainqueurID == nil || duel.ScoreChallenger == nil || duel.ScoreAdversaire == nil {
			// Un duel VALIDE a toujours scores et vainqueur ; on ignore
			// les lignes corrompues plutôt que de fausser les compteurs.
			continue
		}

		if *duel.VainqueurID == duelisteID {
			victoires++
		} else {
			defaites++
		}

		if duel.ChallengerID == duelisteID {
			indiceTouches += *duel.ScoreChallenger - *duel.ScoreAdversaire
		} else {
			indiceTouches += *duel.ScoreAdversaire - *duel.ScoreChallenger
		}
	}

	return tx.Model(&models.Dueliste{}).Where("id = ?", duelisteID).Updates(map[string]interface{}{
		"nb_victoires":    victoires,
		"nb_defaites":     defaites,
		"nb_matchs_total": victoires + defaites,
		"indice_touches":  indiceTouches,
	}).Error
}

// GetClassement calcule le classement des duellistes ACTIF, optionnellement
// filtré par catégorie. Tri strict : points décroissants, puis victoires,
// puis indice de touches, puis nom croissant.
func (s *ClassementService) GetClassement(categorie string) ([]models.ClassementEntry, error) {
	query := s.db.Where("statut = ?", models.StatutActif)
	if categorie != "" {
		query = query.Where("categorie = ?", categorie)
	}

	var duellistes []models.Dueliste
	if err := query.Find(&duellistes).Error; err != nil {
		return nil, err
	}

	entries := make([]models.ClassementEntry, 0, len(duellistes))
	for _, d := range duellistes {
		winRate, err := s.calculerWinRate(d.ID, d.NbVictoires)
		if err != nil {
			return nil, err
		}

		entries = append(entries, models.ClassementEntry{
			DuelisteID:    d.ID,
			Nom:           d.Nom,
			Avatar:        d.Avatar,
			Categorie:     d.Categorie,
			NbVictoires:   d.NbVictoires,
			NbDefaites:    d.NbDefaites,
			NbMatchsTotal: d.NbMatchsTotal,
			IndiceTouches: d.IndiceTouches,
			TotalPoints:   d.NbVictoires*PointsVictoire + d.NbDefaites*PointsDefaite,
			WinRate:       winRate,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.NbVictoires != b.NbVictoires {
			return a.NbVictoires > b.NbVictoires
		}
		if a.IndiceTouches != b.IndiceTouches {
			return a.IndiceTouches > b.IndiceTouches
		}
		return a.Nom < b.Nom
	})

	for i := range entries {
		entries[i].Rang = i + 1
	}

	return entries, nil
}

// GetClassementJunior est le classement restreint à la catégorie JUNIOR.
func (s *ClassementService) GetClassementJunior() ([]models.ClassementEntry, error) {
	return s.GetClassement(models.CategorieJunior)
}

// calculerWinRate calcule le taux de victoire en pourcentage, arrondi à
// 2 décimales. Le dénominateur est recompté depuis les duels VALIDE au
// moment de la requête, pas lu depuis nb_matchs_total.
func (s *ClassementService) calculerWinRate(duelisteID uint, victoires int) (float64, error) {
	var participations int64
	if err := s.db.Model(&models.Duel{}).
		Where("(challenger_id = ? OR adversaire_id = ?) AND statut = ?",
			duelisteID, duelisteID, models.StatutDuelValide).
		Count(&participations).Error; err != nil {
		return 0, err
	}

	if participations == 0 {
		return 0, nil
	}

	rate := float64(victoires) / float64(participations) * 100
	return math.Round(rate*100) / 100, nil
}

// GetDuelisteDetail retourne la vue détaillée d'un dueliste : bilan par
// adversaire et série en cours sur les duels VALIDE.
func (s *ClassementService) GetDuelisteDetail(duelisteID uint) (*models.DuelisteDetail, error) {
	var dueliste models.Dueliste
	if err := s.db.First(&dueliste, duelisteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("dueliste %d introuvable", duelisteID)
		}
		return nil, err
	}

	var duels []models.Duel
	if err := s.db.Where("(challenger_id = ? OR adversaire_id = ?) AND statut = ?",
		duelisteID, duelisteID, models.StatutDuelValide).
		Order("valide_le DESC").
		Find(&duels).Error; err != nil {
		return nil, err
	}

	winRate, err := s.calculerWinRate(duelisteID, dueliste.NbVictoires)
	if err != nil {
		return nil, err
	}

	detail := &models.DuelisteDetail{
		Dueliste:        dueliste,
		TotalPoints:     dueliste.NbVictoires*PointsVictoire + dueliste.NbDefaites*PointsDefaite,
		WinRate:         winRate,
		BilanAdversaire: bilanParAdversaire(duels, duelisteID),
	}
	detail.SerieEnCours, detail.SerieType = serieEnCours(duels, duelisteID)

	if len(detail.BilanAdversaire) > 0 {
		ids := make([]uint, 0, len(detail.BilanAdversaire))
		for _, b := range detail.BilanAdversaire {
			ids = append(ids, b.AdversaireID)
		}
		var adversaires []models.Dueliste
		if err := s.db.Where("id IN ?", ids).Find(&adversaires).Error; err != nil {
			return nil, err
		}
		noms := make(map[uint]string, len(adversaires))
		for _, a := range adversaires {
			noms[a.ID] = a.Nom
		}
		for i := range detail.BilanAdversaire {
			detail.BilanAdversaire[i].Nom = noms[detail.BilanAdversaire[i].AdversaireID]
		}
	}

	return detail, nil
}

// bilanParAdversaire agrège les victoires et défaites par adversaire
// distinct, ordonné par id d'adversaire croissant.
func bilanParAdversaire(duels []models.Duel, duelisteID uint) []models.BilanAdversaire {
	parAdversaire := make(map[uint]*models.BilanAdversaire)

	for _, duel := range duels {
		if duel.VainqueurID == nil {
			continue
		}

		adversaireID := duel.ChallengerID
		if duel.ChallengerID == duelisteID {
			adversaireID = duel.AdversaireID
		}

		bilan, ok := parAdversaire[adversaireID]
		if !ok {
			bilan = &models.BilanAdversaire{AdversaireID: adversaireID}
			parAdversaire[adversaireID] = bilan
		}

		if *duel.VainqueurID == duelisteID {
			bilan.Victoires++
		} else {
			bilan.Defaites++
		}
	}

	ids := make([]uint, 0, len(parAdversaire))
	for id := range parAdversaire {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	bilans := make([]models.BilanAdversaire, 0, len(ids))
	for _, id := range ids {
		bilans = append(bilans, *parAdversaire[id])
	}

	return bilans
}

// serieEnCours compte les duels validés consécutifs les plus récents de
// même issue, en partant du dernier résultat. Les duels sont attendus
// triés par valide_le décroissant.
func serieEnCours(duels []models.Duel, duelisteID uint) (int, string) {
	serie := 0
	serieType := ""

	for _, duel := range duels {
		if duel.VainqueurID == nil {
			continue
		}

		issue := "defaite"
		if *duel.VainqueurID == duelisteID {
			issue = "victoire"
		}

		if serieType == "" {
			serieType = issue
		}
		if issue != serieType {
			break
		}
		serie++
	}

	return serie, serieType
}
