package services

import (
	"errors"

	"core/apperr"
	"core/models"

	"gorm.io/gorm"
)

type DuelisteService struct {
	db *gorm.DB
}

func NewDuelisteService(db *gorm.DB) *DuelisteService {
	return &DuelisteService{
		db: db,
	}
}

func (s *DuelisteService) GetDuelisteByID(id uint) (*models.Dueliste, error) {
	var dueliste models.Dueliste

	result := s.db.First(&dueliste, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("dueliste %d introuvable", id)
		}
		return nil, result.Error
	}

	return &dueliste, nil
}

// CreateDueliste crée le profil dueliste associé à un compte utilisateur.
// L'id du dueliste est celui de l'utilisateur.
func (s *DuelisteService) CreateDueliste(userID uint, nom string, email *string, categorie string) (*models.Dueliste, error) {
	if categorie != models.CategorieJunior && categorie != models.CategorieSenior {
		categorie = models.CategorieSenior
	}

	dueliste := &models.Dueliste{
		ID:        userID,
		Nom:       nom,
		Email:     email,
		Categorie: categorie,
		Statut:    models.StatutActif,
	}

	result := s.db.Create(dueliste)
	if result.Error != nil {
		return nil, result.Error
	}

	return dueliste, nil
}

// UpdateDueliste met à jour catégorie, statut ou avatar.
func (s *DuelisteService) UpdateDueliste(id uint, req models.UpdateDuelisteRequest) (*models.Dueliste, error) {
	dueliste, err := s.GetDuelisteByID(id)
	if err != nil {
		return nil, err
	}

	if req.Categorie != nil {
		dueliste.Categorie = *req.Categorie
	}
	if req.Statut != nil {
		dueliste.Statut = *req.Statut
	}
	if req.Avatar != nil {
		dueliste.Avatar = req.Avatar
	}

	if err := s.db.Save(dueliste).Error; err != nil {
		return nil, err
	}

	return dueliste, nil
}

func (s *DuelisteService) GetAllDuellistes(categorie, statut string, page, pageSize int) (*models.PaginatedDuellistesResponse, error) {
	query := s.db.Model(&models.Dueliste{})

	if categorie != "" {
		query = query.Where("categorie = ?", categorie)
	}
	if statut != "" {
		query = query.Where("statut = ?", statut)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	var duellistes []models.Dueliste
	if err := query.Order("nom ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&duellistes).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedDuellistesResponse{
		Data:       duellistes,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetDuelsForDueliste retourne les duels d'un dueliste, filtrables sur
// les victoires ou les défaites validées.
func (s *DuelisteService) GetDuelsForDueliste(duelisteID uint, filter string, page, pageSize int) (*models.PaginatedDuelsResponse, error) {
	if _, err := s.GetDuelisteByID(duelisteID); err != nil {
		return nil, err
	}

	baseQuery := s.db.Model(&models.Duel{}).Where("challenger_id = ? OR adversaire_id = ?", duelisteID, duelisteID)

	switch filter {
	case "victoires":
		baseQuery = baseQuery.Where("statut = ? AND vainqueur_id = ?", models.StatutDuelValide, duelisteID)
	case "defaites":
		baseQuery = baseQuery.Where("statut = ? AND vainqueur_id != ?", models.StatutDuelValide, duelisteID)
	}

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	var duels []models.Duel
	if err := baseQuery.Order("created_at DESC").
		Preload("Challenger").
		Preload("Adversaire").
		Preload("Vainqueur").
		Offset(offset).
		Limit(pageSize).
		Find(&duels).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedDuelsResponse{
		Data:       duels,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
