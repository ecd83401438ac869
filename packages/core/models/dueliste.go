package models

import (
	"time"

	"gorm.io/gorm"
)

// Catégories de duellistes
const (
	CategorieJunior = "JUNIOR"
	CategorieSenior = "SENIOR"
)

// Statuts de duellistes
const (
	StatutActif    = "ACTIF"
	StatutInactif  = "INACTIF"
	StatutSuspendu = "SUSPENDU"
)

type Dueliste struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Nom       string  `gorm:"size:255;uniqueIndex;not null" json:"nom"`
	Email     *string `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Avatar    *string `gorm:"size:512" json:"avatar,omitempty"`
	Categorie string  `gorm:"size:10;default:SENIOR" json:"categorie"`
	Statut    string  `gorm:"size:10;default:ACTIF" json:"statut"`

	// Compteurs dérivés : toujours recalculés depuis les duels VALIDE
	// par ClassementService.RecalculerStats, jamais incrémentés ailleurs.
	NbVictoires   int `gorm:"default:0" json:"nb_victoires"`
	NbDefaites    int `gorm:"default:0" json:"nb_defaites"`
	NbMatchsTotal int `gorm:"default:0" json:"nb_matchs_total"`
	IndiceTouches int `gorm:"default:0" json:"indice_touches"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Dueliste) TableName() string {
	return "duellistes"
}

// EstActif indique si le dueliste peut proposer ou accepter des duels.
func (d *Dueliste) EstActif() bool {
	return d.Statut == StatutActif
}

type PaginatedDuellistesResponse struct {
	Data       []Dueliste `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}

type UpdateDuelisteRequest struct {
	Categorie *string `json:"categorie,omitempty" binding:"omitempty,oneof=JUNIOR SENIOR"`
	Statut    *string `json:"statut,omitempty" binding:"omitempty,oneof=ACTIF INACTIF SUSPENDU"`
	Avatar    *string `json:"avatar,omitempty"`
}
