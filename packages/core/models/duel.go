package models

import (
	"time"

	"gorm.io/gorm"
)

// Statuts d'un duel. ACCEPTE est conservé comme alias historique de
// A_JOUER : l'acceptation écrit toujours A_JOUER, mais les gardes
// acceptent les deux valeurs pour les lignes héritées.
const (
	StatutDuelPropose             = "PROPOSE"
	StatutDuelAccepte             = "ACCEPTE"
	StatutDuelAJouer              = "A_JOUER"
	StatutDuelProposeScore        = "PROPOSE_SCORE"
	StatutDuelEnAttenteValidation = "EN_ATTENTE_VALIDATION"
	StatutDuelValide              = "VALIDE"
	StatutDuelRefuse              = "REFUSE"
)

type Duel struct {
	ID           uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	ChallengerID uint  `gorm:"not null;index" json:"challenger_id"`
	AdversaireID uint  `gorm:"not null;index" json:"adversaire_id"`
	ArbitreID    *uint `gorm:"index" json:"arbitre_id,omitempty"`

	Statut     string     `gorm:"size:25;default:PROPOSE;index" json:"statut"`
	DatePrevue *time.Time `json:"date_prevue,omitempty"`
	AccepteLe  *time.Time `json:"accepte_le,omitempty"`
	ValideLe   *time.Time `json:"valide_le,omitempty"`

	// Pendant PROPOSE_SCORE : la proposition courante.
	// Après VALIDE : les scores définitifs.
	ScoreChallenger *int `json:"score_challenger,omitempty"`
	ScoreAdversaire *int `json:"score_adversaire,omitempty"`

	VainqueurID      *uint  `gorm:"index" json:"vainqueur_id,omitempty"`
	ValideParArbitre bool   `gorm:"default:false" json:"valide_par_arbitre"`
	Notes            string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Challenger Dueliste  `gorm:"foreignKey:ChallengerID;references:ID" json:"challenger,omitempty"`
	Adversaire Dueliste  `gorm:"foreignKey:AdversaireID;references:ID" json:"adversaire,omitempty"`
	Arbitre    *Dueliste `gorm:"foreignKey:ArbitreID;references:ID" json:"arbitre,omitempty"`
	Vainqueur  *Dueliste `gorm:"foreignKey:VainqueurID;references:ID" json:"vainqueur,omitempty"`
}

func (Duel) TableName() string {
	return "duels"
}

// EstJouable indique si le duel est au stade accepté, prêt pour un
// premier report de score.
func (d *Duel) EstJouable() bool {
	return d.Statut == StatutDuelAJouer || d.Statut == StatutDuelAccepte
}

// Participant indique si le dueliste est challenger ou adversaire.
func (d *Duel) Participant(duelisteID uint) bool {
	return d.ChallengerID == duelisteID || d.AdversaireID == duelisteID
}

// EstArbitre indique si le dueliste est l'arbitre désigné du duel.
func (d *Duel) EstArbitre(duelisteID uint) bool {
	return d.ArbitreID != nil && *d.ArbitreID == duelisteID
}

type PaginatedDuelsResponse struct {
	Data       []Duel `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

type CreateDuelRequest struct {
	AdversaireID uint       `json:"adversaire_id" binding:"required"`
	ArbitreID    *uint      `json:"arbitre_id,omitempty"`
	DatePrevue   *time.Time `json:"date_prevue,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

type AccepterDuelRequest struct {
	DatePrevue *time.Time `json:"date_prevue,omitempty"`
}

type RefuserDuelRequest struct {
	Motif string `json:"motif,omitempty"`
}

type ReportScoreRequest struct {
	ScoreChallenger *int `json:"score_challenger" binding:"required"`
	ScoreAdversaire *int `json:"score_adversaire" binding:"required"`
}

type ForceValiderRequest struct {
	ScoreChallenger *int   `json:"score_challenger" binding:"required"`
	ScoreAdversaire *int   `json:"score_adversaire" binding:"required"`
	Motif           string `json:"motif" binding:"required"`
}

// PropositionResponse décrit la proposition de score en attente sur un
// duel en PROPOSE_SCORE, vue par un des deux participants.
type PropositionResponse struct {
	DuelID          uint   `json:"duel_id"`
	ScoreChallenger int    `json:"score_challenger"`
	ScoreAdversaire int    `json:"score_adversaire"`
	ProposeParID    uint   `json:"propose_par_id"`
	ProposeParNom   string `json:"propose_par_nom"`
	PeutRepondre    bool   `json:"peut_repondre"`
}
