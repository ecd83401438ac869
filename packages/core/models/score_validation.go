package models

import "time"

// ScoreValidation enregistre l'affirmation d'un score par un membre pour
// un duel donné. Au plus une ligne par couple (duel, dueliste) : une
// contre-proposition supprime puis recrée, la validation finale purge tout.
type ScoreValidation struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DuelID          uint      `gorm:"not null;uniqueIndex:idx_score_validations_duel_dueliste" json:"duel_id"`
	DuelisteID      uint      `gorm:"not null;uniqueIndex:idx_score_validations_duel_dueliste" json:"dueliste_id"`
	ScoreChallenger int       `gorm:"not null" json:"score_challenger"`
	ScoreAdversaire int       `gorm:"not null" json:"score_adversaire"`
	CreatedAt       time.Time `json:"created_at"`

	Duel     Duel     `gorm:"foreignKey:DuelID;references:ID" json:"-"`
	Dueliste Dueliste `gorm:"foreignKey:DuelisteID;references:ID" json:"dueliste,omitempty"`
}

func (ScoreValidation) TableName() string {
	return "score_validations"
}
