package services

import (
	"time"

	"core/models"

	"gorm.io/gorm"
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

func (s *StatsService) GetStats() (*models.Stats, error) {
	stats := &models.Stats{}

	if err := s.db.Model(&models.Dueliste{}).Count(&stats.TotalDuellistes).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Duel{}).Count(&stats.TotalDuels).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Duel{}).
		Where("statut = ?", models.StatutDuelValide).
		Count(&stats.DuelsValides).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Duel{}).
		Where("statut = ?", models.StatutDuelProposeScore).
		Count(&stats.DuelsEnNegociation).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Duel{}).
		Where("statut = ?", models.StatutDuelPropose).
		Count(&stats.InvitationsEnAttente).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	last7DaysStart := now.AddDate(0, 0, -7)
	previous7DaysStart := now.AddDate(0, 0, -14)

	if err := s.db.Model(&models.Duel{}).
		Where("created_at >= ?", last7DaysStart).
		Count(&stats.DuelsLast7Days).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Duel{}).
		Where("created_at >= ? AND created_at < ?", previous7DaysStart, last7DaysStart).
		Count(&stats.DuelsPrevious7Days).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
