package repository

import (
	"fmt"

	"gorm.io/gorm"

	"gopherai-tutor/internal/model"
)

type ExchangeRepository struct {
	db *gorm.DB
}

func NewExchangeRepository(db *gorm.DB) *ExchangeRepository {
	return &ExchangeRepository{db: db}
}

func (r *ExchangeRepository) Create(record *model.ExchangeRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("create exchange failed: %w", err)
	}
	return nil
}

// ListBySessionID returns the exchanges of a session in the order they were asked.
func (r *ExchangeRepository) ListBySessionID(sessionID string) ([]model.ExchangeRecord, error) {
	var records []model.ExchangeRecord
	if err := r.db.Where("session_id = ?", sessionID).Order("asked_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list exchanges failed: %w", err)
	}
	return records, nil
}

func (r *ExchangeRepository) DeleteBySessionID(sessionID string) error {
	if err := r.db.Where("session_id = ?", sessionID).Delete(&model.ExchangeRecord{}).Error; err != nil {
		return fmt.Errorf("delete exchanges failed: %w", err)
	}
	return nil
}
