package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gopherai-tutor/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save inserts the record or updates the selected subject of an existing one.
func (r *SessionRepository) Save(record *model.SessionRecord) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_subject", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return fmt.Errorf("save session failed: %w", err)
	}
	return nil
}

// GetByID returns nil without error when the session does not exist.
func (r *SessionRepository) GetByID(id string) (*model.SessionRecord, error) {
	var record model.SessionRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	return &record, nil
}

func (r *SessionRepository) DeleteByID(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.SessionRecord{}).Error; err != nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	return nil
}
