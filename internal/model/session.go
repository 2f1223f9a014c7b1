package model

import "time"

type SessionRecord struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	SelectedSubject string    `gorm:"size:128;not null" json:"selected_subject"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
