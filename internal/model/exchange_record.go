package model

import "time"

// ExchangeRecord is the durable copy of an Exchange. Outcome records whether the
// answer came from the model or is a classified failure message.
type ExchangeRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:36;not null;index" json:"session_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Subject   string    `gorm:"size:128;not null;index" json:"subject"`
	Outcome   string    `gorm:"size:32;not null" json:"outcome"`
	AskedAt   time.Time `gorm:"index" json:"asked_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r ExchangeRecord) Exchange() Exchange {
	return Exchange{
		Question:  r.Question,
		Answer:    r.Answer,
		Subject:   r.Subject,
		Timestamp: r.AskedAt,
	}
}
