package model

import "time"

// Exchange is one question/answer turn. Exchanges are immutable once appended.
type Exchange struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
}
