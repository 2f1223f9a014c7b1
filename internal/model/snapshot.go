package model

import "time"

// SessionSnapshot is the serializable state of one tutoring session.
type SessionSnapshot struct {
	ID              string              `json:"id"`
	SelectedSubject string              `json:"selected_subject"`
	CustomSubjects  []Subject           `json:"custom_subjects"`
	References      []ReferenceDocument `json:"references"`
	History         []Exchange          `json:"history"`
	CreatedAt       time.Time           `json:"created_at"`
}
