package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopherai-tutor/internal/model"
)

type sessionFile struct {
	SavedAt     string          `json:"saved_at"`
	ChatHistory []savedExchange `json:"chat_history"`
}

// savedExchange keeps the timestamp as fractional unix seconds.
type savedExchange struct {
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Subject   string  `json:"subject"`
	Timestamp float64 `json:"timestamp"`
}

// SaveSession writes the history to path. An empty path picks a timestamped
// name in the working directory. The written path is returned.
func SaveSession(path string, exchanges []model.Exchange, now time.Time) (string, error) {
	if path == "" {
		path = ExportFileName(now)
	}
	doc := sessionFile{
		SavedAt:     now.Format(isoLayout),
		ChatHistory: make([]savedExchange, 0, len(exchanges)),
	}
	for _, e := range exchanges {
		doc.ChatHistory = append(doc.ChatHistory, savedExchange{
			Question:  e.Question,
			Answer:    e.Answer,
			Subject:   e.Subject,
			Timestamp: float64(e.Timestamp.UnixNano()) / float64(time.Second),
		})
	}
	data, err := encodeIndented(doc)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write session file failed: %w", err)
	}
	return path, nil
}

// LoadSession reads a history written by SaveSession. A missing file is an
// empty history, not an error.
func LoadSession(path string) ([]model.Exchange, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Exchange{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file failed: %w", err)
	}

	var doc sessionFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session file failed: %w", err)
	}
	out := make([]model.Exchange, 0, len(doc.ChatHistory))
	for _, e := range doc.ChatHistory {
		sec, frac := math.Modf(e.Timestamp)
		out = append(out, model.Exchange{
			Question:  e.Question,
			Answer:    e.Answer,
			Subject:   e.Subject,
			Timestamp: time.Unix(int64(sec), int64(frac*float64(time.Second))),
		})
	}
	return out, nil
}
