package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopherai-tutor/internal/model"
)

const (
	isoLayout      = "2006-01-02T15:04:05.000000"
	fileNameLayout = "20060102_150405"
)

type exportDocument struct {
	Subject         string             `json:"subject"`
	ExportTimestamp string             `json:"export_timestamp"`
	TotalQuestions  int                `json:"total_questions"`
	Conversations   []exportedExchange `json:"conversations"`
}

type exportedExchange struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	Subject        string `json:"subject"`
	Timestamp      string `json:"timestamp"`
}

// Export renders the history as the JSON document consumed by existing tooling.
// subject is the subject selected at export time.
func Export(exchanges []model.Exchange, subject string, now time.Time) ([]byte, error) {
	doc := exportDocument{
		Subject:         subject,
		ExportTimestamp: now.Format(isoLayout),
		TotalQuestions:  len(exchanges),
		Conversations:   make([]exportedExchange, 0, len(exchanges)),
	}
	for i, e := range exchanges {
		doc.Conversations = append(doc.Conversations, exportedExchange{
			QuestionNumber: i + 1,
			Question:       e.Question,
			Answer:         e.Answer,
			Subject:        e.Subject,
			Timestamp:      FormatTimestamp(e.Timestamp),
		})
	}
	return encodeIndented(doc)
}

// ExportFileName is the suggested download name, e.g. tutor_session_20240101_093000.json.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("tutor_session_%s.json", now.Format(fileNameLayout))
}

func encodeIndented(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json failed: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
