package conversation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopherai-tutor/internal/model"
)

func TestExportShape(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC)
	history := []model.Exchange{
		{Question: "What is the quadratic formula?", Answer: "x = <see below>", Subject: "Basic Algebra", Timestamp: t0},
	}

	data, err := Export(history, "Basic Algebra", now)
	require.NoError(t, err)

	want := `{
  "subject": "Basic Algebra",
  "export_timestamp": "2024-03-01T10:00:00.123456",
  "total_questions": 1,
  "conversations": [
    {
      "question_number": 1,
      "question": "What is the quadratic formula?",
      "answer": "x = <see below>",
      "subject": "Basic Algebra",
      "timestamp": "2024-03-01 09:30:00"
    }
  ]
}`
	assert.Equal(t, want, string(data))
}

func TestExportEmptyHistory(t *testing.T) {
	data, err := Export(nil, "Calculus", t0)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(0), decoded["total_questions"])
	assert.Equal(t, []interface{}{}, decoded["conversations"])
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "tutor_session_20240301_093000.json", ExportFileName(t0))
}

func TestSessionFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	history := seeded(3).All()

	written, err := SaveSession(path, history, t0)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "2024-03-01T09:30:00.000000", doc["saved_at"])
	require.Len(t, doc["chat_history"], 3)

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	for i := range history {
		assert.Equal(t, history[i].Question, loaded[i].Question)
		assert.Equal(t, history[i].Subject, loaded[i].Subject)
		assert.Equal(t, history[i].Timestamp.Unix(), loaded[i].Timestamp.Unix())
	}
}

func TestLoadSessionMissingFileIsEmpty(t *testing.T) {
	loaded, err := LoadSession(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLoadSessionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadSession(path)
	require.Error(t, err)
}
