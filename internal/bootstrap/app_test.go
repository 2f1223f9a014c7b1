package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopherai-tutor/internal/app"
	"gopherai-tutor/internal/config"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/platform/database"
)

func TestNewWithConfigSQLiteWithoutAPIKey(t *testing.T) {
	dir := t.TempDir()
	subjectsFile := filepath.Join(dir, "subjects.yaml")
	require.NoError(t, os.WriteFile(subjectsFile, []byte(`
subjects:
  - name: Basic Algebra
    description: Equations and factoring
    context: You are teaching high-school algebra.
`), 0o644))

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	cfg.LLM.APIKey = ""
	cfg.Tutor.SubjectsFile = subjectsFile
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLite.Path = filepath.Join(dir, "tutor.db")
	cfg.Redis.Addr = ""
	cfg.RabbitMQ.URL = ""

	ctx := context.Background()
	a, err := NewWithConfig(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.NotNil(t, a.DB)
	assert.Nil(t, a.Redis)
	assert.Nil(t, a.MQConn)
	assert.Empty(t, a.Tutor.ModelName())

	sess, err := a.Sessions.Create(ctx)
	require.NoError(t, err)
	_, err = a.Sessions.SelectSubject(ctx, sess.ID, "Basic Algebra")
	require.NoError(t, err)

	out, err := a.Sessions.Ask(ctx, sess.ID, "What is a quadratic equation?", "")
	require.NoError(t, err)
	assert.Equal(t, app.OutcomeGeneralError, out.Outcome)
	assert.Contains(t, out.Answer, "llm api key is missing")

	var records []model.ExchangeRecord
	require.NoError(t, a.DB.Where("session_id = ?", sess.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "Basic Algebra", records[0].Subject)
	assert.Equal(t, string(app.OutcomeGeneralError), records[0].Outcome)

	var saved model.SessionRecord
	require.NoError(t, a.DB.First(&saved, "id = ?", sess.ID).Error)
	assert.Equal(t, "Basic Algebra", saved.SelectedSubject)
}

func TestNewWithConfigUnknownDriver(t *testing.T) {
	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	cfg.Database.Driver = "oracle"

	_, err = NewWithConfig(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestMessagesOverride(t *testing.T) {
	m := Messages(config.MessagesConfig{ChatCleared: "Cleared."})
	assert.Equal(t, "Cleared.", m.ChatCleared)

	svc := app.NewTutorService(nil, nil, app.TutorConfig{Messages: m}, nil)
	assert.Equal(t, "Cleared.", svc.Messages().ChatCleared)
	assert.Equal(t, app.DefaultMessages().QuotaExceeded, svc.Messages().QuotaExceeded)
}

func TestNewWithConfigMigrationFailureReturnsError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tutor.db")

	// A view with the table's name makes CREATE TABLE fail.
	db, err := database.New(ctx, database.DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE VIEW exchange_records AS SELECT 1 AS id").Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	cfg.LLM.APIKey = ""
	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLite.Path = path

	a, err := NewWithConfig(ctx, cfg, nil)
	require.Error(t, err)
	assert.Nil(t, a)
	assert.Contains(t, err.Error(), "auto migrate tables failed")
}

func TestCloseStopsEvictor(t *testing.T) {
	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	cfg.LLM.APIKey = ""
	cfg.Tutor.SessionIdleMinutes = 1

	a, err := NewWithConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, a.stopEvictor)
	assert.NoError(t, a.Close())
}
