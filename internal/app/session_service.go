package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"gopherai-tutor/internal/conversation"
	"gopherai-tutor/internal/logger"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/reference"
	"gopherai-tutor/internal/subject"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRecordStore interface {
	Save(record *model.SessionRecord) error
	GetByID(id string) (*model.SessionRecord, error)
	DeleteByID(id string) error
}

type ExchangeRecordStore interface {
	Create(record *model.ExchangeRecord) error
	ListBySessionID(sessionID string) ([]model.ExchangeRecord, error)
	DeleteBySessionID(sessionID string) error
}

type ExchangePublisher interface {
	Publish(ctx context.Context, record model.ExchangeRecord) error
}

type SnapshotCache interface {
	Get(ctx context.Context, sessionID string) (model.SessionSnapshot, bool, error)
	Set(ctx context.Context, snap model.SessionSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionDeps are the optional backing stores. Any of them may be nil.
type SessionDeps struct {
	Sessions  SessionRecordStore
	Exchanges ExchangeRecordStore
	Publisher ExchangePublisher
	Cache     SnapshotCache
}

type SessionServiceConfig struct {
	DefaultSubject string
	// Catalog subjects are registered into every new session.
	Catalog *subject.Catalog
	Now     func() time.Time
	NewID   func() string
	// IdleTTL evicts sessions not looked up for this long from memory; zero
	// keeps them until Delete. Evicted sessions are rebuilt from the cache or
	// the database on the next lookup.
	IdleTTL time.Duration
}

// SessionService keeps live sessions in memory and mirrors them to the
// optional cache and database.
type SessionService struct {
	tutor *TutorService
	deps  SessionDeps
	cfg   SessionServiceConfig
	log   *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

type AskOutput struct {
	AskResult
	Exchange model.Exchange `json:"exchange"`
}

type SessionStats struct {
	conversation.Stats
	Duration        string `json:"duration"`
	Summary         string `json:"summary"`
	References      int    `json:"references"`
	ReferenceTokens int    `json:"reference_tokens"`
}

func NewSessionService(tutor *TutorService, deps SessionDeps, cfg SessionServiceConfig, log *logger.Logger) *SessionService {
	if cfg.DefaultSubject == "" {
		cfg.DefaultSubject = subject.DefaultSubject
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	return &SessionService{
		tutor:    tutor,
		deps:     deps,
		cfg:      cfg,
		log:      logger.OrNop(log).With("component", "SessionService"),
		sessions: make(map[string]*Session),
	}
}

func (s *SessionService) Tutor() *TutorService {
	return s.tutor
}

func (s *SessionService) Create(ctx context.Context) (*Session, error) {
	sess := NewSession(s.cfg.NewID(), s.cfg.DefaultSubject, s.cfg.Now(), s.log)
	if s.cfg.Catalog != nil {
		added, skipped := sess.ImportSubjects(s.cfg.Catalog)
		if len(skipped) > 0 {
			s.log.Warn("catalog subjects skipped", "session_id", sess.ID, "skipped", skipped)
		}
		s.log.Debug("catalog subjects imported", "session_id", sess.ID, "added", len(added))
	}

	if s.deps.Sessions != nil {
		if err := s.deps.Sessions.Save(&model.SessionRecord{
			ID:              sess.ID,
			SelectedSubject: sess.Selected().Name,
		}); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.cacheSession(ctx, sess)
	s.log.Info("session created", "session_id", sess.ID)
	return sess, nil
}

// Restore installs a session rebuilt from snap, replacing any live session
// with the same ID.
func (s *SessionService) Restore(ctx context.Context, snap model.SessionSnapshot) *Session {
	sess := RestoreSession(snap, s.cfg.DefaultSubject, s.log)
	sess.touch(s.cfg.Now())
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.cacheSession(ctx, sess)
	return sess
}

// Get looks in memory first, then the snapshot cache, then the database. A
// session rebuilt from the database has its history and selection only.
func (s *SessionService) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		sess.touch(s.cfg.Now())
		return sess, nil
	}

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		existing.touch(s.cfg.Now())
		return existing, nil
	}
	sess.touch(s.cfg.Now())
	s.sessions[id] = sess
	return sess, nil
}

// EvictIdle drops sessions idle for longer than IdleTTL from memory after
// writing their final snapshot, and returns how many were dropped.
func (s *SessionService) EvictIdle(ctx context.Context) int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := s.cfg.Now().Add(-s.cfg.IdleTTL)

	var evicted []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.LastAccess().Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range evicted {
		s.cacheSession(ctx, sess)
	}
	if len(evicted) > 0 {
		s.log.Info("idle sessions evicted", "count", len(evicted))
	}
	return len(evicted)
}

// RunEvictor calls EvictIdle every interval until ctx is done.
func (s *SessionService) RunEvictor(ctx context.Context, interval time.Duration) {
	if s.cfg.IdleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.EvictIdle(ctx)
		}
	}
}

// Len is the number of sessions held in memory.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionService) load(ctx context.Context, id string) (*Session, error) {
	if s.deps.Cache != nil {
		snap, hit, err := s.deps.Cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("snapshot cache read failed", "session_id", id, "err", err)
		} else if hit {
			return RestoreSession(snap, s.cfg.DefaultSubject, s.log), nil
		}
	}

	if s.deps.Sessions == nil {
		return nil, ErrSessionNotFound
	}
	record, err := s.deps.Sessions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrSessionNotFound
	}

	snap := model.SessionSnapshot{
		ID:              record.ID,
		SelectedSubject: record.SelectedSubject,
		CreatedAt:       record.CreatedAt,
	}
	if s.deps.Exchanges != nil {
		records, err := s.deps.Exchanges.ListBySessionID(id)
		if err != nil {
			return nil, err
		}
		snap.History = make([]model.Exchange, 0, len(records))
		for _, r := range records {
			snap.History = append(snap.History, r.Exchange())
		}
	}
	sess := RestoreSession(snap, s.cfg.DefaultSubject, s.log)
	s.cacheSession(ctx, sess)
	return sess, nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Delete(ctx, id); err != nil {
			s.log.Warn("snapshot cache delete failed", "session_id", id, "err", err)
		}
	}
	if s.deps.Exchanges != nil {
		if err := s.deps.Exchanges.DeleteBySessionID(id); err != nil {
			return err
		}
	}
	if s.deps.Sessions != nil {
		if err := s.deps.Sessions.DeleteByID(id); err != nil {
			return err
		}
	}
	s.log.Info("session deleted", "session_id", id)
	return nil
}

// Update runs fn against the session and mirrors the resulting state.
func (s *SessionService) Update(ctx context.Context, id string, fn func(*Session) error) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	s.cacheSession(ctx, sess)
	return nil
}

func (s *SessionService) SelectSubject(ctx context.Context, id, name string) (model.Subject, error) {
	var selected model.Subject
	err := s.Update(ctx, id, func(sess *Session) error {
		sub, err := sess.SelectSubject(name)
		if err != nil {
			return err
		}
		selected = sub
		return nil
	})
	if err != nil {
		return model.Subject{}, err
	}
	s.saveSelection(id, selected.Name)
	return selected, nil
}

func (s *SessionService) RegisterSubject(ctx context.Context, id, name, description, subjectContext, icon string) (model.Subject, error) {
	var created model.Subject
	err := s.Update(ctx, id, func(sess *Session) error {
		sub, err := sess.RegisterSubject(name, description, subjectContext, icon)
		if err != nil {
			return err
		}
		created = sub
		return nil
	})
	return created, err
}

// RemoveSubject returns the subject selected after the removal.
func (s *SessionService) RemoveSubject(ctx context.Context, id, name string) (model.Subject, error) {
	var selected model.Subject
	err := s.Update(ctx, id, func(sess *Session) error {
		if err := sess.RemoveSubject(name); err != nil {
			return err
		}
		selected = sess.Selected()
		return nil
	})
	if err != nil {
		return model.Subject{}, err
	}
	s.saveSelection(id, selected.Name)
	return selected, nil
}

func (s *SessionService) IngestReferences(ctx context.Context, id string, files []model.SourceFile) (reference.BatchResult, error) {
	var result reference.BatchResult
	err := s.Update(ctx, id, func(sess *Session) error {
		result = sess.IngestReferences(files)
		return nil
	})
	return result, err
}

func (s *SessionService) RemoveReference(ctx context.Context, id, name string) error {
	return s.Update(ctx, id, func(sess *Session) error {
		return sess.RemoveReference(name)
	})
}

func (s *SessionService) ClearReferences(ctx context.Context, id string) error {
	return s.Update(ctx, id, func(sess *Session) error {
		sess.ClearReferences()
		return nil
	})
}

// Ask validates, calls the model without holding the session lock, then
// appends the answer. Failure messages are appended like answers and carry
// their Outcome into the durable record.
func (s *SessionService) Ask(ctx context.Context, id, question, subjectName string) (AskOutput, error) {
	if err := ValidateQuestion(question); err != nil {
		return AskOutput{}, err
	}
	sess, err := s.Get(ctx, id)
	if err != nil {
		return AskOutput{}, err
	}

	ac, err := sess.prepareAsk(s.tutor.Composer().MaxHistory(), subjectName)
	if err != nil {
		return AskOutput{}, err
	}

	result, err := s.tutor.Ask(ctx, AskInput{
		Question:        question,
		Subject:         ac.subject,
		History:         ac.history,
		ReferenceCorpus: ac.corpus,
	})
	if err != nil {
		return AskOutput{}, err
	}

	exchange := sess.appendExchange(result.Question, result.Answer, ac.subject.Name, s.cfg.Now())
	s.cacheSession(ctx, sess)
	s.persistExchange(ctx, id, exchange, result.Outcome)

	return AskOutput{AskResult: result, Exchange: exchange}, nil
}

func (s *SessionService) History(ctx context.Context, id, subjectName string) ([]model.Exchange, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.History(subjectName), nil
}

func (s *SessionService) ClearHistory(ctx context.Context, id string) error {
	err := s.Update(ctx, id, func(sess *Session) error {
		sess.ClearHistory()
		return nil
	})
	if err != nil {
		return err
	}
	if s.deps.Exchanges != nil {
		if err := s.deps.Exchanges.DeleteBySessionID(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *SessionService) Stats(ctx context.Context, id string) (SessionStats, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return SessionStats{}, err
	}
	st := sess.Stats()
	return SessionStats{
		Stats:           st,
		Duration:        conversation.FormatDuration(st.DurationSeconds),
		Summary:         sess.Summary(),
		References:      len(sess.References()),
		ReferenceTokens: conversation.EstimateTokens(sess.ReferenceCorpus()),
	}, nil
}

// Export renders the history as the download document and its file name.
func (s *SessionService) Export(ctx context.Context, id string) ([]byte, string, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	now := s.cfg.Now()
	data, err := conversation.Export(sess.History(""), sess.Selected().Name, now)
	if err != nil {
		return nil, "", err
	}
	return data, conversation.ExportFileName(now), nil
}

func (s *SessionService) persistExchange(ctx context.Context, sessionID string, e model.Exchange, outcome Outcome) {
	record := model.ExchangeRecord{
		SessionID: sessionID,
		Question:  e.Question,
		Answer:    e.Answer,
		Subject:   e.Subject,
		Outcome:   string(outcome),
		AskedAt:   e.Timestamp,
	}
	if s.deps.Publisher != nil {
		err := s.deps.Publisher.Publish(ctx, record)
		if err == nil {
			return
		}
		s.log.Warn("publish exchange failed, writing directly", "session_id", sessionID, "err", err)
	}
	if s.deps.Exchanges == nil {
		return
	}
	if err := s.deps.Exchanges.Create(&record); err != nil {
		s.log.Error("persist exchange failed", "session_id", sessionID, "err", err)
	}
}

func (s *SessionService) saveSelection(id, name string) {
	if s.deps.Sessions == nil {
		return
	}
	if err := s.deps.Sessions.Save(&model.SessionRecord{ID: id, SelectedSubject: name}); err != nil {
		s.log.Error("save session selection failed", "session_id", id, "subject", name, "err", err)
	}
}

// cacheSession takes the snapshot and writes it under the session's cache
// lock, so a slow write can never overwrite a newer snapshot.
func (s *SessionService) cacheSession(ctx context.Context, sess *Session) {
	if s.deps.Cache == nil {
		return
	}
	sess.cacheMu.Lock()
	defer sess.cacheMu.Unlock()
	snap := sess.Snapshot()
	if err := s.deps.Cache.Set(ctx, snap); err != nil {
		s.log.Warn("snapshot cache write failed", "session_id", snap.ID, "err", err)
	}
}
