package app

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"gopherai-tutor/internal/conversation"
	"gopherai-tutor/internal/logger"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/reference"
	"gopherai-tutor/internal/subject"
)

// Session owns the mutable state of one learner: custom subjects, reference
// documents, conversation history and the selected subject. All methods are
// safe for concurrent use; the lock is never held across a model call.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu             sync.Mutex
	subjects       *subject.Registry
	references     *reference.Store
	history        *conversation.Log
	selected       string
	defaultSubject string

	// cacheMu serializes snapshot writes so the newest state is written last.
	cacheMu    sync.Mutex
	lastAccess atomic.Int64
}

// NewSession starts with the built-in subjects and defaultSubject selected.
// An unknown default falls back to subject.DefaultSubject.
func NewSession(id, defaultSubject string, now time.Time, log *logger.Logger) *Session {
	s := &Session{
		ID:         id,
		CreatedAt:  now,
		subjects:   subject.NewRegistry(),
		references: reference.NewStore(logger.OrNop(log).With("session_id", id)),
		history:    conversation.NewLog(),
	}
	if !s.subjects.Has(defaultSubject) {
		defaultSubject = subject.DefaultSubject
	}
	s.defaultSubject = defaultSubject
	s.selected = defaultSubject
	s.touch(now)
	return s
}

func (s *Session) touch(now time.Time) {
	s.lastAccess.Store(now.UnixNano())
}

// LastAccess is the time the session was last looked up.
func (s *Session) LastAccess() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

// RestoreSession rebuilds a session from its snapshot. Custom subjects are
// re-registered, so a name that collides with a built-in is dropped.
func RestoreSession(snap model.SessionSnapshot, defaultSubject string, log *logger.Logger) *Session {
	s := NewSession(snap.ID, defaultSubject, snap.CreatedAt, log)
	for _, c := range snap.CustomSubjects {
		_, _ = s.subjects.Register(c.Name, c.Description, c.Context, c.Icon)
	}
	s.references.Restore(snap.References)
	s.history = conversation.FromExchanges(snap.History)
	if s.subjects.Has(snap.SelectedSubject) {
		s.selected = snap.SelectedSubject
	}
	return s
}

func (s *Session) Snapshot() model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SessionSnapshot{
		ID:              s.ID,
		SelectedSubject: s.selected,
		CustomSubjects:  s.subjects.Custom(),
		References:      s.references.Documents(),
		History:         s.history.All(),
		CreatedAt:       s.CreatedAt,
	}
}

// Selected returns the currently selected subject.
func (s *Session) Selected() model.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, err := s.subjects.Get(s.selected)
	if err != nil {
		sub, _ = s.subjects.Get(s.defaultSubject)
	}
	return sub
}

func (s *Session) SelectSubject(name string) (model.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, err := s.subjects.Get(name)
	if err != nil {
		return model.Subject{}, err
	}
	s.selected = name
	return sub, nil
}

func (s *Session) Subjects() []model.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjects.ListAll()
}

func (s *Session) DisplayIcon(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjects.DisplayIcon(name)
}

func (s *Session) RegisterSubject(name, description, subjectContext, icon string) (model.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjects.Register(name, description, subjectContext, icon)
}

// ImportSubjects registers catalog entries, skipping collisions.
func (s *Session) ImportSubjects(c *subject.Catalog) (added, skipped []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjects.Import(c)
}

func (s *Session) ExportSubjects() *subject.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subjects.ExportCustom()
}

// RemoveSubject deletes a custom subject. Removing the selected one moves the
// selection back to the default subject.
func (s *Session) RemoveSubject(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.subjects.Remove(name); err != nil {
		return err
	}
	if s.selected == name {
		s.selected = s.defaultSubject
	}
	return nil
}

func (s *Session) IngestReferences(files []model.SourceFile) reference.BatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.references.IngestBatch(files)
}

func (s *Session) RemoveReference(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.references.Remove(name)
}

func (s *Session) ClearReferences() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.references.Clear()
}

func (s *Session) References() []model.ReferenceDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.references.Documents()
}

func (s *Session) ReferenceCorpus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.references.AggregateCorpus()
}

// History returns all exchanges, or only those tagged with subjectName when it
// is not empty.
func (s *Session) History(subjectName string) []model.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subjectName == "" {
		return s.history.All()
	}
	return slices.Collect(s.history.FilterBySubject(subjectName))
}

func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

func (s *Session) Stats() conversation.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Stats()
}

func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Summary()
}

func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Clear()
}

// askContext captures what a model call needs so the lock can be released
// before the call.
type askContext struct {
	subject model.Subject
	history []model.Exchange
	corpus  string
}

func (s *Session) prepareAsk(window int, subjectName string) (askContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := subjectName
	if name == "" {
		name = s.selected
	}
	sub, err := s.subjects.Get(name)
	if err != nil {
		return askContext{}, err
	}
	return askContext{
		subject: sub,
		history: s.history.Windowed(window),
		corpus:  s.references.AggregateCorpus(),
	}, nil
}

func (s *Session) appendExchange(question, answer, subjectName string, ts time.Time) model.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Append(question, answer, subjectName, ts)
}
