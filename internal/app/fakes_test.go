package app

import (
	"context"
	"errors"
	"sync"

	"gopherai-tutor/internal/model"
)

type fakeGenerator struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGenerator) ModelName() string { return "fake-model" }

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type memSessions struct {
	records map[string]model.SessionRecord
}

func newMemSessions() *memSessions {
	return &memSessions{records: make(map[string]model.SessionRecord)}
}

func (m *memSessions) Save(record *model.SessionRecord) error {
	m.records[record.ID] = *record
	return nil
}

func (m *memSessions) GetByID(id string) (*model.SessionRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memSessions) DeleteByID(id string) error {
	delete(m.records, id)
	return nil
}

type memExchanges struct {
	records []model.ExchangeRecord
}

func (m *memExchanges) Create(record *model.ExchangeRecord) error {
	m.records = append(m.records, *record)
	return nil
}

func (m *memExchanges) ListBySessionID(sessionID string) ([]model.ExchangeRecord, error) {
	var out []model.ExchangeRecord
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memExchanges) DeleteBySessionID(sessionID string) error {
	kept := m.records[:0]
	for _, r := range m.records {
		if r.SessionID != sessionID {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

type memCache struct {
	snaps map[string]model.SessionSnapshot
}

func newMemCache() *memCache {
	return &memCache{snaps: make(map[string]model.SessionSnapshot)}
}

func (m *memCache) Get(_ context.Context, id string) (model.SessionSnapshot, bool, error) {
	s, ok := m.snaps[id]
	return s, ok, nil
}

func (m *memCache) Set(_ context.Context, snap model.SessionSnapshot) error {
	m.snaps[snap.ID] = snap
	return nil
}

func (m *memCache) Delete(_ context.Context, id string) error {
	delete(m.snaps, id)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, model.ExchangeRecord) error {
	return errors.New("broker unavailable")
}
