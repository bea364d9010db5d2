package quote

import (
	"context"
	"sync"
)

type MemStore struct {
	mu            sync.RWMutex
	quotes        map[string]Quote
	consultations map[string]Consultation
}

func NewMemStore() *MemStore {
	return &MemStore{
		quotes:        map[string]Quote{},
		consultations: map[string]Consultation{},
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) CreateQuote(ctx context.Context, q Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quotes[q.ID]; ok {
		return ErrDuplicateID
	}
	q.Lines = append([]Line(nil), q.Lines...)
	s.quotes[q.ID] = q
	return nil
}

func (s *MemStore) GetQuote(ctx context.Context, id string) (Quote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[id]
	if ok {
		q.Lines = append([]Line(nil), q.Lines...)
	}
	return q, ok, nil
}

func (s *MemStore) CreateConsultation(ctx context.Context, c Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.consultations[c.ID]; ok {
		return ErrDuplicateID
	}
	s.consultations[c.ID] = c
	return nil
}

func (s *MemStore) Consultations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.consultations)
}
