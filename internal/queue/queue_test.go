package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ahoin001/Soma-sub005/internal/domain"
)

// fakeStore is an in-memory MutationStore for processor and executor tests.
type fakeStore struct {
	mu      sync.Mutex
	seq     int
	records []domain.PendingMutation

	listErr   error
	appendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Append(ctx context.Context, kind domain.Kind, payload json.RawMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return "", s.appendErr
	}
	s.seq++
	id := fmt.Sprintf("m-%d", s.seq)
	s.records = append(s.records, domain.PendingMutation{
		ID:        id,
		Kind:      kind,
		Payload:   append(json.RawMessage(nil), payload...),
		CreatedAt: time.Now(),
	})
	return id, nil
}

func (s *fakeStore) ListAll(ctx context.Context) ([]domain.PendingMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.PendingMutation(nil), s.records...), nil
}

func (s *fakeStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

func (s *fakeStore) UpdateRetry(ctx context.Context, id string, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].RetryCount++
			s.records[i].LastError = errMsg
			break
		}
	}
	return nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func (s *fakeStore) snapshot() []domain.PendingMutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PendingMutation(nil), s.records...)
}

// staticMonitor reports a fixed connectivity state.
type staticMonitor struct {
	online bool
	events chan bool
}

func (m *staticMonitor) Online() bool        { return m.online }
func (m *staticMonitor) Events() <-chan bool { return m.events }
