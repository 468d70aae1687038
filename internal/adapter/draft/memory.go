package draft

import (
	"context"
	"sync"

	"github.com/caspiansol/adspark/internal/domain"
)

// MemoryStore is an in-process draft store for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]domain.WizardDraft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]domain.WizardDraft)}
}

func (s *MemoryStore) Save(ctx context.Context, userID string, d *domain.WizardDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = *d
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (*domain.WizardDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}

var _ domain.DraftStore = (*MemoryStore)(nil)
