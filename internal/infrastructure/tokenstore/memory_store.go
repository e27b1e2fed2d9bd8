package tokenstore

import (
	"context"
	"sync"

	"github.com/jhoicas/stylashop-pos/internal/domain/repository"
)

var _ repository.TokenStore = (*MemoryStore)(nil)

// MemoryStore token en memoria del proceso (tests y backend de desarrollo).
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
